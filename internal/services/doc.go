// Package services provides shared error classification and context
// annotation helpers used across filerelay components.
package services
