// Package workflow runs the outer polling loop: every cycle walks the
// configured folder mappings in order, drives each one through the folder
// processor, and reschedules after the configured interval. Cycle-level
// faults are classified and mapped to backoff waits before the next attempt.
package workflow
