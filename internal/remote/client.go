// Package remote implements the HTTP client for the remote file store that
// transfer and verify tasks run against.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"filerelay/internal/config"
	"filerelay/internal/services"
)

const userAgent = "filerelay/1.0"

// Client defines the remote store operations the task actions depend on.
type Client interface {
	// Upload stores the local file under the remote directory, keeping its
	// base name. The write must be acknowledged before Upload returns nil.
	Upload(ctx context.Context, remoteDir, localPath string) error
	// List returns the file names present under the remote directory.
	List(ctx context.Context, remoteDir string) ([]string, error)
}

// NewClient builds an HTTP-backed store client from configuration.
func NewClient(cfg *config.Config) Client {
	timeout := time.Duration(cfg.Remote.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &httpClient{
		baseURL: strings.TrimRight(cfg.Remote.BaseURL, "/"),
		token:   cfg.Remote.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

type httpClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func (c *httpClient) Upload(ctx context.Context, remoteDir, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return services.Wrap(services.Classify(err), "remote", "upload", "open source file", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return services.Wrap(services.ErrIO, "remote", "upload", "stat source file", err)
	}

	target := c.fileURL(remoteDir, path.Base(localPath))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, file)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "remote", "upload", "build request", err)
	}
	req.ContentLength = info.Size()
	req.Header.Set("Content-Type", "application/octet-stream")
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrIO, "remote", "upload", "send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return services.Wrap(services.ErrIO, "remote", "upload", httpFailure(resp), nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *httpClient) List(ctx context.Context, remoteDir string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.dirURL(remoteDir), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "remote", "list", "build request", err)
	}
	c.decorate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrIO, "remote", "list", "send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, services.Wrap(services.ErrNotFound, "remote", "list", remoteDir, nil)
	}
	if resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrIO, "remote", "list", httpFailure(resp), nil)
	}

	var names []string
	if err := json.NewDecoder(resp.Body).Decode(&names); err != nil {
		return nil, services.Wrap(services.ErrIO, "remote", "list", "decode response", err)
	}
	return names, nil
}

func (c *httpClient) decorate(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *httpClient) dirURL(remoteDir string) string {
	return c.baseURL + "/files/" + escapeSegments(remoteDir)
}

func (c *httpClient) fileURL(remoteDir, name string) string {
	return c.dirURL(remoteDir) + "/" + url.PathEscape(name)
}

func escapeSegments(remoteDir string) string {
	segments := strings.Split(strings.Trim(remoteDir, "/"), "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}

func httpFailure(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	detail := strings.TrimSpace(string(body))
	if detail == "" {
		return fmt.Sprintf("store returned %d", resp.StatusCode)
	}
	return fmt.Sprintf("store returned %d: %s", resp.StatusCode, detail)
}
