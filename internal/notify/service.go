// Package notify delivers folder processing reports to an HTTP notification
// endpoint. Delivery is fire-and-forget from the chain's perspective: a
// failed send is the notify task's own failure, nothing more.
package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"filerelay/internal/config"
	"filerelay/internal/services"
)

const userAgent = "filerelay/1.0"

// Service defines the notification surface exposed to task actions.
type Service interface {
	// Send posts an HTML-formatted message to the given recipient address.
	Send(ctx context.Context, recipient, subject, htmlBody string) error
	// Test sends a short probe message to verify the endpoint configuration.
	Test(ctx context.Context, recipient string) error
}

// NewService builds a notification service backed by the configured HTTP
// endpoint. When no endpoint is configured, a noop implementation is
// returned so notify tasks degrade to logged no-ops.
func NewService(cfg *config.Config) Service {
	endpoint := strings.TrimSpace(cfg.Notify.Endpoint)
	if endpoint == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notify.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	perMinute := cfg.Notify.RatePerMinute
	if perMinute <= 0 {
		perMinute = 30
	}

	return &httpService{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}
}

type httpService struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

func (s *httpService) Send(ctx context.Context, recipient, subject, htmlBody string) error {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return services.Wrap(services.ErrConfiguration, "notify", "send", "recipient address is empty", nil)
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, strings.NewReader(htmlBody))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "notify", "send", "build request", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/html; charset=utf-8")
	req.Header.Set("X-Recipient", recipient)
	if subject = strings.TrimSpace(subject); subject != "" {
		req.Header.Set("Title", subject)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return services.Wrap(services.ErrIO, "notify", "send", "send request", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		detail := fmt.Sprintf("endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		return services.Wrap(services.ErrIO, "notify", "send", detail, nil)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (s *httpService) Test(ctx context.Context, recipient string) error {
	return s.Send(ctx, recipient, "filerelay test", "<p>filerelay notification test</p>")
}

type noopService struct{}

func (noopService) Send(context.Context, string, string, string) error { return nil }
func (noopService) Test(context.Context, string) error                 { return nil }
