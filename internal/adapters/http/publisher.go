package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dghubble/oauth1"
	"golang.org/x/time/rate"

	"github.com/bft-labs/whosreal/internal/domain"
	"github.com/bft-labs/whosreal/internal/ports"
)

const tweetsEndpoint = "/2/tweets"

// maxErrorBody bounds how much of a rejected response is kept in the error.
const maxErrorBody = 512

// Credentials are the four OAuth 1.0a user-context secrets.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
	AccessKey      string
	AccessSecret   string
}

// PublisherConfig configures the X API publisher.
type PublisherConfig struct {
	// ServiceURL is the API base URL without trailing slash
	ServiceURL string

	Credentials Credentials

	// MinGap is the minimum spacing between two posts; zero disables pacing
	MinGap time.Duration
}

// Publisher implements ports.Publisher against the X API v2.
type Publisher struct {
	client     ports.HTTPClient
	serviceURL string
	limiter    *rate.Limiter
	logger     ports.Logger
}

// NewPublisher creates a publisher whose requests are OAuth 1.0a signed and
// carried by base's transport and timeout.
func NewPublisher(cfg PublisherConfig, base *http.Client, logger ports.Logger) *Publisher {
	oc := oauth1.NewConfig(cfg.Credentials.ConsumerKey, cfg.Credentials.ConsumerSecret)
	token := oauth1.NewToken(cfg.Credentials.AccessKey, cfg.Credentials.AccessSecret)

	ctx := context.WithValue(context.Background(), oauth1.HTTPClient, base)
	client := oc.Client(ctx, token)
	client.Timeout = base.Timeout

	return newPublisher(cfg, client, logger)
}

func newPublisher(cfg PublisherConfig, client ports.HTTPClient, logger ports.Logger) *Publisher {
	limit := rate.Inf
	if cfg.MinGap > 0 {
		limit = rate.Every(cfg.MinGap)
	}
	return &Publisher{
		client:     client,
		serviceURL: cfg.ServiceURL,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     logger,
	}
}

type createPostRequest struct {
	Text string `json:"text"`
}

type createPostResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Publish posts text as a new post.
func (p *Publisher) Publish(ctx context.Context, text string) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return &PublishError{Err: fmt.Errorf("wait for publish slot: %w", err)}
	}

	body, err := json.Marshal(createPostRequest{Text: text})
	if err != nil {
		return &PublishError{Err: fmt.Errorf("marshal post: %w", err)}
	}

	url := p.serviceURL + tweetsEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &PublishError{Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return &PublishError{Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &PublishError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	var created createPostResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		// The post exists; only the receipt is unreadable.
		p.logger.Warn("decode publish response", ports.Err(err))
		return nil
	}
	p.logger.Debug("post created", ports.String("id", created.Data.ID))
	return nil
}

// PublishError describes a rejected or undelivered post.
// It matches domain.ErrPublishFailure with errors.Is.
type PublishError struct {
	// StatusCode is zero when no response was received
	StatusCode int
	Body       string
	Err        error
}

func (e *PublishError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: server returned %d: %s", domain.ErrPublishFailure, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%v: %v", domain.ErrPublishFailure, e.Err)
}

func (e *PublishError) Unwrap() []error {
	if e.Err == nil {
		return []error{domain.ErrPublishFailure}
	}
	return []error{domain.ErrPublishFailure, e.Err}
}

// Retryable reports whether the same message may succeed if sent again:
// transport failures, rate limiting and server errors.
func (e *PublishError) Retryable() bool {
	if e.StatusCode == 0 {
		return !errors.Is(e.Err, context.Canceled)
	}
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}
