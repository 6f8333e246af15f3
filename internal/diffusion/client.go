// Package diffusion talks to the local image generation server over HTTP.
// The server's internals are opaque: prompt in, image bytes out.
package diffusion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Request carries one generation call's parameters.
type Request struct {
	Prompt         string  `json:"prompt"`
	NegativePrompt string  `json:"negative_prompt,omitempty"`
	Steps          int     `json:"num_inference_steps"`
	GuidanceScale  float64 `json:"guidance_scale"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	Seed           *int64  `json:"seed,omitempty"`
}

// Generator produces image bytes for a request. Implemented by Client; tests
// substitute fakes.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]byte, error)
}

// Client is the HTTP implementation of Generator.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewClient creates a Client for the server at baseURL. requestsPerMinute
// throttles calls client-side so a batch does not hammer the accelerator
// queue; zero disables throttling.
func NewClient(baseURL string, timeout time.Duration, requestsPerMinute int, log zerolog.Logger) *Client {
	limit := rate.Inf
	if requestsPerMinute > 0 {
		limit = rate.Limit(float64(requestsPerMinute) / 60.0)
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		log:        log,
	}
}

// Generate posts the request and returns the raw image bytes.
func (c *Client) Generate(ctx context.Context, req Request) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling generation request: %w", err)
	}

	endpoint := c.baseURL + "/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "image/*")

	c.log.Debug().
		Str("url", endpoint).
		Int("steps", req.Steps).
		Int("width", req.Width).
		Int("height", req.Height).
		Msg("calling generation server")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Message: err.Error(), Transient: true}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Status:    resp.StatusCode,
			Message:   string(data),
			Transient: transientStatus(resp.StatusCode),
		}
	}
	if readErr != nil {
		return nil, &Error{Message: fmt.Sprintf("reading response body: %v", readErr), Transient: true}
	}
	if len(data) == 0 {
		return nil, &Error{Message: "server returned empty image data", Transient: true}
	}

	c.log.Debug().
		Dur("duration", time.Since(start)).
		Int("bytes", len(data)).
		Msg("generation server call complete")
	return data, nil
}

// transientStatus classifies HTTP statuses: server-side exhaustion and
// throttling are retryable, client-side validation errors are not.
func transientStatus(status int) bool {
	switch {
	case status == http.StatusTooManyRequests:
		return true
	case status == http.StatusRequestTimeout:
		return true
	case status >= 500:
		return true
	default:
		return false
	}
}
