// Package llm provides a minimal OpenAI-compatible chat-completions client.
// The pipeline uses it three ways: keyword-set generation, zero-order batch
// judgment, and final lead ranking. All three send a system+user prompt pair
// and parse the assistant content as JSON on their side
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	perr "leadscout/internal/platform/errors"
	"leadscout/internal/platform/logger"
)

const (
	defaultModel     = "gpt-4o-mini"
	defaultTimeout   = 60 * time.Second
	defaultUA        = "leadscout-pipeline"
	defaultMaxRetry  = 2
	defaultRetryBase = 500 * time.Millisecond
	endpointPath     = "/chat/completions"
)

// Options configures the Client
type Options struct {
	// BaseURL of the OpenAI-compatible API, e.g. https://api.openai.com/v1
	BaseURL string
	// APIKey sent as a bearer token; empty means the client is unconfigured
	APIKey string
	Model  string

	UserAgent string
	Timeout   time.Duration

	// Temperature is applied when non-nil; most judgments want a low value
	Temperature *float64

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client is a chat-completions client with retry on transient failures
type Client struct {
	http  *http.Client
	opts  Options
	log   logger.Logger
	now   func() time.Time
	sleep func(time.Duration)
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return &Client{
		http:  &http.Client{Timeout: o.Timeout},
		opts:  o,
		log:   *logger.Named("llm"),
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// Configured reports whether the client can reach a judgment service
func (c *Client) Configured() bool {
	return c != nil && c.opts.BaseURL != "" && c.opts.APIKey != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Judge sends one system+user prompt pair and returns the assistant content.
// Transport errors, 429 and 5xx are retried with exponential backoff; other
// statuses fail immediately with a small body tail for diagnostics
func (c *Client) Judge(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.Configured() {
		return "", perr.Unavailablef("llm client not configured")
	}

	body, err := json.Marshal(chatRequest{
		Model: c.opts.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: c.opts.Temperature,
	})
	if err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeJSON, "llm marshal request")
	}

	url := c.opts.BaseURL + endpointPath
	attempts := 0
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", perr.Wrapf(err, perr.ErrorCodeUnknown, "llm new request failed")
		}
		req.Header.Set("User-Agent", c.opts.UserAgent)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)

		start := c.now()
		resp, err := c.http.Do(req)
		lat := c.now().Sub(start)

		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			if !c.shouldRetry(attempts) {
				return "", perr.Wrapf(err, perr.ErrorCodeUnavailable, "llm request failed")
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("llm transport error retrying")
			c.sleep(back)
			attempts++
			continue
		}

		c.log.Debug().
			Int("status", resp.StatusCode).
			Int("attempt", attempts).
			Dur("latency", lat).
			Msg("llm http response")

		switch {
		case resp.StatusCode == http.StatusOK:
			return c.readContent(resp.Body)

		case resp.StatusCode == http.StatusTooManyRequests:
			wait := retryAfter(resp.Header)
			if wait <= 0 {
				wait = c.backoff(attempts)
			}
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return "", perr.Newf(perr.ErrorCodeTooManyRequests, "llm rate limited")
			}
			c.log.Warn().Dur("sleep", wait).Msg("llm rate limited backing off")
			c.sleep(wait)
			attempts++
			continue

		case resp.StatusCode >= http.StatusInternalServerError:
			_ = drainAndClose(resp.Body)
			if !c.shouldRetry(attempts) {
				return "", perr.Unavailablef("llm server error %d", resp.StatusCode)
			}
			back := c.backoff(attempts)
			c.log.Warn().Dur("retry_in", back).Int("attempt", attempts).Msg("llm server error retrying")
			c.sleep(back)
			attempts++
			continue

		default:
			tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
			_ = resp.Body.Close()
			return "", perr.Upstreamf("llm unexpected status %d body %s", resp.StatusCode, strings.TrimSpace(string(tail)))
		}
	}
}

// readContent decodes the first choice's message content
func (c *Client) readContent(body io.ReadCloser) (string, error) {
	defer func() { _ = body.Close() }()

	var cr chatResponse
	if err := json.NewDecoder(body).Decode(&cr); err != nil {
		return "", perr.Wrapf(err, perr.ErrorCodeJSON, "llm decode response")
	}
	if len(cr.Choices) == 0 {
		return "", perr.Upstreamf("llm response carried no choices")
	}
	content := strings.TrimSpace(cr.Choices[0].Message.Content)
	if content == "" {
		return "", perr.Upstreamf("llm response content empty")
	}
	return content, nil
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.opts.RetryBase
	// simple exponential with cap
	ms := int64(d / time.Millisecond)
	ms = ms << uint(attempt)
	ceiling := int64(30 * time.Second / time.Millisecond)
	if ms > ceiling {
		ms = ceiling
	}
	return time.Duration(ms) * time.Millisecond
}

func (c *Client) shouldRetry(attempt int) bool {
	return attempt < c.opts.MaxRetries
}

// retryAfter reads a seconds-valued Retry-After header, 0 when absent
func retryAfter(h http.Header) time.Duration {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// drainAndClose empties the body so the connection can be reused
func drainAndClose(body io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	return body.Close()
}
