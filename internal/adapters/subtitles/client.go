// Package subtitles fetches subtitle tracks for meeting groups over HTTP.
// The store behind it is dumb blob hosting: GET {base}/{group id} returns the
// raw SRT/WebVTT text or 404 when no track was published for that meeting
package subtitles

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	perr "leadscout/internal/platform/errors"
	"leadscout/internal/platform/logger"
)

const (
	defaultTimeout = 15 * time.Second
	defaultUA      = "leadscout-pipeline"

	// maxBlobBytes caps one track read; full-day council streams stay far
	// under this
	maxBlobBytes = 8 << 20
)

// Options configures the Client
type Options struct {
	// BaseURL of the subtitle store; empty means the source is unconfigured
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client fetches subtitle blobs by group id
type Client struct {
	http *http.Client
	opts Options
	log  logger.Logger
}

// NewClient creates a new Client with sane defaults
func NewClient(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")
	return &Client{
		http: &http.Client{Timeout: o.Timeout},
		opts: o,
		log:  *logger.Named("subtitles"),
	}
}

// Configured reports whether a subtitle source is wired at all
func (c *Client) Configured() bool {
	return c != nil && c.opts.BaseURL != ""
}

// TextByGroupID returns the full subtitle text for one group id.
// A missing track reports found=false with no error; that is the normal
// degraded-evidence case, not a failure
func (c *Client) TextByGroupID(ctx context.Context, groupID string) (text string, found bool, err error) {
	if !c.Configured() {
		return "", false, perr.Unavailablef("subtitle source not configured")
	}
	groupID = strings.TrimSpace(groupID)
	if groupID == "" {
		return "", false, nil
	}

	u := c.opts.BaseURL + "/" + url.PathEscape(groupID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", false, perr.Wrapf(err, perr.ErrorCodeUnknown, "subtitles new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/plain")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return "", false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "subtitles fetch failed")
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.Debug().
		Str("group_id", groupID).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("subtitle fetch")

	switch resp.StatusCode {
	case http.StatusOK:
		raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBlobBytes))
		if err != nil {
			return "", false, perr.Wrapf(err, perr.ErrorCodeUnavailable, "subtitles read failed")
		}
		if len(strings.TrimSpace(string(raw))) == 0 {
			return "", false, nil
		}
		return string(raw), true, nil

	case http.StatusNotFound, http.StatusGone:
		return "", false, nil

	default:
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", false, perr.Upstreamf(
			"subtitles unexpected status %d body %s", resp.StatusCode, strings.TrimSpace(string(tail)))
	}
}
