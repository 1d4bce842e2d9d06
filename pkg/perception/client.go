// Package perception fetches stalk positions from the pose-detection service.
package perception

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gwillem/stalkbot/pkg/motion"
)

var (
	// ErrUnavailable is returned when the service cannot be reached or
	// reports that it cannot serve the request.
	ErrUnavailable = errors.New("perception service unavailable")

	// ErrTimeout is returned when no detection arrives within the timeout.
	ErrTimeout = errors.New("perception timed out")
)

// PathStalk is the detection endpoint.
const PathStalk = "/stalk"

const (
	DefaultNumFrames = 1
	DefaultTimeout   = 30 * time.Second
)

// StalkRequest asks the service to average numFrames observations, giving up
// after Timeout seconds.
type StalkRequest struct {
	NumFrames int     `json:"num_frames"`
	Timeout   float64 `json:"timeout"`
}

// Position is a point in the arm's working frame, in millimeters.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// StalkResponse is the detection reply. Position is nil when the service
// answered without a detection.
type StalkResponse struct {
	Position *Position `json:"position"`
}

// ErrorResponse is returned with any non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

var _ motion.TargetSource = (*Client)(nil)

// Client requests one stalk detection per call.
type Client struct {
	baseURL   string
	numFrames int
	client    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithNumFrames sets how many frames the service averages per detection.
func WithNumFrames(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.numFrames = n
		}
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.client = h }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		numFrames: DefaultNumFrames,
		client:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchTargetOffset blocks until the service returns a detection or timeout
// elapses. The reply is already in the arm's working frame and is copied
// without conversion.
func (c *Client) FetchTargetOffset(ctx context.Context, timeout time.Duration) (motion.TargetOffset, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(StalkRequest{NumFrames: c.numFrames, Timeout: timeout.Seconds()})
	if err != nil {
		return motion.TargetOffset{}, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathStalk, bytes.NewReader(body))
	if err != nil {
		return motion.TargetOffset{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return motion.TargetOffset{}, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return motion.TargetOffset{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusGatewayTimeout:
		return motion.TargetOffset{}, fmt.Errorf("%w: %s", ErrTimeout, replyError(resp))
	case resp.StatusCode/100 != 2:
		return motion.TargetOffset{}, fmt.Errorf("%w: %s", ErrUnavailable, replyError(resp))
	}

	var out StalkResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return motion.TargetOffset{}, fmt.Errorf("%w after %s", ErrTimeout, timeout)
		}
		return motion.TargetOffset{}, fmt.Errorf("%w: malformed reply: %v", ErrUnavailable, err)
	}

	if out.Position == nil {
		return motion.TargetOffset{}, fmt.Errorf("%w: reply has no position", ErrUnavailable)
	}

	return motion.TargetOffset{
		X: out.Position.X,
		Y: out.Position.Y,
		Z: out.Position.Z,
	}, nil
}

func replyError(resp *http.Response) string {
	var er ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)
	if er.Error != "" {
		return er.Error
	}
	return resp.Status
}
