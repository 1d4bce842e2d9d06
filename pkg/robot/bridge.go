package robot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultCommandTimeout bounds a single blocking motion command.
const DefaultCommandTimeout = 60 * time.Second

// Bridge endpoint paths.
const (
	PathEnable       = "/arm/enable"
	PathMode         = "/arm/mode"
	PathReady        = "/arm/ready"
	PathMoveRelative = "/arm/move/relative"
	PathMoveJoints   = "/arm/move/joints"
	PathPose         = "/arm/pose"
)

// ModeRequest is the body of PathMode.
type ModeRequest struct {
	Mode int `json:"mode"`
}

// RelativeMoveRequest is the body of PathMoveRelative. Pose holds
// [x, y, z, rx, ry, rz] in millimeters and degrees.
type RelativeMoveRequest struct {
	Pose [6]float64 `json:"pose"`
	Wait bool       `json:"wait"`
}

// JointMoveRequest is the body of PathMoveJoints.
type JointMoveRequest struct {
	Angles   [6]float64 `json:"angles"`
	Relative bool       `json:"relative"`
	Wait     bool       `json:"wait"`
}

// PoseResponse is the reply of PathPose.
type PoseResponse struct {
	Pose   [6]float64 `json:"pose"`
	Joints [6]float64 `json:"joints"`
}

// ErrorResponse is returned by the bridge with any non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BridgeArm drives the arm through the bridge daemon that owns the vendor SDK
// connection. Each call is a blocking HTTP request that returns once the
// motion has completed.
type BridgeArm struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// BridgeOption configures a BridgeArm.
type BridgeOption func(*BridgeArm)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) BridgeOption {
	return func(a *BridgeArm) { a.client = c }
}

// WithCommandTimeout bounds every command.
func WithCommandTimeout(d time.Duration) BridgeOption {
	return func(a *BridgeArm) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// NewBridgeArm creates a client for the bridge at baseURL.
func NewBridgeArm(baseURL string, opts ...BridgeOption) *BridgeArm {
	a := &BridgeArm{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		timeout: DefaultCommandTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enable enables all motors.
func (a *BridgeArm) Enable(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, PathEnable, nil, nil)
}

// SetMode selects the controller mode.
func (a *BridgeArm) SetMode(ctx context.Context, mode Mode) error {
	return a.do(ctx, http.MethodPost, PathMode, ModeRequest{Mode: int(mode)}, nil)
}

// SetReady puts the arm in the ready state.
func (a *BridgeArm) SetReady(ctx context.Context) error {
	return a.do(ctx, http.MethodPost, PathReady, nil, nil)
}

// MoveRelative moves the tool relative to its current pose.
func (a *BridgeArm) MoveRelative(ctx context.Context, d RelativeDelta) error {
	return a.do(ctx, http.MethodPost, PathMoveRelative, RelativeMoveRequest{Pose: d.Array(), Wait: true}, nil)
}

// MoveJoints moves to absolute joint angles.
func (a *BridgeArm) MoveJoints(ctx context.Context, angles JointAngles) error {
	return a.do(ctx, http.MethodPost, PathMoveJoints, JointMoveRequest{Angles: angles, Wait: true}, nil)
}

// MoveJointsRelative offsets the joint angles.
func (a *BridgeArm) MoveJointsRelative(ctx context.Context, delta JointAngles) error {
	return a.do(ctx, http.MethodPost, PathMoveJoints, JointMoveRequest{Angles: delta, Relative: true, Wait: true}, nil)
}

// Pose reads the current tool pose.
func (a *BridgeArm) Pose(ctx context.Context) (AbsolutePose, error) {
	var resp PoseResponse
	if err := a.do(ctx, http.MethodGet, PathPose, nil, &resp); err != nil {
		return AbsolutePose{}, err
	}
	p := resp.Pose
	return NewAbsolutePose(p[0], p[1], p[2], p[3], p[4], p[5]), nil
}

func (a *BridgeArm) do(ctx context.Context, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", path, err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("build %s: %w", path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: %s: no completion within %s", ErrFault, path, a.timeout)
		}
		return fmt.Errorf("%w: %s: %v", ErrFault, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var er ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&er)
		if er.Error == "" {
			er.Error = resp.Status
		}
		return fmt.Errorf("%w: %s: %s", ErrFault, path, er.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
	}
	return nil
}
