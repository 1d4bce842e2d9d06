// Package simserver serves the arm bridge and perception endpoints over a
// simulated arm, so stalkctl can be run on the bench without hardware.
package simserver

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/gwillem/stalkbot/internal/observability"
	"github.com/gwillem/stalkbot/pkg/motion"
	"github.com/gwillem/stalkbot/pkg/perception"
	"github.com/gwillem/stalkbot/pkg/robot"
)

// Server routes bridge and perception requests to a SimArm and a fixed
// detection.
type Server struct {
	arm     *robot.SimArm
	logger  zerolog.Logger
	started time.Time
	router  *gin.Engine

	mu          sync.Mutex
	target      motion.TargetOffset
	delay       time.Duration
	unavailable bool
}

// Option configures a Server.
type Option func(*Server)

// WithTarget sets the stalk position returned by POST /stalk.
func WithTarget(t motion.TargetOffset) Option {
	return func(s *Server) { s.target = t }
}

// WithDetectionDelay makes every detection take d.
func WithDetectionDelay(d time.Duration) Option {
	return func(s *Server) { s.delay = d }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds the gin engine for arm.
func New(arm *robot.SimArm, opts ...Option) *Server {
	observability.RegisterMetrics()
	s := &Server{
		arm:     arm,
		logger:  zerolog.Nop(),
		started: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(s.logger))
	r.Use(observability.RequestMetrics())
	s.router = r
	s.registerRoutes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// SetTarget changes the detection returned from now on.
func (s *Server) SetTarget(t motion.TargetOffset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.target = t
}

// SetAvailable toggles whether detections are served.
func (s *Server) SetAvailable(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unavailable = !ok
}

// Run serves on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Msg("simulator listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	r := s.router
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": time.Since(s.started).String(),
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST(robot.PathEnable, s.handleEnable)
	r.POST(robot.PathMode, s.handleMode)
	r.POST(robot.PathReady, s.handleReady)
	r.POST(robot.PathMoveRelative, s.handleMoveRelative)
	r.POST(robot.PathMoveJoints, s.handleMoveJoints)
	r.GET(robot.PathPose, s.handlePose)

	r.POST(perception.PathStalk, s.handleStalk)
}

func (s *Server) handleEnable(c *gin.Context) {
	s.reply(c, s.arm.Enable(c.Request.Context()))
}

func (s *Server) handleMode(c *gin.Context) {
	var req robot.ModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, robot.ErrorResponse{Error: err.Error()})
		return
	}
	s.reply(c, s.arm.SetMode(c.Request.Context(), robot.Mode(req.Mode)))
}

func (s *Server) handleReady(c *gin.Context) {
	s.reply(c, s.arm.SetReady(c.Request.Context()))
}

func (s *Server) handleMoveRelative(c *gin.Context) {
	var req robot.RelativeMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, robot.ErrorResponse{Error: err.Error()})
		return
	}
	s.reply(c, s.arm.MoveRelative(c.Request.Context(), robot.DeltaFromArray(req.Pose)))
}

func (s *Server) handleMoveJoints(c *gin.Context) {
	var req robot.JointMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, robot.ErrorResponse{Error: err.Error()})
		return
	}
	ctx := c.Request.Context()
	angles := robot.JointAngles(req.Angles)
	if req.Relative {
		s.reply(c, s.arm.MoveJointsRelative(ctx, angles))
		return
	}
	s.reply(c, s.arm.MoveJoints(ctx, angles))
}

func (s *Server) handlePose(c *gin.Context) {
	pose, err := s.arm.Pose(c.Request.Context())
	if err != nil {
		s.reply(c, err)
		return
	}
	c.JSON(http.StatusOK, robot.PoseResponse{
		Pose:   pose.Array(),
		Joints: s.arm.Joints(),
	})
}

func (s *Server) reply(c *gin.Context, err error) {
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, robot.ErrNotReady) || errors.Is(err, robot.ErrFault) {
			status = http.StatusConflict
		}
		c.JSON(status, robot.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleStalk(c *gin.Context) {
	var req perception.StalkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, perception.ErrorResponse{Error: err.Error()})
		return
	}

	s.mu.Lock()
	target, delay, unavailable := s.target, s.delay, s.unavailable
	s.mu.Unlock()

	if unavailable {
		c.JSON(http.StatusServiceUnavailable, perception.ErrorResponse{Error: "camera offline"})
		return
	}

	budget := time.Duration(req.Timeout * float64(time.Second))
	if budget > 0 && delay > budget {
		if !sleep(c.Request.Context(), budget) {
			return
		}
		c.JSON(http.StatusGatewayTimeout, perception.ErrorResponse{Error: "no stalk detected"})
		return
	}
	if !sleep(c.Request.Context(), delay) {
		return
	}

	c.JSON(http.StatusOK, perception.StalkResponse{
		Position: &perception.Position{X: target.X, Y: target.Y, Z: target.Z},
	})
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
