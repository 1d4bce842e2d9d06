package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/gwillem/stalkbot/internal/observability"
	"github.com/gwillem/stalkbot/pkg/config"
	"github.com/gwillem/stalkbot/pkg/motion"
	"github.com/gwillem/stalkbot/pkg/perception"
	"github.com/gwillem/stalkbot/pkg/robot"
)

func configPath() string {
	if opts.Config != "" {
		return opts.Config
	}
	return config.Path()
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFrom(configPath())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// rig is a connected, initialized arm plus the sources an operator command
// may need.
type rig struct {
	cfg    *config.Config
	logger zerolog.Logger
	seq    *motion.Sequencer
}

func connect(ctx context.Context, logOut io.Writer) (*rig, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	observability.Configure(observability.ProfileRuntime)
	logger := observability.InitLoggerTo(logOut, "stalkctl")

	arm := robot.NewBridgeArm(cfg.Arm.BridgeURL, robot.WithCommandTimeout(cfg.MotionTimeout()))
	seq := motion.NewSequencer(arm,
		motion.WithOffsets(cfg.Offsets),
		motion.WithDwell(cfg.Dwell()),
		motion.WithLogger(logger),
	)
	if err := seq.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("initialize arm at %s: %w", cfg.Arm.BridgeURL, err)
	}
	return &rig{cfg: cfg, logger: logger, seq: seq}, nil
}

func (r *rig) perception() *perception.Client {
	return perception.New(r.cfg.Perception.URL, perception.WithNumFrames(r.cfg.Perception.NumFrames))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
