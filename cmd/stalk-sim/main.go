package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"

	"github.com/gwillem/stalkbot/internal/observability"
	"github.com/gwillem/stalkbot/internal/simserver"
	"github.com/gwillem/stalkbot/pkg/motion"
	"github.com/gwillem/stalkbot/pkg/robot"
)

type Options struct {
	Addr    string        `short:"a" long:"addr" default:"127.0.0.1:8420" description:"Listen address"`
	X       float64       `short:"x" long:"x" default:"100" description:"Detected stalk offset X in mm"`
	Y       float64       `short:"y" long:"y" default:"200" description:"Detected stalk offset Y in mm"`
	Z       float64       `short:"z" long:"z" default:"-50" description:"Detected stalk offset Z in mm"`
	Delay   time.Duration `long:"delay" default:"0s" description:"Time each detection takes"`
	Latency time.Duration `long:"latency" default:"0s" description:"Time each arm motion takes"`
	FailAt  int           `long:"fail-at" description:"Fail the n-th motion command (1-based)"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.LongDescription = "stalk-sim - simulated arm bridge and perception service"
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	observability.Configure(observability.ProfileRuntime)
	logger := observability.InitLogger("stalk-sim")
	gin.SetMode(gin.ReleaseMode)

	arm := robot.NewSimArm(robot.Home, robot.ApproachPlane)
	arm.SetLatency(opts.Latency)
	arm.FailOnMotion(opts.FailAt)

	srv := simserver.New(arm,
		simserver.WithTarget(motion.TargetOffset{X: opts.X, Y: opts.Y, Z: opts.Z}),
		simserver.WithDetectionDelay(opts.Delay),
		simserver.WithLogger(logger),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := srv.Run(ctx, opts.Addr); err != nil {
		log.Fatal().Err(err).Msg("simulator stopped")
	}
}
