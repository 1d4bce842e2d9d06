package observability

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger builds the console logger for app and installs it as the
// global zerolog logger.
func InitLogger(app string) zerolog.Logger {
	return InitLoggerTo(os.Stdout, app)
}

// InitLoggerTo is InitLogger writing to out.
func InitLoggerTo(out io.Writer, app string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    noColor(),
	}
	logger := zerolog.New(output).With().Timestamp().Str("app", app).Logger()
	log.Logger = logger
	return logger
}
