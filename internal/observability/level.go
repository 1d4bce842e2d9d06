package observability

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel   = "STALKBOT_LOG_LEVEL"
	EnvLogNoColor = "STALKBOT_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var configureOnce sync.Once

// Configure sets the global log level once per process, applying
// environment overrides on top of the profile default.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		level := zerolog.InfoLevel
		if profile == ProfileTest {
			level = zerolog.DebugLevel
		}
		if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
			level = lvl
		}
		zerolog.SetGlobalLevel(level)
	})
}

func noColor() bool {
	v, ok := parseBool(os.Getenv(EnvLogNoColor))
	return ok && v
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
