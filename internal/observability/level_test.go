package observability

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want zerolog.Level
		ok   bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		got, ok := parseLevel(tt.raw)
		require.Equal(t, tt.ok, ok, "parseLevel(%q)", tt.raw)
		require.Equal(t, tt.want, got, "parseLevel(%q)", tt.raw)
	}
}

func TestParseBool(t *testing.T) {
	v, ok := parseBool("true")
	require.True(t, ok)
	require.True(t, v)

	_, ok = parseBool("maybe")
	require.False(t, ok)
}
