package config

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaminalder/hidden-ring-tictactoe/internal/domain"
)

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, "JONES", c.UnlockCode)
	assert.Equal(t, "heuristic", c.Strategy)
}

func TestFromLookupOverrides(t *testing.T) {
	c, err := fromLookup(env(map[string]string{
		"PUZZLE_ADDR":          ":9090",
		"PUZZLE_CODE":          "smith",
		"PUZZLE_STRATEGY":      "minimax",
		"PUZZLE_CPU_DELAY":     "400ms",
		"PUZZLE_NOTICE_TTL":    "1s",
		"PUZZLE_REVEAL_ON_TIE": "true",
		"PUZZLE_LOG_LEVEL":     "debug",
		"PUZZLE_LOG_FORMAT":    "json",
	}))
	require.NoError(t, err)
	require.NoError(t, c.Validate())
	assert.Equal(t, ":9090", c.Addr)
	assert.Equal(t, 400*time.Millisecond, c.CPUDelay)
	assert.True(t, c.RevealOnTie)

	opts := c.ServiceOptions(nil)
	assert.Equal(t, domain.Minimax, opts.Strategy)
	assert.Equal(t, "smith", opts.UnlockCode)
	assert.Equal(t, time.Second, opts.NoticeTTL)
}

func TestFromLookupReportsBadValues(t *testing.T) {
	_, err := fromLookup(env(map[string]string{
		"PUZZLE_CPU_DELAY":     "soon",
		"PUZZLE_REVEAL_ON_TIE": "maybe",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PUZZLE_CPU_DELAY")
	assert.Contains(t, err.Error(), "PUZZLE_REVEAL_ON_TIE")
}

func TestValidateRejects(t *testing.T) {
	c := Default()
	c.UnlockCode = "  "
	c.Strategy = "random"
	c.CPUDelay = -time.Second
	c.LogLevel = "loud"
	c.LogFormat = "xml"
	err := c.Validate()
	require.Error(t, err)
	for _, want := range []string{"unlock code", "random", "cpu delay", "log level", "xml"} {
		assert.Contains(t, err.Error(), want)
	}
}

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	c := Default()
	c.LogFormat = "json"
	c.Logger(&buf).Info("hello")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	buf.Reset()
	c.LogLevel = "warn"
	c.Logger(&buf).Info("quiet")
	assert.Empty(t, buf.String())
}
