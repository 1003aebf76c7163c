package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewWithWriter(buf)

	log.Info().Str("snapshot", "abc").Msg("report built")

	assert.Contains(t, buf.String(), "report built")
	assert.Contains(t, buf.String(), `"snapshot":"abc"`)
}

func TestWithLevel(t *testing.T) {
	buf := &bytes.Buffer{}
	log := WithLevel(NewWithWriter(buf), "warn")

	log.Info().Msg("hidden")
	log.Warn().Msg("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Equal(t, zerolog.InfoLevel, WithLevel(NewWithWriter(buf), "bogus").GetLevel())
}

func TestFromContext(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := WithContext(context.Background(), NewWithWriter(buf))

	l := FromContext(ctx)
	l.Info().Msg("test")

	assert.NotZero(t, buf.Len())
}

func TestFromContext_DefaultLogger(t *testing.T) {
	l := FromContext(context.Background())
	assert.NotEqual(t, zerolog.Disabled, l.GetLevel())
}
