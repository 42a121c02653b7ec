package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMessageMergesFields(t *testing.T) {
	base := NewDefaultLoggerNoColor()
	l := base.WithFields(Fields{"component": "test"}).(*DefaultLogger)

	msg := l.formatMessage(InfoLevel, nil, "hello", Fields{"count": 3})
	assert.Contains(t, msg, "[INFO] hello")
	assert.Contains(t, msg, "component:test")
	assert.Contains(t, msg, "count:3")
}

func TestFormatMessageIncludesError(t *testing.T) {
	l := NewDefaultLoggerNoColor()

	msg := l.formatMessage(ErrorLevel, errors.New("boom"), "operation failed")
	assert.Contains(t, msg, "[ERROR] operation failed: boom")
	assert.NotContains(t, msg, ColorRed, "colors disabled")
}

func TestFormatMessageColors(t *testing.T) {
	l := NewDefaultLoggerNoColor()
	l.useColors = true

	msg := l.formatMessage(WarnLevel, nil, "careful")
	assert.Contains(t, msg, ColorYellow)
	assert.Contains(t, msg, ColorReset)
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "FATAL", FatalLevel.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}

func TestNoOpLoggerIsSafe(t *testing.T) {
	var l Logger = &NoOpLogger{}
	l.Debug("ignored")
	l.Error(errors.New("ignored"), "ignored", Fields{"k": "v"})
	assert.Same(t, l, l.WithFields(Fields{"k": "v"}))
}
