package logger

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNewTo(t *testing.T) {
	var buf bytes.Buffer
	l := NewTo(&buf, "fstspell")
	l.SetLevel(log.InfoLevel)

	l.Info("loaded", "words", 3)
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "fstspell")
	assert.Contains(t, out, "loaded")
	assert.Contains(t, out, "words=3")
	assert.NotContains(t, out, "hidden")
}

func TestSetupDefault(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	SetupDefault(true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	SetupDefault(false)
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
