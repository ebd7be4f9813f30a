package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugSilentByDefault(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)
	SetVerbose(false)

	Debug("hidden %d", 1)
	Info("hidden")
	assert.Empty(t, buf.String())
}

func TestVerboseOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	Debug("chunks=%d", 3)
	Info("done")
	Warn("careful")
	Section("Rebuild")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] chunks=3")
	assert.Contains(t, out, "[INFO] done")
	assert.Contains(t, out, "[WARN] careful")
	assert.Contains(t, out, "=== Rebuild ===")
}
