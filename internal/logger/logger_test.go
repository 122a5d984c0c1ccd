package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func resetAfter(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	var buf bytes.Buffer
	SetOutput(&buf)
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	resetAfter(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
}

func TestLevelsWhenVerbose(t *testing.T) {
	buf := resetAfter(t)
	SetVerbose(true)

	Debug("debug %s", "arg")
	Info("info %d", 42)
	Warn("careful")
	Section("Stage")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] debug arg\n")
	assert.Contains(t, out, "[INFO] info 42\n")
	assert.Contains(t, out, "[WARN] careful\n")
	assert.Contains(t, out, "=== Stage ===\n")
}

func TestSilentWhenNotVerbose(t *testing.T) {
	buf := resetAfter(t)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	assert.Zero(t, buf.Len())
}

func TestConcurrentAccess(t *testing.T) {
	resetAfter(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			SetVerbose(true)
			Debug("concurrent %d", i)
			IsVerbose()
			SetVerbose(false)
		}()
	}
	wg.Wait()
}
