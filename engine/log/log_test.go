package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)

	SetLevel(Warning)
	defer SetLevel(Notice)

	logger := New("test")
	logger.Info("hidden line")
	logger.Warning("visible line")

	out := buf.String()
	assert.NotContains(t, out, "hidden line")
	assert.Contains(t, out, "visible line")
	assert.Contains(t, out, "[test]")
}

func TestLevelFromVerbosity(t *testing.T) {
	assert.Equal(t, Notice, LevelFromVerbosity(0))
	assert.Equal(t, Info, LevelFromVerbosity(1))
	assert.Equal(t, Debug, LevelFromVerbosity(2))
	assert.Equal(t, Debug, LevelFromVerbosity(5))
}
