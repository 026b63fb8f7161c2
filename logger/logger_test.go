package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, log.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, log.LevelError, ParseLevel("error"))
	assert.Equal(t, log.LevelInfo, ParseLevel(""))
	assert.Equal(t, log.LevelInfo, ParseLevel("verbose"))
}

func TestInitWritesLogFile(t *testing.T) {
	dir := t.TempDir()
	Init(FileOptions{Dir: dir, MaxSizeMB: 1, MaxBackups: 1}, log.LevelInfo)
	t.Cleanup(func() { log.SetOutput(os.Stdout) })

	Success("customer created")
	Debug("hidden below info")

	raw, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "customer created")
	assert.NotContains(t, string(raw), "hidden below info")
}
