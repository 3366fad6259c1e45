package nativelog

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriterAppendsToDailyFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	w, err := NewWriter(dir)
	require.NoError(t, err)
	day := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	w.now = func() time.Time { return day }

	_, err = w.Write([]byte("first\n"))
	require.NoError(t, err)
	_, err = w.Write([]byte("second\n"))
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "portfolio_2026-03-04.log"))
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond\n", string(raw))
}

func TestNewZapLogger(t *testing.T) {
	dir := t.TempDir()
	log, err := NewZapLogger(Options{Dir: dir, Development: true})
	require.NoError(t, err)

	log.Debug("hello from test")
	raw, err := os.ReadFile(filepath.Join(dir, TodayFilename(time.Now())))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "hello from test")
}
