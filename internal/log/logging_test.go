package log

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelTrace, ParseLevel("trace"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("loud"))
}

func TestResolveFormat(t *testing.T) {
	f, err := resolveFormat("auto", true)
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	f, err = resolveFormat("", false)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = resolveFormat("text", false)
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = resolveFormat("xml", true)
	assert.Error(t, err)
}

func TestLevelFilterAndMultiHandler(t *testing.T) {
	var low, high bytes.Buffer
	h := MultiHandler{hs: []slog.Handler{
		LevelFilter{pass: func(l slog.Level) bool { return l < slog.LevelError }, h: newHandler(FormatText, &low, LevelTrace)},
		LevelFilter{pass: func(l slog.Level) bool { return l >= slog.LevelError }, h: newHandler(FormatJSON, &high, slog.LevelError)},
	}}
	logger := slog.New(h).With("component", "test")

	logger.Log(context.Background(), LevelTrace, "tracing")
	logger.Info("hello", "n", 1)
	logger.Error("broken")

	assert.Contains(t, low.String(), "level=TRACE msg=tracing component=test")
	assert.Contains(t, low.String(), "msg=hello component=test n=1")
	assert.NotContains(t, low.String(), "broken")
	assert.Contains(t, high.String(), `"msg":"broken"`)
	assert.NotContains(t, high.String(), "hello")
	assert.False(t, h.Enabled(context.Background(), slog.Level(-12)))
}

func TestSetupLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mtlgen.log")
	logger, closers, err := SetupLogger("debug", path, "json")
	require.NoError(t, err)
	require.Len(t, closers, 1)

	logger.Debug("to file", "k", "v")
	for _, c := range closers {
		require.NoError(t, c.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
	assert.Contains(t, string(data), `"k":"v"`)

	_, _, err = SetupLogger("info", "", "yaml")
	assert.Error(t, err)
}

func TestDumper(t *testing.T) {
	var buf bytes.Buffer
	d := NewDumper(&buf).(*dumper)
	d.now = func() time.Time { return time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC) }

	d.Dump("Blit.metal: BlitEncoder", "final class BlitEncoder {}")
	d.Dump("empty", "")

	assert.Equal(t, "2024/03/01 12:30:00 ==== Blit.metal: BlitEncoder (26 bytes)\nfinal class BlitEncoder {}\n", buf.String())
}

func TestDumperConcurrent(t *testing.T) {
	var buf bytes.Buffer
	d := NewDumper(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Dump("unit", "line\n")
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, strings.Count(buf.String(), "==== unit (5 bytes)\nline\n"))
}

func TestNilDumperIsNoop(t *testing.T) {
	assert.NotPanics(t, func() { NewDumper(nil).Dump("x", "y") })
}
