package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noveng05/splits"
	"github.com/noveng05/splits/logging"
	"github.com/noveng05/splits/registry"
	"github.com/noveng05/splits/types"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	l := logging.NewSlog(slog.New(handler))

	l.Debug("debug message", "split", "blue_button")
	l.Info("info message", "visitorID", "v-1")
	l.Warn("warn message")
	l.Error("error message", "error", "boom")

	out := buf.String()
	require.Contains(t, out, "debug message")
	require.Contains(t, out, "split=blue_button")
	require.Contains(t, out, "info message")
	require.Contains(t, out, "visitorID=v-1")
	require.Contains(t, out, "warn message")
	require.Contains(t, out, "error message")
}

func TestNewSlogDefault(t *testing.T) {
	require.NotNil(t, logging.NewSlogDefault())
}

func TestSlogLoggerAsVisitorLogger(t *testing.T) {
	// The package is importable by library consumers and plugs into the
	// visitor via WithLogger: an offline transition lands in the slog output.
	var buf bytes.Buffer
	l := logging.NewSlog(slog.New(slog.NewTextHandler(&buf, nil)))

	client := registry.NewStatic(types.SplitRegistry{})
	v, err := splits.ResumeVisitor(client, "visitor-1", splits.WithLogger(l))
	require.NoError(t, err)

	_, err = v.Assignment(context.Background(), "no_such_split")
	require.ErrorIs(t, err, splits.ErrUnknownSplit)

	cfg := splits.DefaultConfig()
	cfg.FetchTimeout = 20 * time.Second // above the advisory threshold
	cfg.ValidateWithWarnings(l)
	require.Contains(t, buf.String(), "level=WARN")
}
