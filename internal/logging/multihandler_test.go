package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// errorHandler fails every Handle call.
type errorHandler struct{}

func (errorHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (errorHandler) Handle(context.Context, slog.Record) error { return errors.New("handler broken") }
func (h errorHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h errorHandler) WithGroup(string) slog.Handler           { return h }

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	mh := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewTextHandler(&b, nil),
	)

	slog.New(mh).Info("fan out")

	assert.Contains(t, a.String(), "fan out")
	assert.Contains(t, b.String(), "fan out")
}

func TestNewMultiHandler_FiltersNil(t *testing.T) {
	var buf bytes.Buffer
	mh := NewMultiHandler(nil, slog.NewTextHandler(&buf, nil), nil)

	assert.Len(t, mh.handlers, 1)
	slog.New(mh).Info("still works")
	assert.Contains(t, buf.String(), "still works")
}

func TestMultiHandler_EnabledIfAny(t *testing.T) {
	var buf bytes.Buffer
	mh := NewMultiHandler(
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)

	ctx := context.Background()
	assert.True(t, mh.Enabled(ctx, slog.LevelDebug))
	assert.True(t, mh.Enabled(ctx, slog.LevelError))
}

func TestMultiHandler_EnabledNone(t *testing.T) {
	var buf bytes.Buffer
	mh := NewMultiHandler(
		slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	assert.False(t, mh.Enabled(context.Background(), slog.LevelInfo))
}

func TestMultiHandler_ContinuesPastFailure(t *testing.T) {
	var buf bytes.Buffer
	mh := NewMultiHandler(
		errorHandler{},
		slog.NewTextHandler(&buf, nil),
	)

	err := slog.New(mh).Handler().Handle(context.Background(), slog.Record{Level: slog.LevelInfo})
	assert.NoError(t, err, "one failing handler must not fail the record")
	assert.NotEmpty(t, buf.String())
}

func TestMultiHandler_WithAttrs(t *testing.T) {
	var buf bytes.Buffer
	mh := NewMultiHandler(slog.NewTextHandler(&buf, nil))

	slog.New(mh).With("session", "test").Info("attributed")

	assert.Contains(t, buf.String(), "session=test")
}

func TestMultiHandler_WithGroup(t *testing.T) {
	var buf bytes.Buffer
	mh := NewMultiHandler(slog.NewTextHandler(&buf, nil))

	slog.New(mh).WithGroup("sim").Info("grouped", "tick", 1)
	assert.Contains(t, buf.String(), "sim.tick=1")

	// Empty group names collapse to the same handler.
	same := mh.WithGroup("")
	assert.Same(t, slog.Handler(mh), same)
}
