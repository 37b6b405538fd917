package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_LevelsAndFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg", "a", 1)
	log.Info(ctx, "inf", "b", 2)
	log.Warn(ctx, "wrn", "c", 3)
	log.Error(ctx, "err", "d", 4)

	entries := logs.AllUntimed()
	require.Len(t, entries, 4)

	want := []struct {
		level zapcore.Level
		msg   string
		key   string
	}{
		{zapcore.DebugLevel, "dbg", "a"},
		{zapcore.InfoLevel, "inf", "b"},
		{zapcore.WarnLevel, "wrn", "c"},
		{zapcore.ErrorLevel, "err", "d"},
	}
	for i, w := range want {
		assert.Equal(t, w.level, entries[i].Level)
		assert.Equal(t, w.msg, entries[i].Message)
		assert.Contains(t, entries[i].ContextMap(), w.key)
	}
}

func TestZapLogger_With_AddsFields(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewZapLogger(zap.New(core)).With("request_id", "abc")

	log.Info(context.Background(), "hello", "k", "v")

	entries := logs.AllUntimed()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.Equal(t, "v", fields["k"])
}

type syncCountingCore struct {
	zapcore.Core
	syncs int
}

func (c *syncCountingCore) Sync() error {
	c.syncs++
	return nil
}

func TestSync_FlushesZapOnly(t *testing.T) {
	core := &syncCountingCore{Core: zapcore.NewNopCore()}

	require.NoError(t, Sync(NewZapLogger(zap.New(core))))
	assert.Equal(t, 1, core.syncs)

	require.NoError(t, Sync(Nop()))
}
