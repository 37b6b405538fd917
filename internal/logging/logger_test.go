package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_TextAndJSON(t *testing.T) {
	var buf bytes.Buffer

	l, err := New(FormatText, &buf, false)
	require.NoError(t, err)
	l.Info(context.Background(), "hello", "k", "v")
	l.Debug(context.Background(), "hidden")
	assert.Contains(t, buf.String(), "msg=hello")
	assert.NotContains(t, buf.String(), "hidden")

	buf.Reset()
	l, err = New(FormatJSON, &buf, true)
	require.NoError(t, err)
	l.Debug(context.Background(), "shown")
	assert.True(t, strings.HasPrefix(buf.String(), "{"), "expected JSON output, got %q", buf.String())
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("xml", &bytes.Buffer{}, false)
	require.Error(t, err)
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	ctx := context.Background()
	l.Debug(ctx, "x")
	l.Info(ctx, "x")
	l.Warn(ctx, "x")
	l.Error(ctx, "x")
	l.With("a", 1).Info(ctx, "y")
}
