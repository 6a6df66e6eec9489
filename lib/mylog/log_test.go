package mylog

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"

	"github.com/MarcGrol/shopbasket/lib/mycontext"
)

func TestGcloudLogger(t *testing.T) {
	t.Run("With trace", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := newGcloudLoggerTo("basket", zapcore.AddSync(buf))
		c := context.WithValue(context.TODO(), mycontext.CtxTraceContext{}, "projects/p/traces/123")

		logger.Log(c, "s1", SeverityWarn, "hello %d", 1)

		parsed := map[string]any{}
		assert.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
		assert.Equal(t, "WARNING", parsed["severity"])
		assert.Equal(t, "hello 1", parsed["message"])
		assert.Equal(t, "basket", parsed["component"])
		assert.Equal(t, "projects/p/traces/123", parsed["logging.googleapis.com/trace"])
		assert.Equal(t, map[string]any{"aggregate": "s1"}, parsed["logging.googleapis.com/labels"])
	})

	t.Run("Without trace", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger := newGcloudLoggerTo("catalog", zapcore.AddSync(buf))

		logger.Log(context.TODO(), "", SeverityDebug, "no trace")

		parsed := map[string]any{}
		assert.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))
		assert.Equal(t, "DEBUG", parsed["severity"])
		assert.NotContains(t, parsed, "logging.googleapis.com/trace")
	})
}

func TestStandardLoggerDoesNotPanic(t *testing.T) {
	c := context.WithValue(context.TODO(), mycontext.CtxTraceContext{}, "projects/p/traces/123")

	logger := newStandardLogger("test")
	for _, severity := range []Severity{SeverityDebug, SeverityInfo, SeverityWarn, SeverityError} {
		logger.Log(c, "s1", severity, "message %d", 1)
		logger.Log(context.TODO(), "", severity, "no trace")
	}
}
