package mylog

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/MarcGrol/shopbasket/lib/mycontext"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		New = newGcloudLogger
	}
}

// gcloudLogger writes one json object per line, using the field names Cloud Logging picks up
type gcloudLogger struct {
	logger *zap.Logger
}

func newGcloudLogger(componentName string) Logger {
	return newGcloudLoggerTo(componentName, zapcore.Lock(os.Stdout))
}

func newGcloudLoggerTo(componentName string, out zapcore.WriteSyncer) Logger {
	config := zap.NewProductionEncoderConfig()
	config.MessageKey = "message"
	config.LevelKey = "severity"
	config.NameKey = "component"
	config.TimeKey = "time"
	config.EncodeTime = zapcore.RFC3339NanoTimeEncoder
	config.EncodeLevel = cloudSeverity
	config.CallerKey = zapcore.OmitKey
	config.StacktraceKey = zapcore.OmitKey

	core := zapcore.NewCore(zapcore.NewJSONEncoder(config), out, zapcore.DebugLevel)
	return gcloudLogger{
		logger: zap.New(core).Named(componentName),
	}
}

func (l gcloudLogger) Log(c context.Context, traceLabel string, severity Severity, format string, a ...any) {
	fields := []zap.Field{
		zap.Object("logging.googleapis.com/labels", zapcore.ObjectMarshalerFunc(func(enc zapcore.ObjectEncoder) error {
			enc.AddString("aggregate", traceLabel)
			return nil
		})),
	}
	if trace := mycontext.TraceFromContext(c); trace != "" {
		fields = append(fields, zap.String("logging.googleapis.com/trace", trace))
	}

	l.logger.Log(zapLevel(severity), fmt.Sprintf(format, a...), fields...)
}

func zapLevel(severity Severity) zapcore.Level {
	switch severity {
	case SeverityDebug:
		return zapcore.DebugLevel
	case SeverityWarn:
		return zapcore.WarnLevel
	case SeverityError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func cloudSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	switch level {
	case zapcore.DebugLevel:
		enc.AppendString("DEBUG")
	case zapcore.InfoLevel:
		enc.AppendString("INFO")
	case zapcore.WarnLevel:
		enc.AppendString("WARNING")
	case zapcore.ErrorLevel:
		enc.AppendString("ERROR")
	default:
		enc.AppendString("CRITICAL")
	}
}
