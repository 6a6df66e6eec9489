package mylog

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = newStandardLogger
	}
}

type standardLogger struct {
	logger *zap.SugaredLogger
}

func newStandardLogger(componentName string) Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		logger = zap.NewNop()
	}
	return standardLogger{
		logger: logger.Sugar().Named(componentName),
	}
}

func (l standardLogger) Log(c context.Context, traceLabel string, severity Severity, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	switch severity {
	case SeverityDebug:
		l.logger.Debugw(msg, "aggregate", traceLabel)
	case SeverityWarn:
		l.logger.Warnw(msg, "aggregate", traceLabel)
	case SeverityError:
		l.logger.Errorw(msg, "aggregate", traceLabel)
	default:
		l.logger.Infow(msg, "aggregate", traceLabel)
	}
}
