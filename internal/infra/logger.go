package infra

import "go.uber.org/zap"

type Logger interface {
	Infof(format string, v ...interface{})
	Errorf(format string, v ...interface{})
}

type zapLogger struct {
	sugar *zap.SugaredLogger
}

func NewZapLogger() Logger {
	l, _ := zap.NewProduction()
	return &zapLogger{sugar: l.Sugar()}
}

// NewLoggerWith wraps an existing zap logger; tests hand in an observed core.
func NewLoggerWith(l *zap.Logger) Logger {
	return &zapLogger{sugar: l.Sugar()}
}

func (l *zapLogger) Infof(format string, v ...interface{})  { l.sugar.Infof(format, v...) }
func (l *zapLogger) Errorf(format string, v ...interface{}) { l.sugar.Errorf(format, v...) }
