package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop().Sugar()

// Init builds the process logger. "production" gets a JSON encoder at info
// level, every other environment a console encoder at debug level.
func Init(environment string) {
	var (
		l   *zap.Logger
		err error
	)

	if environment == "production" {
		l, err = zap.NewProduction()
	} else {
		cfg := zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err = cfg.Build()
	}
	if err != nil {
		l = zap.NewExample()
	}

	log = l.WithOptions(zap.AddCallerSkip(1)).Sugar()
}

// Instance exposes the underlying zap logger.
func Instance() *zap.Logger {
	return log.Desugar()
}

func Debug(msg string, keysAndValues ...interface{}) {
	log.Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...interface{}) {
	log.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...interface{}) {
	log.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...interface{}) {
	log.Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...interface{}) {
	log.Fatalw(msg, keysAndValues...)
}

func Sync() error {
	return log.Sync()
}
