package app

import (
	"github.com/milk9111/tilepaint/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the process logger: development output with debug,
// production output otherwise, plus a rotating JSON file when lc.File is
// set. The returned func flushes and closes the file.
func NewLogger(debug bool, lc config.Log) (*zap.Logger, func(), error) {
	var (
		l   *zap.Logger
		err error
	)
	if debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, err
	}

	if lc.File == "" {
		return l, func() { _ = l.Sync() }, nil
	}

	rotate := &lumberjack.Logger{
		Filename:   lc.File,
		MaxSize:    lc.MaxSizeMB,
		MaxBackups: lc.MaxBackups,
	}
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(rotate),
		level,
	)
	l = l.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(c, fileCore)
	}))
	return l, func() {
		_ = l.Sync()
		_ = rotate.Close()
	}, nil
}
