package logger

import (
	"context"
	"os"

	"github.com/Gunvolt24/ginutils/pkg/ctxmeta"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger — реализация ports.Logger поверх zap.
type ZapLogger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	level  zap.AtomicLevel
	isProd bool
}

// NewZapLogger — логгер с потоковым выводом в stderr и заданным уровнем.
// В prod-режиме JSON-кодировщик, иначе консольный.
func NewZapLogger(isProd bool, level zapcore.Level) (*ZapLogger, func() error, error) {
	var encCfg zapcore.EncoderConfig
	if isProd {
		encCfg = zap.NewProductionEncoderConfig()
	} else {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if isProd {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	atom := zap.NewAtomicLevelAt(level)
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), atom)

	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if !isProd {
		opts = append(opts, zap.Development())
	}

	return wrap(zap.New(core, opts...), atom, isProd)
}

// NewFromZap — обёртка над готовым *zap.Logger (удобно для тестов с zaptest/observer).
func NewFromZap(base *zap.Logger) *ZapLogger {
	l, _, _ := wrap(base, zap.NewAtomicLevel(), false)
	return l
}

func wrap(base *zap.Logger, atom zap.AtomicLevel, isProd bool) (*ZapLogger, func() error, error) {
	loggerWrap := &ZapLogger{
		base:   base,
		sugar:  base.Sugar(),
		level:  atom,
		isProd: isProd,
	}

	cleanup := func() error { return loggerWrap.base.Sync() }
	return loggerWrap, cleanup, nil
}

// with — добавляет request_id и subject из контекста, если они там есть.
func (z *ZapLogger) with(ctx context.Context) *zap.SugaredLogger {
	var fields []any
	if rid, ok := ctxmeta.RequestIDFromContext(ctx); ok {
		fields = append(fields, "request_id", rid)
	}
	if sub, ok := ctxmeta.SubjectFromContext(ctx); ok {
		fields = append(fields, "subject", sub)
	}
	if len(fields) == 0 {
		return z.sugar
	}
	return z.sugar.With(fields...)
}

func (z *ZapLogger) Infof(ctx context.Context, format string, args ...any) {
	z.with(ctx).Infof(format, args...)
}
func (z *ZapLogger) Warnf(ctx context.Context, format string, args ...any) {
	z.with(ctx).Warnf(format, args...)
}
func (z *ZapLogger) Errorf(ctx context.Context, format string, args ...any) {
	z.with(ctx).Errorf(format, args...)
}

// SetLevel — смена уровня на лету.
func (z *ZapLogger) SetLevel(level zapcore.Level) { z.level.SetLevel(level) }

func (z *ZapLogger) Level() zapcore.Level         { return z.level.Level() }
func (z *ZapLogger) Base() *zap.Logger           { return z.base }
func (z *ZapLogger) Sugared() *zap.SugaredLogger { return z.sugar }
