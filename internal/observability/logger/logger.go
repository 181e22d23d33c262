// Package logger centraliza el logging estructurado del servicio sobre zap.
//
// Uso típico:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("Tables.List"))
//	log.Info("listado", logger.Count(len(items)))
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configura el logger global.
type Config struct {
	// Env: "prod" produce JSON; cualquier otro valor usa consola con colores.
	Env string
	// Level: debug, info, warn, error. Default info.
	Level   string
	Service string
	Version string
}

var (
	mu       sync.RWMutex
	instance *zap.Logger
	initOnce sync.Once
)

// Init construye el logger global. Solo la primera llamada tiene efecto.
func Init(cfg Config) {
	initOnce.Do(func() {
		l := build(cfg)
		mu.Lock()
		instance = l
		mu.Unlock()
	})
}

// L retorna el logger global (dev/info si Init no fue llamado).
func L() *zap.Logger {
	mu.RLock()
	l := instance
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(Config{Env: "dev", Level: "info"})
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Sync vacía buffers pendientes.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if instance == nil {
		return nil
	}
	return instance.Sync()
}

func build(cfg Config) *zap.Logger {
	var zcfg zap.Config
	prod := strings.EqualFold(strings.TrimSpace(cfg.Env), "prod")
	if prod {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zcfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
		zcfg.DisableStacktrace = true
	}
	zcfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zcfg.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	opts := []zap.Option{zap.AddCaller()}
	if prod {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}
	l, err := zcfg.Build(opts...)
	if err != nil {
		l = zap.NewNop()
	}
	if cfg.Service != "" {
		l = l.With(zap.String("service", cfg.Service))
	}
	if cfg.Version != "" {
		l = l.With(zap.String("version", cfg.Version))
	}
	return l
}

func parseLevel(lvl string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(lvl)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
