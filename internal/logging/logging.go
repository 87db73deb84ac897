// Package logging 构建服务与命令行共用的 zap 日志实例。
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 按级别构建生产配置的 logger，级别为空时使用 info
func New(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()

	parsed, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil && strings.TrimSpace(level) != "" {
		return nil, fmt.Errorf("parse log level %q: %w", level, err)
	}
	if err == nil {
		config.Level = zap.NewAtomicLevelAt(parsed)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// OrNop 返回 logger，nil 时返回不输出的 logger
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
