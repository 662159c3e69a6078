package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/ports/gateways"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/hdtransit/erp_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Access portssvc.AccessAuthorizerSvc
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.ErrorContext(ctx, msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).WarnContext(ctx, msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).InfoContext(ctx, msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).DebugContext(ctx, msg, keyvals...)
}

// normalizeCurrency upper-cases a currency code, defaulting empty input to fallback.
func normalizeCurrency(code, fallback string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return fallback
	}
	return code
}

const eventPublishTimeout = 2 * time.Second

// publish emits an event if a publisher is configured. Failures are logged only.
func (s *BaseService) publish(ctx context.Context, p gateways.EventPublisher, eventType, key string, payload any) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if err := p.Publish(ctx, eventType, key, payload); err != nil {
		s.LogError(ctx, err, "Failed to publish event", slog.String("event_type", eventType), slog.String("key", key))
	}
}

// startOfDay truncates t to midnight UTC.
func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
