package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
)

const (
	healthCheckTimeout = 3 * time.Second

	componentUp       = "up"
	componentDisabled = "disabled"
)

// HealthService pings the database and, when configured, the shared cache.
type HealthService struct {
	BaseService
	db    portsrepo.HealthChecker
	cache portsrepo.HealthChecker
	now   Clock
}

// NewHealthService creates a new HealthService. cache may be nil.
func NewHealthService(db portsrepo.HealthChecker, cache portsrepo.HealthChecker) *HealthService {
	return &HealthService{db: db, cache: cache, now: time.Now}
}

var _ portssvc.HealthSvc = (*HealthService)(nil)

// Check reports each dependency as up, disabled or "down: <cause>". Any configured
// dependency that is down makes the result unhealthy.
func (s *HealthService) Check(ctx context.Context) domain.HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, healthCheckTimeout)
	defer cancel()

	status := domain.HealthStatus{
		Healthy:   true,
		Database:  s.probe(ctx, "database", s.db),
		Cache:     s.probe(ctx, "cache", s.cache),
		CheckedAt: s.now().UTC(),
	}
	for _, component := range []string{status.Database, status.Cache} {
		if component != componentUp && component != componentDisabled {
			status.Healthy = false
		}
	}
	return status
}

func (s *HealthService) probe(ctx context.Context, name string, checker portsrepo.HealthChecker) string {
	if checker == nil {
		return componentDisabled
	}
	if err := checker.Ping(ctx); err != nil {
		s.LogWarn(ctx, "Health check failed", slog.String("component", name), slog.String("error", err.Error()))
		return "down: " + err.Error()
	}
	return componentUp
}
