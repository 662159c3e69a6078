package gateways

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateSource supplies exchange rate tables. Implementations may block on network I/O and
// must honour ctx cancellation.
type RateSource interface {
	// FetchRates returns factors against base. The table may omit unknown currencies.
	FetchRates(ctx context.Context, base string) (map[string]decimal.Decimal, error)

	// Name identifies the source in persisted rows and logs.
	Name() string
}

// SnapshotCache shares rate snapshots between processes. A miss returns (nil, nil).
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, base string) (*domain.RateSnapshot, error)
	SetSnapshot(ctx context.Context, snapshot domain.RateSnapshot) error
}

// NormalizerMetrics records cache and conversion outcomes.
type NormalizerMetrics interface {
	CacheHit(base string)
	CacheMiss(base string)
	SourceError(source string)
	ConversionDegraded(reason string)
	PersistFailed()
}
