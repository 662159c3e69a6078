package services

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/core/ports/gateways"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	portssvc "github.com/hdtransit/erp_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// Clock returns the current time. Tests substitute a fixed clock.
type Clock func() time.Time

const (
	defaultRatesCacheTTL = 5 * time.Minute
	ratePersistTimeout   = 15 * time.Second
)

var errNoRateSource = errors.New("no rate source available")

// CurrencyNormalizer keeps one rate snapshot per base currency and converts amounts
// through the reference currency. It is built once at startup and closed at shutdown.
type CurrencyNormalizer struct {
	BaseService
	baseCurrency string
	ttl          time.Duration
	now          Clock

	source    gateways.RateSource
	fallback  gateways.RateSource
	shared    gateways.SnapshotCache
	rateRepo  portsrepo.ExchangeRateRepositoryFacade
	metrics   gateways.NormalizerMetrics
	publisher gateways.EventPublisher

	// refreshMu serializes refreshes so concurrent misses fetch and persist once.
	refreshMu sync.Mutex
	mu        sync.RWMutex
	snapshots map[string]*domain.RateSnapshot
	pending   sync.WaitGroup
}

// NormalizerOption is a functional option for configuring the currency normalizer
type NormalizerOption func(*CurrencyNormalizer)

// WithFallbackRateSource is consulted when the primary source fails.
func WithFallbackRateSource(src gateways.RateSource) NormalizerOption {
	return func(n *CurrencyNormalizer) {
		n.fallback = src
	}
}

// WithSnapshotCache shares snapshots with other instances of the service.
func WithSnapshotCache(cache gateways.SnapshotCache) NormalizerOption {
	return func(n *CurrencyNormalizer) {
		n.shared = cache
	}
}

// WithExchangeRateRepository enables best-effort persistence and history reads.
func WithExchangeRateRepository(repo portsrepo.ExchangeRateRepositoryFacade) NormalizerOption {
	return func(n *CurrencyNormalizer) {
		n.rateRepo = repo
	}
}

// WithNormalizerMetrics records cache and conversion outcomes.
func WithNormalizerMetrics(m gateways.NormalizerMetrics) NormalizerOption {
	return func(n *CurrencyNormalizer) {
		if m != nil {
			n.metrics = m
		}
	}
}

// WithRateEventPublisher announces every refreshed snapshot.
func WithRateEventPublisher(p gateways.EventPublisher) NormalizerOption {
	return func(n *CurrencyNormalizer) {
		n.publisher = p
	}
}

// WithClock replaces time.Now.
func WithClock(c Clock) NormalizerOption {
	return func(n *CurrencyNormalizer) {
		if c != nil {
			n.now = c
		}
	}
}

// WithRatesCacheTTL sets how long a snapshot stays fresh.
func WithRatesCacheTTL(ttl time.Duration) NormalizerOption {
	return func(n *CurrencyNormalizer) {
		if ttl > 0 {
			n.ttl = ttl
		}
	}
}

// WithBaseCurrency overrides the reference currency.
func WithBaseCurrency(code string) NormalizerOption {
	return func(n *CurrencyNormalizer) {
		n.baseCurrency = normalizeCurrency(code, domain.ReferenceCurrency)
	}
}

// NewCurrencyNormalizer creates a normalizer reading from source.
func NewCurrencyNormalizer(source gateways.RateSource, options ...NormalizerOption) *CurrencyNormalizer {
	n := &CurrencyNormalizer{
		baseCurrency: domain.ReferenceCurrency,
		ttl:          defaultRatesCacheTTL,
		now:          time.Now,
		source:       source,
		metrics:      noopNormalizerMetrics{},
		snapshots:    make(map[string]*domain.RateSnapshot),
	}

	for _, option := range options {
		option(n)
	}

	return n
}

var _ portssvc.ExchangeRateSvcFacade = (*CurrencyNormalizer)(nil)

// BaseCurrency returns the pivot currency.
func (n *CurrencyNormalizer) BaseCurrency() string {
	return n.baseCurrency
}

// GetRates returns a copy of the factor table against base.
func (n *CurrencyNormalizer) GetRates(ctx context.Context, base string) map[string]decimal.Decimal {
	snap := n.GetSnapshot(ctx, base)
	return snap.Rates
}

// GetSnapshot returns a fresh snapshot for base, refreshing a stale or missing one.
// If every source fails the last known snapshot is served; with none at all the
// result only contains the base itself and has a zero FetchedAt.
func (n *CurrencyNormalizer) GetSnapshot(ctx context.Context, base string) domain.RateSnapshot {
	base = normalizeCurrency(base, n.baseCurrency)

	if snap := n.cached(base); snap.IsFresh(n.now(), n.ttl) {
		n.metrics.CacheHit(base)
		return cloneSnapshot(snap)
	}

	n.refreshMu.Lock()
	defer n.refreshMu.Unlock()

	// a concurrent caller may have refreshed while we waited
	stale := n.cached(base)
	if stale.IsFresh(n.now(), n.ttl) {
		n.metrics.CacheHit(base)
		return cloneSnapshot(stale)
	}
	n.metrics.CacheMiss(base)

	snap, err := n.refresh(ctx, base)
	if err != nil {
		n.LogError(ctx, err, "Failed to refresh exchange rates", slog.String("base", base))
		if stale != nil {
			return cloneSnapshot(stale)
		}
		return domain.RateSnapshot{
			Base:  base,
			Rates: map[string]decimal.Decimal{base: decimal.NewFromInt(1)},
		}
	}
	return cloneSnapshot(snap)
}

// Convert returns amount expressed in to. It never fails: a missing factor counts as 1
// and an unreachable rate source returns the input amount, both logged.
func (n *CurrencyNormalizer) Convert(ctx context.Context, amount decimal.Decimal, from, to string) decimal.Decimal {
	return n.ConvertDetailed(ctx, amount, from, to).Amount
}

// ConvertDetailed converts amount from one currency to another through the base
// currency. Missing factors count as 1 and mark the result degraded.
func (n *CurrencyNormalizer) ConvertDetailed(ctx context.Context, amount decimal.Decimal, from, to string) domain.ConversionResult {
	from = normalizeCurrency(from, n.baseCurrency)
	to = normalizeCurrency(to, n.baseCurrency)
	one := decimal.NewFromInt(1)

	result := domain.ConversionResult{Amount: amount, From: from, To: to, Rate: one, Status: domain.ConversionOK}
	if from == to {
		return result
	}

	snap := n.GetSnapshot(ctx, n.baseCurrency)
	if snap.FetchedAt.IsZero() {
		return n.degrade(ctx, result, domain.ReasonRateSourceError)
	}

	fromFactor, fromReason := n.factor(snap, from)
	toFactor, toReason := n.factor(snap, to)

	var rate decimal.Decimal
	switch {
	case from == n.baseCurrency:
		rate = toFactor
	case to == n.baseCurrency:
		rate = one.Div(fromFactor)
	default:
		rate = toFactor.Div(fromFactor)
	}
	result.Rate = rate
	result.Amount = amount.Mul(toFactor).Div(fromFactor)
	if reason := firstNonEmpty(fromReason, toReason); reason != "" {
		return n.degrade(ctx, result, reason)
	}
	return result
}

// ListHistory returns persisted quotes for base.
func (n *CurrencyNormalizer) ListHistory(ctx context.Context, base string, target *string, limit int) ([]domain.ExchangeRate, error) {
	if n.rateRepo == nil {
		return []domain.ExchangeRate{}, nil
	}
	base = normalizeCurrency(base, n.baseCurrency)
	if target != nil {
		t := normalizeCurrency(*target, "")
		target = &t
	}
	rates, err := n.rateRepo.ListExchangeRates(ctx, base, target, limit)
	if err != nil {
		n.LogError(ctx, err, "Failed to list exchange rate history", slog.String("base", base))
		return nil, err
	}
	return rates, nil
}

// Close waits for in-flight persistence writes.
func (n *CurrencyNormalizer) Close() {
	n.pending.Wait()
}

func (n *CurrencyNormalizer) cached(base string) *domain.RateSnapshot {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.snapshots[base]
}

func (n *CurrencyNormalizer) store(snap *domain.RateSnapshot) {
	n.mu.Lock()
	n.snapshots[snap.Base] = snap
	n.mu.Unlock()
}

// refresh builds a new snapshot for base and caches it. Must hold refreshMu.
func (n *CurrencyNormalizer) refresh(ctx context.Context, base string) (*domain.RateSnapshot, error) {
	if n.shared != nil {
		snap, err := n.shared.GetSnapshot(ctx, base)
		if err != nil {
			n.LogError(ctx, err, "Shared rate cache read failed", slog.String("base", base))
		} else if snap.IsFresh(n.now(), n.ttl) {
			n.store(snap)
			return snap, nil
		}
	}

	rates, sourceName, err := n.fetch(ctx, base)
	if err != nil {
		return nil, err
	}

	snap := &domain.RateSnapshot{
		Base:      base,
		Rates:     n.sanitize(ctx, base, rates),
		Source:    sourceName,
		FetchedAt: n.now(),
	}
	n.store(snap)

	if n.shared != nil {
		if err := n.shared.SetSnapshot(ctx, *snap); err != nil {
			n.LogError(ctx, err, "Shared rate cache write failed", slog.String("base", base))
		}
	}

	if len(rates) > 0 {
		n.persistAsync(ctx, cloneSnapshot(snap))
	}
	return snap, nil
}

func (n *CurrencyNormalizer) fetch(ctx context.Context, base string) (map[string]decimal.Decimal, string, error) {
	var errs []error
	for _, src := range []gateways.RateSource{n.source, n.fallback} {
		if src == nil {
			continue
		}
		rates, err := src.FetchRates(ctx, base)
		if err == nil {
			return rates, src.Name(), nil
		}
		n.metrics.SourceError(src.Name())
		n.LogWarn(ctx, "Rate source failed", slog.String("source", src.Name()), slog.String("base", base), slog.String("error", err.Error()))
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, "", errNoRateSource
	}
	return nil, "", errors.Join(errs...)
}

// sanitize drops non-positive factors and pins the base to 1.
func (n *CurrencyNormalizer) sanitize(ctx context.Context, base string, rates map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(rates)+1)
	for code, rate := range rates {
		code = normalizeCurrency(code, "")
		if code == "" {
			continue
		}
		if !rate.IsPositive() {
			n.LogWarn(ctx, "Dropping non-positive exchange rate", slog.String("base", base), slog.String("currency", code), slog.String("rate", rate.String()))
			continue
		}
		out[code] = rate
	}
	out[base] = decimal.NewFromInt(1)
	return out
}

// persistAsync upserts every non-base row of snap without blocking the caller.
// Failures are logged and counted, never returned.
func (n *CurrencyNormalizer) persistAsync(parent context.Context, snap domain.RateSnapshot) {
	if n.rateRepo == nil && n.publisher == nil {
		return
	}

	n.pending.Add(1)
	go func() {
		defer n.pending.Done()
		ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), ratePersistTimeout)
		defer cancel()

		if n.rateRepo != nil {
			n.persist(ctx, snap)
		}
		if n.publisher != nil {
			if err := n.publisher.Publish(ctx, gateways.EventRatesRefreshed, snap.Base, snap); err != nil {
				n.LogError(ctx, err, "Failed to publish rates refreshed event", slog.String("base", snap.Base))
			}
		}
	}()
}

func (n *CurrencyNormalizer) persist(ctx context.Context, snap domain.RateSnapshot) {
	fetched := snap.FetchedAt.UTC()
	today := time.Date(fetched.Year(), fetched.Month(), fetched.Day(), 0, 0, 0, 0, time.UTC)

	targets := make([]string, 0, len(snap.Rates))
	for code := range snap.Rates {
		if code != snap.Base {
			targets = append(targets, code)
		}
	}
	sort.Strings(targets)

	failed := 0
	for _, target := range targets {
		err := n.rateRepo.UpsertExchangeRate(ctx, domain.ExchangeRate{
			BaseCurrency:   snap.Base,
			TargetCurrency: target,
			Rate:           snap.Rates[target],
			Date:           today,
			Source:         snap.Source,
			UpdatedAt:      snap.FetchedAt,
		})
		if err != nil {
			failed++
			n.metrics.PersistFailed()
			n.LogError(ctx, err, "Failed to store exchange rate",
				slog.String("base", snap.Base),
				slog.String("target", target))
		}
	}
	n.LogDebug(ctx, "Stored exchange rate snapshot",
		slog.String("base", snap.Base),
		slog.Int("rows", len(targets)-failed),
		slog.Int("failed", failed))
}

// factor returns the rate of code against the snapshot base, or 1 with a reason.
func (n *CurrencyNormalizer) factor(snap domain.RateSnapshot, code string) (decimal.Decimal, string) {
	one := decimal.NewFromInt(1)
	if code == snap.Base {
		return one, ""
	}
	rate, ok := snap.Rates[code]
	if !ok {
		return one, domain.ReasonMissingRate
	}
	if rate.IsZero() {
		return one, domain.ReasonZeroRate
	}
	return rate, ""
}

func (n *CurrencyNormalizer) degrade(ctx context.Context, result domain.ConversionResult, reason string) domain.ConversionResult {
	result.Status = domain.ConversionDegraded
	result.Reason = reason
	n.metrics.ConversionDegraded(reason)
	n.LogWarn(ctx, "Currency conversion degraded",
		slog.String("from", result.From),
		slog.String("to", result.To),
		slog.String("reason", reason))
	return result
}

func cloneSnapshot(s *domain.RateSnapshot) domain.RateSnapshot {
	out := *s
	out.Rates = s.CopyRates()
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type noopNormalizerMetrics struct{}

func (noopNormalizerMetrics) CacheHit(string)           {}
func (noopNormalizerMetrics) CacheMiss(string)          {}
func (noopNormalizerMetrics) SourceError(string)        {}
func (noopNormalizerMetrics) ConversionDegraded(string) {}
func (noopNormalizerMetrics) PersistFailed()            {}
