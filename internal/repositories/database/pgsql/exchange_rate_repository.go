package pgsql

import (
	"context"
	"fmt"

	"github.com/hdtransit/erp_backend/internal/core/domain"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	"github.com/hdtransit/erp_backend/internal/models"
	"github.com/hdtransit/erp_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultRateListLimit = 100

type PgxExchangeRateRepository struct {
	BaseRepository
}

func newPgxExchangeRateRepository(pool *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// UpsertExchangeRate stores the quote; a later write for the same day replaces the rate.
func (r *PgxExchangeRateRepository) UpsertExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	m := mapping.ToModelExchangeRate(rate)
	query := `
		INSERT INTO exchange_rates (base_currency, target_currency, rate, date, source, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (base_currency, target_currency, date) DO UPDATE SET
			rate = EXCLUDED.rate,
			source = EXCLUDED.source,
			updated_at = EXCLUDED.updated_at;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BaseCurrency,
		m.TargetCurrency,
		m.Rate,
		m.Date,
		m.Source,
		m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert exchange rate %s/%s: %w", m.BaseCurrency, m.TargetCurrency, err)
	}
	return nil
}

func (r *PgxExchangeRateRepository) ListExchangeRates(ctx context.Context, base string, target *string, limit int) ([]domain.ExchangeRate, error) {
	if limit <= 0 {
		limit = defaultRateListLimit
	}
	query := `
		SELECT base_currency, target_currency, rate, date, source, updated_at
		FROM exchange_rates
		WHERE base_currency = $1 AND ($2::TEXT IS NULL OR target_currency = $2)
		ORDER BY date DESC, target_currency
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, base, target, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchange rates: %w", err)
	}
	modelRates, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.ExchangeRate, error) {
		var m models.ExchangeRate
		err := row.Scan(&m.BaseCurrency, &m.TargetCurrency, &m.Rate, &m.Date, &m.Source, &m.UpdatedAt)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan exchange rate rows: %w", err)
	}

	rates := make([]domain.ExchangeRate, len(modelRates))
	for i, m := range modelRates {
		rates[i] = mapping.ToDomainExchangeRate(m)
	}
	return rates, nil
}
