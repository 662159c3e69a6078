package pgsql

import (
	"context"
	"fmt"

	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	"github.com/hdtransit/erp_backend/internal/models"
	"github.com/hdtransit/erp_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const dataEntryColumns = `entry_id, company_id, entry_type, data, title, description, status,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxDataEntryRepository struct {
	BaseRepository
}

func newPgxDataEntryRepository(pool *pgxpool.Pool) *PgxDataEntryRepository {
	return &PgxDataEntryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DataEntryRepositoryFacade = (*PgxDataEntryRepository)(nil)

func scanDataEntry(row pgx.Row) (models.DataEntry, error) {
	var m models.DataEntry
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.EntryType,
		&m.Data,
		&m.Title,
		&m.Description,
		&m.Status,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxDataEntryRepository) SaveDataEntry(ctx context.Context, entry domain.DataEntry) error {
	m := mapping.ToModelDataEntry(entry)
	query := `
		INSERT INTO data_entries (entry_id, company_id, entry_type, data, title, description, status,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.EntryID,
		m.CompanyID,
		m.EntryType,
		m.Data,
		m.Title,
		m.Description,
		m.Status,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapWriteError(err, "failed to save data entry")
	}
	return nil
}

func (r *PgxDataEntryRepository) UpdateDataEntry(ctx context.Context, entry domain.DataEntry) error {
	m := mapping.ToModelDataEntry(entry)
	query := `
		UPDATE data_entries
		SET entry_type = $1, data = $2, title = $3, description = $4, status = $5,
			last_updated_at = $6, last_updated_by = $7
		WHERE entry_id = $8;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.EntryType,
		m.Data,
		m.Title,
		m.Description,
		m.Status,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.EntryID,
	)
	if err != nil {
		return fmt.Errorf("failed to update data entry: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("data entry %s not found: %w", m.EntryID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxDataEntryRepository) DeleteDataEntry(ctx context.Context, entryID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM data_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete data entry: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("data entry %s not found: %w", entryID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxDataEntryRepository) FindDataEntryByID(ctx context.Context, entryID string) (*domain.DataEntry, error) {
	query := `SELECT ` + dataEntryColumns + ` FROM data_entries WHERE entry_id = $1;`
	m, err := scanDataEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		return nil, notFoundOr(err, "failed to find data entry "+entryID)
	}
	entry := mapping.ToDomainDataEntry(m)
	return &entry, nil
}

func (r *PgxDataEntryRepository) ListDataEntries(ctx context.Context, filter portsrepo.DataEntryFilter) ([]domain.DataEntry, error) {
	query := `SELECT ` + dataEntryColumns + `
		FROM data_entries
		WHERE company_id = $1
			AND ($2::TEXT IS NULL OR created_by = $2)
			AND ($3::TEXT IS NULL OR entry_type = $3)
		ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, filter.CompanyID, filter.CreatedBy, filter.EntryType)
	if err != nil {
		return nil, fmt.Errorf("failed to query data entries: %w", err)
	}
	modelEntries, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.DataEntry, error) {
		return scanDataEntry(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan data entry rows: %w", err)
	}

	entries := make([]domain.DataEntry, len(modelEntries))
	for i, m := range modelEntries {
		entries[i] = mapping.ToDomainDataEntry(m)
	}
	return entries, nil
}

func (r *PgxDataEntryRepository) CountDataEntriesByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM data_entries WHERE created_by = $1;`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count data entries: %w", err)
	}
	return count, nil
}
