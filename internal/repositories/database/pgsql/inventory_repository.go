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
	"github.com/shopspring/decimal"
)

const inventoryColumns = `item_id, company_id, name, category, quantity, unit_price, currency,
	unit_price_base, created_at, created_by, last_updated_at, last_updated_by`

type PgxInventoryRepository struct {
	BaseRepository
}

func newPgxInventoryRepository(pool *pgxpool.Pool) *PgxInventoryRepository {
	return &PgxInventoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.InventoryRepositoryFacade = (*PgxInventoryRepository)(nil)

func scanInventoryItem(row pgx.Row) (models.InventoryItem, error) {
	var m models.InventoryItem
	err := row.Scan(
		&m.ItemID,
		&m.CompanyID,
		&m.Name,
		&m.Category,
		&m.Quantity,
		&m.UnitPrice,
		&m.Currency,
		&m.UnitPriceBase,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxInventoryRepository) SaveItem(ctx context.Context, item domain.InventoryItem) error {
	m := mapping.ToModelInventoryItem(item)
	query := `
		INSERT INTO inventory_items (item_id, company_id, name, category, quantity, unit_price, currency,
			unit_price_base, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ItemID,
		m.CompanyID,
		m.Name,
		m.Category,
		m.Quantity,
		m.UnitPrice,
		m.Currency,
		m.UnitPriceBase,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return wrapWriteError(err, "failed to save inventory item")
	}
	return nil
}

func (r *PgxInventoryRepository) UpdateItem(ctx context.Context, item domain.InventoryItem) error {
	m := mapping.ToModelInventoryItem(item)
	query := `
		UPDATE inventory_items
		SET name = $1, category = $2, quantity = $3, unit_price = $4, currency = $5, unit_price_base = $6,
			last_updated_at = $7, last_updated_by = $8
		WHERE item_id = $9;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Name,
		m.Category,
		m.Quantity,
		m.UnitPrice,
		m.Currency,
		m.UnitPriceBase,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.ItemID,
	)
	if err != nil {
		return fmt.Errorf("failed to update inventory item: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("inventory item %s not found: %w", m.ItemID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxInventoryRepository) DeleteItem(ctx context.Context, itemID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM inventory_items WHERE item_id = $1;`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("inventory item %s not found: %w", itemID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxInventoryRepository) FindItemByID(ctx context.Context, itemID string) (*domain.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE item_id = $1;`
	m, err := scanInventoryItem(r.Pool.QueryRow(ctx, query, itemID))
	if err != nil {
		return nil, notFoundOr(err, "failed to find inventory item "+itemID)
	}
	item := mapping.ToDomainInventoryItem(m)
	return &item, nil
}

func (r *PgxInventoryRepository) ListItems(ctx context.Context, companyID int64) ([]domain.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE company_id = $1 ORDER BY name;`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query inventory: %w", err)
	}
	modelItems, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.InventoryItem, error) {
		return scanInventoryItem(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan inventory rows: %w", err)
	}

	items := make([]domain.InventoryItem, len(modelItems))
	for i, m := range modelItems {
		items[i] = mapping.ToDomainInventoryItem(m)
	}
	return items, nil
}

func (r *PgxInventoryRepository) TotalValueBase(ctx context.Context, companyID int64) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(quantity * unit_price_base), 0) FROM inventory_items WHERE company_id = $1;`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum inventory value: %w", err)
	}
	return total, nil
}
