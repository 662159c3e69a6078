package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	portsrepo "github.com/hdtransit/erp_backend/internal/core/ports/repositories"
	"github.com/hdtransit/erp_backend/internal/models"
	"github.com/hdtransit/erp_backend/internal/utils/mapping"
	"github.com/hdtransit/erp_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	transactionColumns = `transaction_id, company_id, user_id, date, description, amount, currency,
	original_currency, amount_base, exchange_rate, exchange_rate_date, type, category, source,
	import_batch_id, created_at, created_by, last_updated_at, last_updated_by`

	insertTransactionQuery = `
		INSERT INTO transactions (transaction_id, company_id, user_id, date, description, amount, currency,
			original_currency, amount_base, exchange_rate, exchange_rate_date, type, category, source,
			import_batch_id, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`

	defaultTransactionPageSize = 20
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for company transactions.
func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.CompanyID,
		&m.UserID,
		&m.Date,
		&m.Description,
		&m.Amount,
		&m.Currency,
		&m.OriginalCurrency,
		&m.AmountBase,
		&m.ExchangeRate,
		&m.ExchangeRateDate,
		&m.Type,
		&m.Category,
		&m.Source,
		&m.ImportBatchID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func insertArgs(m models.Transaction) []any {
	return []any{
		m.TransactionID,
		m.CompanyID,
		m.UserID,
		m.Date,
		m.Description,
		m.Amount,
		m.Currency,
		m.OriginalCurrency,
		m.AmountBase,
		m.ExchangeRate,
		m.ExchangeRateDate,
		m.Type,
		m.Category,
		m.Source,
		m.ImportBatchID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	}
}

func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	if _, err := r.Pool.Exec(ctx, insertTransactionQuery, insertArgs(mapping.ToModelTransaction(txn))...); err != nil {
		return wrapWriteError(err, "failed to save transaction")
	}
	return nil
}

// SaveTransactions inserts every row in one database transaction using a batch.
func (r *PgxTransactionRepository) SaveTransactions(ctx context.Context, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	batch := &pgx.Batch{}
	for _, txn := range txns {
		batch.Queue(insertTransactionQuery, insertArgs(mapping.ToModelTransaction(txn))...)
	}
	br := tx.SendBatch(ctx, batch)
	for i := range txns {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return wrapWriteError(err, "failed to insert transaction "+txns[i].TransactionID)
		}
	}
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to close transaction batch", err)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET date = $1, description = $2, amount = $3, currency = $4, original_currency = $5,
			amount_base = $6, exchange_rate = $7, exchange_rate_date = $8, type = $9, category = $10,
			last_updated_at = $11, last_updated_by = $12
		WHERE transaction_id = $13;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.Date,
		m.Description,
		m.Amount,
		m.Currency,
		m.OriginalCurrency,
		m.AmountBase,
		m.ExchangeRate,
		m.ExchangeRateDate,
		m.Type,
		m.Category,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.TransactionID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s not found: %w", m.TransactionID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxTransactionRepository) DeleteTransaction(ctx context.Context, transactionID string) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("transaction %s not found: %w", transactionID, apperrors.ErrNotFound)
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, notFoundOr(err, "failed to find transaction "+transactionID)
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// ListTransactions pages through the filtered transactions newest first. Rows are
// ordered by (date, created_at, transaction_id) so the keyset cursor is stable.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTransactionPageSize
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	conditions := []string{"company_id = $1"}
	args := []any{filter.CompanyID}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Type != nil {
		conditions = append(conditions, "type = "+arg(string(*filter.Type)))
	}
	if filter.Category != nil {
		conditions = append(conditions, "category = "+arg(*filter.Category))
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "date >= "+arg(*filter.StartDate))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= "+arg(*filter.EndDate))
	}
	if filter.NextToken != nil && *filter.NextToken != "" {
		cursor, err := pagination.DecodeToken(*filter.NextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken")
		}
		// Tuple comparison is concise and efficient in Postgres
		conditions = append(conditions, fmt.Sprintf("(date, created_at, transaction_id) < (%s, %s, %s)",
			arg(cursor.Date), arg(cursor.CreatedAt), arg(cursor.ID)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY date DESC, created_at DESC, transaction_id DESC LIMIT ` + arg(fetchLimit) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for company %d: %w", filter.CompanyID, err)
	}
	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan transaction rows: %w", err)
	}

	var nextToken *string
	if len(modelTxns) > limit {
		// The token points to the last item included in this page.
		last := modelTxns[limit-1]
		token := pagination.EncodeToken(pagination.Cursor{Date: last.Date, CreatedAt: last.CreatedAt, ID: last.TransactionID})
		nextToken = &token
		modelTxns = modelTxns[:limit]
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nextToken, nil
}

func (r *PgxTransactionRepository) ListExpensesSince(ctx context.Context, companyID int64, since time.Time) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM transactions
		WHERE company_id = $1 AND type = $2 AND date >= $3
		ORDER BY date DESC, created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, companyID, string(domain.Expense), since)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	modelTxns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Transaction, error) {
		return scanTransaction(row)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan expense rows: %w", err)
	}
	return mapping.ToDomainTransactionSlice(modelTxns), nil
}

func (r *PgxTransactionRepository) CountTransactionsByUser(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions WHERE user_id = $1;`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func (r *PgxTransactionRepository) SumByType(ctx context.Context, companyID int64) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(amount_base) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount_base) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE company_id = $1;
	`
	var income, expenses decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, companyID).Scan(&income, &expenses); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum transactions: %w", err)
	}
	return income, expenses, nil
}

func (r *PgxTransactionRepository) DailyTotals(ctx context.Context, companyID int64, from, to time.Time) ([]domain.DailyTotal, error) {
	query := `
		SELECT
			date,
			COALESCE(SUM(amount_base) FILTER (WHERE type = 'income'), 0),
			COALESCE(SUM(amount_base) FILTER (WHERE type = 'expense'), 0)
		FROM transactions
		WHERE company_id = $1 AND date >= $2 AND date < $3
		GROUP BY date
		ORDER BY date;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily totals: %w", err)
	}
	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.DailyTotal, error) {
		var d domain.DailyTotal
		err := row.Scan(&d.Day, &d.Income, &d.Expenses)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan daily totals: %w", err)
	}
	return totals, nil
}

func (r *PgxTransactionRepository) ExpenseTotalsByCategory(ctx context.Context, companyID int64, from, to time.Time) ([]domain.CategoryTotal, error) {
	query := `
		SELECT category, SUM(amount_base) AS total
		FROM transactions
		WHERE company_id = $1 AND type = 'expense' AND date >= $2 AND date < $3
		GROUP BY category
		ORDER BY total DESC;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query category totals: %w", err)
	}
	totals, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CategoryTotal, error) {
		var c domain.CategoryTotal
		err := row.Scan(&c.Category, &c.Amount)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan category totals: %w", err)
	}
	return totals, nil
}
