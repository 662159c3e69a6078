package repositories

import (
	"context"

	"github.com/hdtransit/erp_backend/internal/core/domain"
)

// DataEntryFilter narrows a data entry listing. Nil fields do not filter.
type DataEntryFilter struct {
	CompanyID int64
	CreatedBy *string
	EntryType *string
}

// DataEntryReader defines read operations for data entries.
type DataEntryReader interface {
	FindDataEntryByID(ctx context.Context, entryID string) (*domain.DataEntry, error)
	ListDataEntries(ctx context.Context, filter DataEntryFilter) ([]domain.DataEntry, error)
	CountDataEntriesByUser(ctx context.Context, userID string) (int, error)
}

// DataEntryWriter defines write operations for data entries.
type DataEntryWriter interface {
	SaveDataEntry(ctx context.Context, entry domain.DataEntry) error
	UpdateDataEntry(ctx context.Context, entry domain.DataEntry) error
	DeleteDataEntry(ctx context.Context, entryID string) error
}

// DataEntryRepositoryFacade combines all data entry repository interfaces.
type DataEntryRepositoryFacade interface {
	DataEntryReader
	DataEntryWriter
}
