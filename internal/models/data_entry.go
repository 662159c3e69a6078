package models

import "encoding/json"

// DataEntry is a row of the data_entries table. Data is stored as JSONB.
type DataEntry struct {
	EntryID     string          `db:"entry_id"`
	CompanyID   int64           `db:"company_id"`
	EntryType   string          `db:"entry_type"`
	Data        json.RawMessage `db:"data"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Status      string          `db:"status"`
	AuditFields
}
