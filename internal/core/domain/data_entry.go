package domain

import "encoding/json"

// DataEntry is a free-form JSON record kept by a company (manifests, notes, checklists).
type DataEntry struct {
	EntryID     string          `json:"entryID"`
	CompanyID   int64           `json:"companyID"`
	EntryType   string          `json:"entryType"`
	Data        json.RawMessage `json:"data"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	AuditFields
}
