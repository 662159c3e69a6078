package domain

import "time"

// AuditFields holds standard audit information for domain entities.
type AuditFields struct {
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
	LastUpdatedBy string    `json:"lastUpdatedBy"`
}

// EntityStatus is the lifecycle state shared by companies and users.
type EntityStatus string

const (
	StatusActive   EntityStatus = "active"
	StatusInactive EntityStatus = "inactive"
)

// HealthStatus reports dependency reachability. Components map to "up", "down: <err>"
// or "disabled".
type HealthStatus struct {
	Healthy   bool
	Database  string
	Cache     string
	CheckedAt time.Time
}
