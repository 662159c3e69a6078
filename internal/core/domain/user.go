package domain

import "time"

// UserRole determines what a user may see across companies.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// IsValid reports whether r is a known role.
func (r UserRole) IsValid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User represents a user of the application in the domain.
type User struct {
	UserID       string       `json:"userID"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         UserRole     `json:"role"`
	CompanyID    int64        `json:"companyID"`
	Status       EntityStatus `json:"status"`
	LastLogin    *time.Time   `json:"lastLogin,omitempty"`
	AuditFields
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// IsActive reports whether the user may sign in.
func (u *User) IsActive() bool {
	return u != nil && u.Status == StatusActive
}

// CanAccessCompany reports whether the user may read or write data of companyID.
// Admins reach every company; everyone else only their own.
func (u *User) CanAccessCompany(companyID int64) bool {
	if u == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	return u.CompanyID == companyID
}

// UserSummary is the admin view of a user together with their activity counts.
type UserSummary struct {
	User             User `json:"user"`
	TransactionCount int  `json:"transactionCount"`
	InvoiceCount     int  `json:"invoiceCount"`
	DataEntryCount   int  `json:"dataEntryCount"`
}
