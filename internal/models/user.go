package models

import "time"

// User is a row of the users table.
type User struct {
	UserID       string     `db:"user_id"`
	Name         string     `db:"name"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Role         string     `db:"role"`
	CompanyID    int64      `db:"company_id"`
	Status       string     `db:"status"`
	LastLogin    *time.Time `db:"last_login"`
	AuditFields
}
