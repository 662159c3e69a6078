package dto

import (
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
)

// CreateUserRequest is the admin payload for provisioning a user.
type CreateUserRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Role      string `json:"role" binding:"omitempty,oneof=admin user"`
	CompanyID *int64 `json:"company_id" binding:"omitempty,gt=0"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateUserRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=6"`
	Role      *string `json:"role" binding:"omitempty,oneof=admin user"`
	Status    *string `json:"status" binding:"omitempty,oneof=active inactive"`
	CompanyID *int64  `json:"company_id" binding:"omitempty,gt=0"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	CompanyID int64      `json:"company_id"`
	Status    string     `json:"status"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// UserSummaryResponse is the admin drill-down of a user.
type UserSummaryResponse struct {
	User         UserResponse `json:"user"`
	Transactions int          `json:"transactions_count"`
	Invoices     int          `json:"invoices_count"`
	DataEntries  int          `json:"data_entries_count"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.UserID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		CompanyID: user.CompanyID,
		Status:    string(user.Status),
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}
}

// ToListUserResponse converts a slice of domain.User to ListUsersResponse DTO
func ToListUserResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i := range users {
		userResponses[i] = ToUserResponse(&users[i])
	}
	return ListUsersResponse{
		Users: userResponses,
	}
}

// ToUserSummaryResponse converts a domain.UserSummary to its DTO.
func ToUserSummaryResponse(s *domain.UserSummary) UserSummaryResponse {
	return UserSummaryResponse{
		User:         ToUserResponse(&s.User),
		Transactions: s.TransactionCount,
		Invoices:     s.InvoiceCount,
		DataEntries:  s.DataEntryCount,
	}
}
