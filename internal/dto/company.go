package dto

import (
	"time"

	"github.com/hdtransit/erp_backend/internal/core/domain"
)

// CreateCompanyRequest is the admin payload for registering a company.
type CreateCompanyRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Address      string `json:"address" binding:"max=500"`
	Phone        string `json:"phone" binding:"max=50"`
	Email        string `json:"email" binding:"omitempty,email"`
	TaxID        string `json:"tax_id" binding:"max=50"`
	BaseCurrency string `json:"base_currency" binding:"omitempty,iso4217"`
}

// CompanyResponse is the public view of a company.
type CompanyResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	TaxID        string    `json:"tax_id"`
	BaseCurrency string    `json:"base_currency"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToCompanyResponse converts a domain.Company to its DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:           c.CompanyID,
		Name:         c.Name,
		Address:      c.Address,
		Phone:        c.Phone,
		Email:        c.Email,
		TaxID:        c.TaxID,
		BaseCurrency: c.BaseCurrency,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
	}
}

// ToListCompanyResponse converts companies to DTOs.
func ToListCompanyResponse(companies []domain.Company) []CompanyResponse {
	out := make([]CompanyResponse, len(companies))
	for i := range companies {
		out[i] = ToCompanyResponse(&companies[i])
	}
	return out
}
