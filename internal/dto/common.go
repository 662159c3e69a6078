package dto

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is the body of simple acknowledgements.
type MessageResponse struct {
	Message string `json:"message"`
}

// CompanyScopeParams lets admins target another company with ?company_id=.
type CompanyScopeParams struct {
	CompanyID *int64 `form:"company_id" binding:"omitempty,gt=0"`
}
