package expense

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
)

// CreateExpenseDTO represents the request payload for creating an expense
type CreateExpenseDTO struct {
	Amount      float64   `json:"amount" validate:"required,gt=0"`
	Description string    `json:"description" validate:"required,min=1,max=500"`
	Category    string    `json:"category" validate:"required"`
	Date        time.Time `json:"date,omitempty"`
}

// Validate validates the CreateExpenseDTO
func (dto CreateExpenseDTO) Validate() error {
	if dto.Amount <= 0 {
		return internal.NewValidationFieldError("amount", "amount must be greater than 0", internal.ErrCodeInvalidAmount)
	}
	if dto.Description == "" {
		return internal.NewValidationFieldError("description", "description is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Description) > 500 {
		return internal.NewValidationFieldError("description", "description must be less than 500 characters", internal.ErrCodeValidationFailed)
	}
	if !category.IsValid(dto.Category) {
		return internal.NewValidationFieldError("category", "unknown category", internal.ErrCodeInvalidCategory)
	}
	if !dto.Date.IsZero() && dto.Date.After(time.Now()) {
		return internal.NewValidationFieldError("date", "expense date cannot be in the future", internal.ErrCodeInvalidDate)
	}
	return nil
}

// UpdateExpenseDTO represents the request payload for updating an expense.
// Zero-valued fields are left unchanged.
type UpdateExpenseDTO struct {
	Amount      *float64   `json:"amount,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// Validate validates the UpdateExpenseDTO
func (dto UpdateExpenseDTO) Validate() error {
	if dto.Amount != nil && *dto.Amount <= 0 {
		return internal.NewValidationFieldError("amount", "amount must be greater than 0", internal.ErrCodeInvalidAmount)
	}
	if dto.Description != nil && (*dto.Description == "" || len(*dto.Description) > 500) {
		return internal.NewValidationFieldError("description", "description must be between 1 and 500 characters", internal.ErrCodeValidationFailed)
	}
	if dto.Category != nil && !category.IsValid(*dto.Category) {
		return internal.NewValidationFieldError("category", "unknown category", internal.ErrCodeInvalidCategory)
	}
	if dto.Date != nil && dto.Date.After(time.Now()) {
		return internal.NewValidationFieldError("date", "expense date cannot be in the future", internal.ErrCodeInvalidDate)
	}
	return nil
}

// CategorySummary is one row of the per-category spending summary.
type CategorySummary struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
	Count    int64   `json:"count"`
}
