package budget

import (
	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
)

// CreateBudgetDTO represents the request payload for creating a budget
type CreateBudgetDTO struct {
	Category      string  `json:"category" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gte=0"`
	PaymentMethod string  `json:"payment_method,omitempty"`
	Month         int     `json:"month" validate:"required,min=1,max=12"`
	Year          int     `json:"year" validate:"required,min=1"`
}

// Validate validates the CreateBudgetDTO
func (dto CreateBudgetDTO) Validate() error {
	if !category.IsValid(dto.Category) {
		return internal.NewValidationFieldError("category", "unknown category", internal.ErrCodeInvalidCategory)
	}
	if dto.Amount < 0 {
		return internal.NewValidationFieldError("amount", "amount cannot be negative", internal.ErrCodeInvalidAmount)
	}
	if dto.PaymentMethod != "" && !IsValidPaymentMethod(dto.PaymentMethod) {
		return internal.NewValidationFieldError("payment_method", "unknown payment method", internal.ErrCodeValidationFailed)
	}
	if dto.Month < 1 || dto.Month > 12 {
		return internal.NewValidationFieldError("month", "month must be between 1 and 12", internal.ErrCodeInvalidMonth)
	}
	if dto.Year < 1 {
		return internal.NewValidationFieldError("year", "year must be a positive integer", internal.ErrCodeInvalidYear)
	}
	return nil
}

// UpdateBudgetDTO represents the request payload for updating a budget.
// Nil fields are left unchanged; category/month/year stay fixed since they
// identify the budget.
type UpdateBudgetDTO struct {
	Amount        *float64 `json:"amount,omitempty"`
	PaymentMethod *string  `json:"payment_method,omitempty"`
}

// Validate validates the UpdateBudgetDTO
func (dto UpdateBudgetDTO) Validate() error {
	if dto.Amount != nil && *dto.Amount < 0 {
		return internal.NewValidationFieldError("amount", "amount cannot be negative", internal.ErrCodeInvalidAmount)
	}
	if dto.PaymentMethod != nil && !IsValidPaymentMethod(*dto.PaymentMethod) {
		return internal.NewValidationFieldError("payment_method", "unknown payment method", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ComparisonRow is one budget line compared against actual spending for the
// same period.
type ComparisonRow struct {
	Category       string  `json:"category"`
	BudgetAmount   float64 `json:"budget_amount"`
	ActualSpent    float64 `json:"actual_spent"`
	Remaining      float64 `json:"remaining"`
	PercentageUsed float64 `json:"percentage_used"`
	IsOverBudget   bool    `json:"is_over_budget"`
}
