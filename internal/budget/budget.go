package budget

import (
	"time"

	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
)

type Budget struct {
	ID            int64     `json:"id"`
	UserID        int64     `json:"user_id"`
	Category      string    `json:"category"`
	Amount        float64   `json:"amount"`
	PaymentMethod string    `json:"payment_method"`
	Month         int       `json:"month"`
	Year          int       `json:"year"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Payment method constants
const (
	PaymentMethodCash          = "Cash"
	PaymentMethodCreditCard    = "Credit Card"
	PaymentMethodDebitCard     = "Debit Card"
	PaymentMethodBankTransfer  = "Bank Transfer"
	PaymentMethodMobilePayment = "Mobile Payment"
	PaymentMethodCheck         = "Check"
	PaymentMethodOther         = "Other"
)

var paymentMethods = []string{
	PaymentMethodCash,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodBankTransfer,
	PaymentMethodMobilePayment,
	PaymentMethodCheck,
	PaymentMethodOther,
}

func IsValidPaymentMethod(name string) bool {
	for _, m := range paymentMethods {
		if m == name {
			return true
		}
	}
	return false
}

func NewBudget(userID int64, dto CreateBudgetDTO) *Budget {
	now := time.Now()

	method := dto.PaymentMethod
	if method == "" {
		method = PaymentMethodOther
	}

	return &Budget{
		UserID:        userID,
		Category:      dto.Category,
		Amount:        dto.Amount,
		PaymentMethod: method,
		Month:         dto.Month,
		Year:          dto.Year,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func ToDataModel(b *Budget) *budgetDatamodel.Budget {
	return &budgetDatamodel.Budget{
		ID:            b.ID,
		UserID:        b.UserID,
		Category:      b.Category,
		Amount:        b.Amount,
		PaymentMethod: b.PaymentMethod,
		Month:         b.Month,
		Year:          b.Year,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func FromDataModel(b *budgetDatamodel.Budget) *Budget {
	return &Budget{
		ID:            b.ID,
		UserID:        b.UserID,
		Category:      b.Category,
		Amount:        b.Amount,
		PaymentMethod: b.PaymentMethod,
		Month:         b.Month,
		Year:          b.Year,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func FromDataModelSlice(budgets []*budgetDatamodel.Budget) []*Budget {
	result := make([]*Budget, len(budgets))
	for i, b := range budgets {
		result[i] = FromDataModel(b)
	}
	return result
}
