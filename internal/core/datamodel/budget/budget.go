package budget

import "time"

// Budget rows are unique per (user_id, category, month, year); the composite
// index backs the one-budget-per-category-per-period invariant.
type Budget struct {
	ID            int64     `gorm:"primaryKey"`
	UserID        int64     `gorm:"column:user_id;not null;uniqueIndex:idx_budgets_user_category_period"`
	Category      string    `gorm:"column:category;not null;uniqueIndex:idx_budgets_user_category_period"`
	Amount        float64   `gorm:"column:amount;not null"`
	PaymentMethod string    `gorm:"column:payment_method;default:Other"`
	Month         int       `gorm:"column:month;not null;uniqueIndex:idx_budgets_user_category_period"`
	Year          int       `gorm:"column:year;not null;uniqueIndex:idx_budgets_user_category_period"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Budget) TableName() string {
	return "budgets"
}
