package report

import "time"

// MonthlyReport is the denormalized report header, unique per
// (user_id, year, month). It is only ever written by the report upsert.
type MonthlyReport struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;uniqueIndex:idx_monthly_reports_user_period"`
	Year         int       `gorm:"column:year;not null;uniqueIndex:idx_monthly_reports_user_period"`
	Month        int       `gorm:"column:month;not null;uniqueIndex:idx_monthly_reports_user_period"`
	TotalSpent   float64   `gorm:"column:total_spent;not null"`
	TotalBudget  float64   `gorm:"column:total_budget;not null"`
	TopCategory  *string   `gorm:"column:top_category"`
	BudgetStatus string    `gorm:"column:budget_status"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (MonthlyReport) TableName() string {
	return "monthly_reports"
}

// CategoryReport rows belong to exactly one MonthlyReport and are replaced
// wholesale whenever the parent is regenerated.
type CategoryReport struct {
	ID             int64   `gorm:"primaryKey"`
	ReportID       int64   `gorm:"column:report_id;not null;uniqueIndex:idx_category_reports_report_category"`
	Category       string  `gorm:"column:category;not null;uniqueIndex:idx_category_reports_report_category"`
	AmountSpent    float64 `gorm:"column:amount_spent;not null"`
	BudgetAmount   float64 `gorm:"column:budget_amount;not null"`
	IsOverBudget   bool    `gorm:"column:is_over_budget;not null"`
	PercentageUsed float64 `gorm:"column:percentage_used;not null"`
}

func (CategoryReport) TableName() string {
	return "category_reports"
}
