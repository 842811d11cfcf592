// Package report implements the monthly report engine: a pure aggregator
// over expense and budget snapshots, a keyed store with atomic upsert, and
// the orchestration service driving single and batch generation.
package report

import (
	"time"

	reportDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/report"
)

// Budget status constants. The wire values are stable; clients render them.
const (
	StatusUnderBudget = "Under Budget"
	StatusNearBudget  = "Near Budget"
	StatusOverBudget  = "Over Budget"
)

// NearBudgetThreshold is the fraction of total budget at which a month tips
// from Under Budget to Near Budget.
const NearBudgetThreshold = 0.8

// MonthlyReport is the derived report for one (user, year, month) key. It is
// produced by the aggregator and replaced wholesale on regeneration; it is
// never edited directly.
type MonthlyReport struct {
	ID           int64             `json:"id"`
	UserID       int64             `json:"user_id"`
	Year         int               `json:"year"`
	Month        int               `json:"month"`
	TotalSpent   float64           `json:"total_spent"`
	TotalBudget  float64           `json:"total_budget"`
	TopCategory  *string           `json:"top_category"`
	BudgetStatus string            `json:"budget_status"`
	CreatedAt    time.Time         `json:"created_at"`
	Categories   []*CategoryReport `json:"categories"`
}

// CategoryReport is one budget line of a MonthlyReport. Rows live and die
// with their parent report.
type CategoryReport struct {
	ID             int64   `json:"id"`
	ReportID       int64   `json:"report_id"`
	Category       string  `json:"category"`
	AmountSpent    float64 `json:"amount_spent"`
	BudgetAmount   float64 `json:"budget_amount"`
	IsOverBudget   bool    `json:"is_over_budget"`
	PercentageUsed float64 `json:"percentage_used"`
}

// DeriveBudgetStatus classifies aggregate spend against aggregate budget.
// The totalBudget = 0 case resolves before any threshold math: any spending
// is Over Budget, none is Under Budget.
func DeriveBudgetStatus(totalSpent, totalBudget float64) string {
	if totalSpent > totalBudget {
		return StatusOverBudget
	}
	if totalBudget > 0 && totalSpent >= NearBudgetThreshold*totalBudget {
		return StatusNearBudget
	}
	return StatusUnderBudget
}

func ToDataModel(r *MonthlyReport) (*reportDatamodel.MonthlyReport, []*reportDatamodel.CategoryReport) {
	header := &reportDatamodel.MonthlyReport{
		ID:           r.ID,
		UserID:       r.UserID,
		Year:         r.Year,
		Month:        r.Month,
		TotalSpent:   r.TotalSpent,
		TotalBudget:  r.TotalBudget,
		TopCategory:  r.TopCategory,
		BudgetStatus: r.BudgetStatus,
		CreatedAt:    r.CreatedAt,
	}

	rows := make([]*reportDatamodel.CategoryReport, len(r.Categories))
	for i, c := range r.Categories {
		rows[i] = &reportDatamodel.CategoryReport{
			ID:             c.ID,
			ReportID:       c.ReportID,
			Category:       c.Category,
			AmountSpent:    c.AmountSpent,
			BudgetAmount:   c.BudgetAmount,
			IsOverBudget:   c.IsOverBudget,
			PercentageUsed: c.PercentageUsed,
		}
	}

	return header, rows
}

func FromDataModel(header *reportDatamodel.MonthlyReport, rows []*reportDatamodel.CategoryReport) *MonthlyReport {
	r := &MonthlyReport{
		ID:           header.ID,
		UserID:       header.UserID,
		Year:         header.Year,
		Month:        header.Month,
		TotalSpent:   header.TotalSpent,
		TotalBudget:  header.TotalBudget,
		TopCategory:  header.TopCategory,
		BudgetStatus: header.BudgetStatus,
		CreatedAt:    header.CreatedAt,
		Categories:   make([]*CategoryReport, len(rows)),
	}

	for i, row := range rows {
		r.Categories[i] = &CategoryReport{
			ID:             row.ID,
			ReportID:       row.ReportID,
			Category:       row.Category,
			AmountSpent:    row.AmountSpent,
			BudgetAmount:   row.BudgetAmount,
			IsOverBudget:   row.IsOverBudget,
			PercentageUsed: row.PercentageUsed,
		}
	}

	return r
}
