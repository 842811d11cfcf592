package report

import (
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/category"
	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
)

// ExpenseReader provides the expense snapshot for one calendar month.
type ExpenseReader interface {
	FindInRange(userID int64, start, end time.Time) ([]*expenseDatamodel.Expense, error)
}

// BudgetReader provides the budget snapshot for one calendar month. Budgets
// are scoped to the report period: only lines whose (month, year) match are
// part of the snapshot.
type BudgetReader interface {
	FindForPeriod(userID int64, month, year int) ([]*budgetDatamodel.Budget, error)
}

// Aggregator turns ledger snapshots into a MonthlyReport. It never writes:
// the same snapshot always yields the same report.
type Aggregator struct {
	expenses ExpenseReader
	budgets  BudgetReader
	logger   *slog.Logger
}

func NewAggregator(expenses ExpenseReader, budgets BudgetReader, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		expenses: expenses,
		budgets:  budgets,
		logger:   logger,
	}
}

// MonthRange returns the inclusive bounds of a calendar month in UTC.
// time.Date normalizes day arithmetic, so month lengths and leap years fall
// out of AddDate.
func MonthRange(year, month int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

// ComputeMonthlyReport aggregates a user's month: totals, per-category
// spending, top category and budget status. The result is not persisted.
//
// Top-category ties are broken by canonical category order (category.All);
// categories outside the canonical set sort after it alphabetically.
func (a *Aggregator) ComputeMonthlyReport(userID int64, year, month int) (*MonthlyReport, error) {
	start, end := MonthRange(year, month)

	expenses, err := a.expenses.FindInRange(userID, start, end)
	if err != nil {
		a.logger.Error("failed to read expenses for report", "error", err, "user_id", userID, "year", year, "month", month)
		return nil, internal.NewStoreError("failed to read expenses", err)
	}

	budgets, err := a.budgets.FindForPeriod(userID, month, year)
	if err != nil {
		a.logger.Error("failed to read budgets for report", "error", err, "user_id", userID, "year", year, "month", month)
		return nil, internal.NewStoreError("failed to read budgets", err)
	}

	var totalSpent float64
	spentByCategory := make(map[string]float64)
	for _, e := range expenses {
		totalSpent += e.Amount
		spentByCategory[e.Category] += e.Amount
	}

	var totalBudget float64
	for _, b := range budgets {
		totalBudget += b.Amount
	}

	topCategory := topSpendingCategory(spentByCategory)

	categories := make([]*CategoryReport, 0, len(budgets))
	for _, b := range budgets {
		spent := spentByCategory[b.Category]

		var pct float64
		if b.Amount > 0 {
			pct = round2(spent / b.Amount * 100)
		}

		categories = append(categories, &CategoryReport{
			Category:       b.Category,
			AmountSpent:    spent,
			BudgetAmount:   b.Amount,
			IsOverBudget:   spent > b.Amount,
			PercentageUsed: pct,
		})
	}

	return &MonthlyReport{
		UserID:       userID,
		Year:         year,
		Month:        month,
		TotalSpent:   totalSpent,
		TotalBudget:  totalBudget,
		TopCategory:  topCategory,
		BudgetStatus: DeriveBudgetStatus(totalSpent, totalBudget),
		Categories:   categories,
	}, nil
}

// topSpendingCategory picks the category with the largest spend, nil when
// there is none. Iteration order is fixed so equal sums resolve the same way
// on every run.
func topSpendingCategory(spentByCategory map[string]float64) *string {
	if len(spentByCategory) == 0 {
		return nil
	}

	ordered := make([]string, 0, len(spentByCategory))
	seen := make(map[string]bool, len(spentByCategory))
	for _, c := range category.All() {
		if _, ok := spentByCategory[c.String()]; ok {
			ordered = append(ordered, c.String())
			seen[c.String()] = true
		}
	}

	// Legacy rows may carry a category outside the canonical set.
	var extras []string
	for name := range spentByCategory {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	ordered = append(ordered, extras...)

	var top string
	var max float64
	for _, name := range ordered {
		if amount := spentByCategory[name]; amount > max {
			max = amount
			top = name
		}
	}

	if top == "" {
		return nil
	}
	return &top
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
