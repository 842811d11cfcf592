package report_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-tracker/internal"
	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/finance-tracker/internal/report"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

// Mock expense reader for testing
type mockExpenseReader struct {
	expenses  []*expenseDatamodel.Expense
	readError error
	lastStart time.Time
	lastEnd   time.Time
}

func (m *mockExpenseReader) FindInRange(userID int64, start, end time.Time) ([]*expenseDatamodel.Expense, error) {
	if m.readError != nil {
		return nil, m.readError
	}
	m.lastStart = start
	m.lastEnd = end

	var inRange []*expenseDatamodel.Expense
	for _, e := range m.expenses {
		if e.UserID == userID && !e.Date.Before(start) && !e.Date.After(end) {
			inRange = append(inRange, e)
		}
	}
	return inRange, nil
}

// Mock budget reader for testing
type mockBudgetReader struct {
	budgets   []*budgetDatamodel.Budget
	readError error
}

func (m *mockBudgetReader) FindForPeriod(userID int64, month, year int) ([]*budgetDatamodel.Budget, error) {
	if m.readError != nil {
		return nil, m.readError
	}

	var matching []*budgetDatamodel.Budget
	for _, b := range m.budgets {
		if b.UserID == userID && b.Month == month && b.Year == year {
			matching = append(matching, b)
		}
	}
	return matching, nil
}

var _ = Describe("Aggregator", func() {
	var (
		aggregator   *report.Aggregator
		expenseStore *mockExpenseReader
		budgetStore  *mockBudgetReader
		logger       *slog.Logger
	)

	userID := int64(42)

	BeforeEach(func() {
		expenseStore = &mockExpenseReader{}
		budgetStore = &mockBudgetReader{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		aggregator = report.NewAggregator(expenseStore, budgetStore, logger)
	})

	Describe("MonthRange", func() {
		It("should span the whole calendar month in UTC", func() {
			start, end := report.MonthRange(2026, 3)

			Expect(start).To(Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)))
			Expect(end.Before(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC))).To(BeTrue())
			Expect(end.Day()).To(Equal(31))
		})

		It("should include February 29th in a leap year", func() {
			start, end := report.MonthRange(2024, 2)

			Expect(start).To(Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
			Expect(end.Day()).To(Equal(29))
			Expect(end.Month()).To(Equal(time.February))
		})
	})

	Describe("ComputeMonthlyReport", func() {
		Context("when the month has no expenses and no budgets", func() {
			It("should produce an empty under-budget report", func() {
				result, err := aggregator.ComputeMonthlyReport(userID, 2026, 5)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.TotalSpent).To(BeZero())
				Expect(result.TotalBudget).To(BeZero())
				Expect(result.TopCategory).To(BeNil())
				Expect(result.BudgetStatus).To(Equal(report.StatusUnderBudget))
				Expect(result.Categories).To(BeEmpty())
			})
		})

		Context("when spending sits between 80% and 100% of budget", func() {
			BeforeEach(func() {
				expenseStore.expenses = []*expenseDatamodel.Expense{
					{UserID: userID, Amount: 350, Category: "Food", Date: time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)},
					{UserID: userID, Amount: 50, Category: "Transportation", Date: time.Date(2026, 5, 20, 8, 30, 0, 0, time.UTC)},
				}
				budgetStore.budgets = []*budgetDatamodel.Budget{
					{UserID: userID, Category: "Food", Amount: 300, Month: 5, Year: 2026},
					{UserID: userID, Category: "Transportation", Amount: 100, Month: 5, Year: 2026},
				}
			})

			It("should compute totals, top category and near-budget status", func() {
				result, err := aggregator.ComputeMonthlyReport(userID, 2026, 5)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.TotalSpent).To(Equal(400.0))
				Expect(result.TotalBudget).To(Equal(400.0))
				Expect(result.TopCategory).ToNot(BeNil())
				Expect(*result.TopCategory).To(Equal("Food"))
				Expect(result.BudgetStatus).To(Equal(report.StatusNearBudget))
			})

			It("should build one category report per budget line", func() {
				result, err := aggregator.ComputeMonthlyReport(userID, 2026, 5)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Categories).To(HaveLen(2))

				byCategory := make(map[string]*report.CategoryReport)
				for _, c := range result.Categories {
					byCategory[c.Category] = c
				}

				food := byCategory["Food"]
				Expect(food.AmountSpent).To(Equal(350.0))
				Expect(food.BudgetAmount).To(Equal(300.0))
				Expect(food.IsOverBudget).To(BeTrue())
				Expect(food.PercentageUsed).To(Equal(116.67))

				transport := byCategory["Transportation"]
				Expect(transport.AmountSpent).To(Equal(50.0))
				Expect(transport.BudgetAmount).To(Equal(100.0))
				Expect(transport.IsOverBudget).To(BeFalse())
				Expect(transport.PercentageUsed).To(Equal(50.0))
			})
		})

		Context("when expenses exist in a category without a budget line", func() {
			BeforeEach(func() {
				expenseStore.expenses = []*expenseDatamodel.Expense{
					{UserID: userID, Amount: 120, Category: "Entertainment", Date: time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)},
				}
			})

			It("should count the spending in totals and top category but not in category reports", func() {
				result, err := aggregator.ComputeMonthlyReport(userID, 2026, 5)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.TotalSpent).To(Equal(120.0))
				Expect(result.Categories).To(BeEmpty())
				Expect(*result.TopCategory).To(Equal("Entertainment"))
				Expect(result.BudgetStatus).To(Equal(report.StatusOverBudget))
			})
		})

		Context("when two categories tie for the top spend", func() {
			BeforeEach(func() {
				expenseStore.expenses = []*expenseDatamodel.Expense{
					{UserID: userID, Amount: 100, Category: "Transportation", Date: time.Date(2026, 5, 5, 0, 0, 0, 0, time.UTC)},
					{UserID: userID, Amount: 100, Category: "Food", Date: time.Date(2026, 5, 6, 0, 0, 0, 0, time.UTC)},
				}
			})

			It("should resolve the tie by canonical category order", func() {
				result, err := aggregator.ComputeMonthlyReport(userID, 2026, 5)

				Expect(err).ToNot(HaveOccurred())
				Expect(*result.TopCategory).To(Equal("Food"))
			})
		})

		Context("when a budget line has a zero amount", func() {
			BeforeEach(func() {
				expenseStore.expenses = []*expenseDatamodel.Expense{
					{UserID: userID, Amount: 30, Category: "Shopping", Date: time.Date(2026, 5, 15, 0, 0, 0, 0, time.UTC)},
				}
				budgetStore.budgets = []*budgetDatamodel.Budget{
					{UserID: userID, Category: "Shopping", Amount: 0, Month: 5, Year: 2026},
				}
			})

			It("should report zero percentage used instead of dividing by zero", func() {
				result, err := aggregator.ComputeMonthlyReport(userID, 2026, 5)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.Categories).To(HaveLen(1))
				Expect(result.Categories[0].PercentageUsed).To(BeZero())
				Expect(result.Categories[0].IsOverBudget).To(BeTrue())
			})
		})

		Context("when expenses fall outside the requested month", func() {
			BeforeEach(func() {
				expenseStore.expenses = []*expenseDatamodel.Expense{
					{UserID: userID, Amount: 10, Category: "Food", Date: time.Date(2026, 4, 30, 23, 59, 0, 0, time.UTC)},
					{UserID: userID, Amount: 20, Category: "Food", Date: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
					{UserID: userID, Amount: 40, Category: "Food", Date: time.Date(2026, 5, 31, 23, 59, 59, 0, time.UTC)},
					{UserID: userID, Amount: 80, Category: "Food", Date: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
				}
			})

			It("should only sum expenses inside the month boundaries", func() {
				result, err := aggregator.ComputeMonthlyReport(userID, 2026, 5)

				Expect(err).ToNot(HaveOccurred())
				Expect(result.TotalSpent).To(Equal(60.0))
			})
		})

		Context("when the expense read fails", func() {
			BeforeEach(func() {
				expenseStore.readError = errors.New("connection reset")
			})

			It("should return a store error", func() {
				result, err := aggregator.ComputeMonthlyReport(userID, 2026, 5)

				Expect(result).To(BeNil())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeStore))
			})
		})

		Context("when the budget read fails", func() {
			BeforeEach(func() {
				budgetStore.readError = errors.New("connection reset")
			})

			It("should return a store error", func() {
				result, err := aggregator.ComputeMonthlyReport(userID, 2026, 5)

				Expect(result).To(BeNil())
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeStore))
			})
		})
	})

	Describe("DeriveBudgetStatus", func() {
		It("should be under budget below 80 percent", func() {
			Expect(report.DeriveBudgetStatus(799.99, 1000)).To(Equal(report.StatusUnderBudget))
		})

		It("should be near budget at and above 80 percent", func() {
			Expect(report.DeriveBudgetStatus(800, 1000)).To(Equal(report.StatusNearBudget))
			Expect(report.DeriveBudgetStatus(850, 1000)).To(Equal(report.StatusNearBudget))
			Expect(report.DeriveBudgetStatus(1000, 1000)).To(Equal(report.StatusNearBudget))
		})

		It("should be over budget above 100 percent", func() {
			Expect(report.DeriveBudgetStatus(1000.01, 1000)).To(Equal(report.StatusOverBudget))
		})

		It("should treat any spend against a zero budget as over budget", func() {
			Expect(report.DeriveBudgetStatus(0.01, 0)).To(Equal(report.StatusOverBudget))
			Expect(report.DeriveBudgetStatus(0, 0)).To(Equal(report.StatusUnderBudget))
		})
	})
})
