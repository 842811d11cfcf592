package budget

import (
	"log/slog"
	"math"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
)

// RepositoryAPI defines the data access methods for budgets
type RepositoryAPI interface {
	Create(b *budgetDatamodel.Budget) error
	GetByID(id int64) (*budgetDatamodel.Budget, error)
	GetByUserID(userID int64) ([]*budgetDatamodel.Budget, error)
	FindForPeriod(userID int64, month, year int) ([]*budgetDatamodel.Budget, error)
	GetByKey(userID int64, category string, month, year int) (*budgetDatamodel.Budget, error)
	Update(b *budgetDatamodel.Budget) error
	Delete(id int64) error
}

// LedgerReader provides the expense snapshot for the budget-vs-actual
// comparison.
type LedgerReader interface {
	FindInRange(userID int64, start, end time.Time) ([]*expenseDatamodel.Expense, error)
}

// Service handles budget business logic
type Service struct {
	repo   RepositoryAPI
	ledger LedgerReader
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, ledger LedgerReader, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		ledger: ledger,
		logger: logger,
	}
}

func (s *Service) CreateBudget(userID int64, dto CreateBudgetDTO) (*Budget, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("budget validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	existing, err := s.repo.GetByKey(userID, dto.Category, dto.Month, dto.Year)
	if err != nil {
		s.logger.Error("failed to check existing budget", "error", err, "user_id", userID)
		return nil, internal.NewStoreError("failed to check existing budget", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateBudget
	}

	b := NewBudget(userID, dto)

	dataModel := ToDataModel(b)
	if err := s.repo.Create(dataModel); err != nil {
		s.logger.Error("failed to create budget", "error", err, "user_id", userID)
		return nil, internal.NewStoreError("failed to create budget", err)
	}
	b.ID = dataModel.ID

	s.logger.Info("budget created",
		"budget_id", b.ID,
		"user_id", userID,
		"category", b.Category,
		"month", b.Month,
		"year", b.Year)

	return b, nil
}

// GetBudgets lists a user's budgets. Month and year of zero mean no period
// filter, matching the listing endpoint's optional query parameters.
func (s *Service) GetBudgets(userID int64, month, year int) ([]*Budget, error) {
	var (
		dataModels []*budgetDatamodel.Budget
		err        error
	)

	if month != 0 && year != 0 {
		dataModels, err = s.repo.FindForPeriod(userID, month, year)
	} else {
		dataModels, err = s.repo.GetByUserID(userID)
	}
	if err != nil {
		s.logger.Error("failed to get budgets", "error", err, "user_id", userID)
		return nil, internal.NewStoreError("failed to get budgets", err)
	}

	return FromDataModelSlice(dataModels), nil
}

func (s *Service) UpdateBudget(id, userID int64, dto UpdateBudgetDTO) (*Budget, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("budget update validation failed", "error", err, "budget_id", id)
		return nil, err
	}

	dataModel, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dataModel.UserID != userID {
		s.logger.Warn("budget update denied", "budget_id", id, "user_id", userID)
		return nil, internal.ErrBudgetNotFound
	}

	if dto.Amount != nil {
		dataModel.Amount = *dto.Amount
	}
	if dto.PaymentMethod != nil {
		dataModel.PaymentMethod = *dto.PaymentMethod
	}

	if err := s.repo.Update(dataModel); err != nil {
		s.logger.Error("failed to update budget", "error", err, "budget_id", id)
		return nil, internal.NewStoreError("failed to update budget", err)
	}

	s.logger.Info("budget updated", "budget_id", id, "user_id", userID)
	return FromDataModel(dataModel), nil
}

func (s *Service) DeleteBudget(id, userID int64) error {
	dataModel, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if dataModel.UserID != userID {
		s.logger.Warn("budget delete denied", "budget_id", id, "user_id", userID)
		return internal.ErrBudgetNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete budget", "error", err, "budget_id", id)
		return internal.NewStoreError("failed to delete budget", err)
	}

	s.logger.Info("budget deleted", "budget_id", id, "user_id", userID)
	return nil
}

// Compare returns each budget line for the period side by side with the
// actual spending recorded in that calendar month. Nothing is persisted.
func (s *Service) Compare(userID int64, month, year int) ([]ComparisonRow, error) {
	if month < 1 || month > 12 {
		return nil, internal.NewValidationFieldError("month", "month must be between 1 and 12", internal.ErrCodeInvalidMonth)
	}
	if year < 1 {
		return nil, internal.NewValidationFieldError("year", "year must be a positive integer", internal.ErrCodeInvalidYear)
	}

	budgets, err := s.repo.FindForPeriod(userID, month, year)
	if err != nil {
		s.logger.Error("failed to get budgets for comparison", "error", err, "user_id", userID)
		return nil, internal.NewStoreError("failed to get budgets", err)
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)

	expenses, err := s.ledger.FindInRange(userID, start, end)
	if err != nil {
		s.logger.Error("failed to get expenses for comparison", "error", err, "user_id", userID)
		return nil, internal.NewStoreError("failed to get expenses", err)
	}

	spentByCategory := make(map[string]float64)
	for _, e := range expenses {
		spentByCategory[e.Category] += e.Amount
	}

	rows := make([]ComparisonRow, 0, len(budgets))
	for _, b := range budgets {
		spent := spentByCategory[b.Category]

		var pct float64
		if b.Amount > 0 {
			pct = math.Round(spent/b.Amount*100*100) / 100
		}

		rows = append(rows, ComparisonRow{
			Category:       b.Category,
			BudgetAmount:   b.Amount,
			ActualSpent:    spent,
			Remaining:      b.Amount - spent,
			PercentageUsed: pct,
			IsOverBudget:   spent > b.Amount,
		})
	}

	return rows, nil
}
