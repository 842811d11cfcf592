package expense

import (
	"log/slog"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
)

// RepositoryAPI defines the data access methods for expenses
type RepositoryAPI interface {
	Create(exp *expenseDatamodel.Expense) error
	GetByID(id int64) (*expenseDatamodel.Expense, error)
	GetByUserID(userID int64, limit, offset int) ([]*expenseDatamodel.Expense, error)
	FindInRange(userID int64, start, end time.Time) ([]*expenseDatamodel.Expense, error)
	SummarizeByCategory(userID int64, start, end *time.Time) ([]CategorySummary, error)
	Update(exp *expenseDatamodel.Expense) error
	Delete(id int64) error
}

// Service handles expense business logic
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) CreateExpense(userID int64, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	exp := NewExpense(userID, dto)

	dataModel := ToDataModel(exp)
	if err := s.repo.Create(dataModel); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", userID)
		return nil, internal.NewStoreError("failed to create expense", err)
	}
	exp.ID = dataModel.ID

	s.logger.Info("expense created",
		"expense_id", exp.ID,
		"user_id", userID,
		"amount", exp.Amount,
		"category", exp.Category)

	return exp, nil
}

func (s *Service) GetExpenseByID(id, userID int64) (*Expense, error) {
	dataModel, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	// Ownership check: another user's expense is reported as missing rather
	// than leaking its existence.
	if dataModel.UserID != userID {
		s.logger.Warn("expense access denied", "expense_id", id, "user_id", userID)
		return nil, internal.ErrExpenseNotFound
	}

	return FromDataModel(dataModel), nil
}

func (s *Service) GetUserExpenses(userID int64, limit, offset int) ([]*Expense, error) {
	dataModels, err := s.repo.GetByUserID(userID, limit, offset)
	if err != nil {
		s.logger.Error("failed to get user expenses", "error", err, "user_id", userID)
		return nil, internal.NewStoreError("failed to get expenses", err)
	}

	return FromDataModelSlice(dataModels), nil
}

func (s *Service) UpdateExpense(id, userID int64, dto UpdateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense update validation failed", "error", err, "expense_id", id)
		return nil, err
	}

	dataModel, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if dataModel.UserID != userID {
		s.logger.Warn("expense update denied", "expense_id", id, "user_id", userID)
		return nil, internal.ErrExpenseNotFound
	}

	if dto.Amount != nil {
		dataModel.Amount = *dto.Amount
	}
	if dto.Description != nil {
		dataModel.Description = *dto.Description
	}
	if dto.Category != nil {
		dataModel.Category = *dto.Category
	}
	if dto.Date != nil {
		dataModel.Date = *dto.Date
	}

	if err := s.repo.Update(dataModel); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", id)
		return nil, internal.NewStoreError("failed to update expense", err)
	}

	s.logger.Info("expense updated", "expense_id", id, "user_id", userID)
	return FromDataModel(dataModel), nil
}

func (s *Service) DeleteExpense(id, userID int64) error {
	dataModel, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if dataModel.UserID != userID {
		s.logger.Warn("expense delete denied", "expense_id", id, "user_id", userID)
		return internal.ErrExpenseNotFound
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", id)
		return internal.NewStoreError("failed to delete expense", err)
	}

	s.logger.Info("expense deleted", "expense_id", id, "user_id", userID)
	return nil
}

// GetSummary returns per-category totals, optionally restricted to a single
// calendar month when both month and year are provided.
func (s *Service) GetSummary(userID int64, month, year int) ([]CategorySummary, error) {
	var start, end *time.Time
	if month != 0 && year != 0 {
		if month < 1 || month > 12 {
			return nil, internal.NewValidationFieldError("month", "month must be between 1 and 12", internal.ErrCodeInvalidMonth)
		}
		if year < 1 {
			return nil, internal.NewValidationFieldError("year", "year must be a positive integer", internal.ErrCodeInvalidYear)
		}
		from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		to := from.AddDate(0, 1, 0).Add(-time.Nanosecond)
		start, end = &from, &to
	}

	summary, err := s.repo.SummarizeByCategory(userID, start, end)
	if err != nil {
		s.logger.Error("failed to summarize expenses", "error", err, "user_id", userID)
		return nil, internal.NewStoreError("failed to summarize expenses", err)
	}

	return summary, nil
}
