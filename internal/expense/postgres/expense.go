package postgres

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
	"github.com/frahmantamala/finance-tracker/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements the expense.RepositoryAPI interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(exp *expenseDatamodel.Expense) error {
	return r.db.Create(exp).Error
}

func (r *ExpenseRepository) GetByID(id int64) (*expenseDatamodel.Expense, error) {
	var exp expenseDatamodel.Expense
	err := r.db.Where("id = ?", id).First(&exp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrExpenseNotFound
		}
		return nil, internal.NewStoreError("failed to read expense", err)
	}
	return &exp, nil
}

func (r *ExpenseRepository) GetByUserID(userID int64, limit, offset int) ([]*expenseDatamodel.Expense, error) {
	var expenses []*expenseDatamodel.Expense
	err := r.db.Where("user_id = ?", userID).
		Order("date DESC").
		Limit(limit).
		Offset(offset).
		Find(&expenses).Error
	return expenses, err
}

// FindInRange returns all expenses for a user whose date falls inside
// [start, end], inclusive. This is the snapshot read the report aggregator
// builds on.
func (r *ExpenseRepository) FindInRange(userID int64, start, end time.Time) ([]*expenseDatamodel.Expense, error) {
	var expenses []*expenseDatamodel.Expense
	err := r.db.Where("user_id = ? AND date >= ? AND date <= ?", userID, start, end).
		Order("date ASC, id ASC").
		Find(&expenses).Error
	return expenses, err
}

// SummarizeByCategory groups a user's expenses by category, highest total
// first. A nil start/end means no date restriction.
func (r *ExpenseRepository) SummarizeByCategory(userID int64, start, end *time.Time) ([]expense.CategorySummary, error) {
	q := r.db.Model(&expenseDatamodel.Expense{}).
		Select("category, SUM(amount) AS total, COUNT(*) AS count").
		Where("user_id = ?", userID)

	if start != nil && end != nil {
		q = q.Where("date >= ? AND date <= ?", *start, *end)
	}

	var rows []expense.CategorySummary
	err := q.Group("category").Order("total DESC").Scan(&rows).Error
	return rows, err
}

func (r *ExpenseRepository) Update(exp *expenseDatamodel.Expense) error {
	exp.UpdatedAt = time.Now()
	return r.db.Save(exp).Error
}

func (r *ExpenseRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&expenseDatamodel.Expense{}).Error
}
