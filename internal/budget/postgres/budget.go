package postgres

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/budget"
	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
	"gorm.io/gorm"
)

// BudgetRepository implements the budget.RepositoryAPI interface using GORM
type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) budget.RepositoryAPI {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(b *budgetDatamodel.Budget) error {
	return r.db.Create(b).Error
}

func (r *BudgetRepository) GetByID(id int64) (*budgetDatamodel.Budget, error) {
	var b budgetDatamodel.Budget
	err := r.db.Where("id = ?", id).First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrBudgetNotFound
		}
		return nil, internal.NewStoreError("failed to read budget", err)
	}
	return &b, nil
}

func (r *BudgetRepository) GetByUserID(userID int64) ([]*budgetDatamodel.Budget, error) {
	var budgets []*budgetDatamodel.Budget
	err := r.db.Where("user_id = ?", userID).
		Order("year DESC, month DESC, category ASC").
		Find(&budgets).Error
	return budgets, err
}

// FindForPeriod returns all budget lines a user defined for one calendar
// month. The report aggregator reads its budget snapshot through this.
func (r *BudgetRepository) FindForPeriod(userID int64, month, year int) ([]*budgetDatamodel.Budget, error) {
	var budgets []*budgetDatamodel.Budget
	err := r.db.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).
		Order("category ASC").
		Find(&budgets).Error
	return budgets, err
}

// GetByKey looks up the unique budget for (user, category, month, year).
// Returns nil without error when no such budget exists.
func (r *BudgetRepository) GetByKey(userID int64, category string, month, year int) (*budgetDatamodel.Budget, error) {
	var b budgetDatamodel.Budget
	err := r.db.Where("user_id = ? AND category = ? AND month = ? AND year = ?", userID, category, month, year).
		First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

func (r *BudgetRepository) Update(b *budgetDatamodel.Budget) error {
	b.UpdatedAt = time.Now()
	return r.db.Save(b).Error
}

func (r *BudgetRepository) Delete(id int64) error {
	return r.db.Where("id = ?", id).Delete(&budgetDatamodel.Budget{}).Error
}
