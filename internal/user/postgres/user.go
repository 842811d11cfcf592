package postgres

import (
	"github.com/frahmantamala/finance-tracker/internal"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"gorm.io/gorm"
)

// UserRepository implements the user.RepositoryAPI interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(id int64) (*user.User, error) {
	var dm userDatamodel.User
	err := r.db.First(&dm, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewStoreError("failed to read user", err)
	}
	return user.FromDataModel(&dm), nil
}

func (r *UserRepository) ListActiveIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&userDatamodel.User{}).
		Where("is_active = ?", true).
		Order("id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, internal.NewStoreError("failed to list active users", err)
	}
	return ids, nil
}
