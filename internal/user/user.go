package user

import (
	"time"

	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
)

// User is an account the tracker keeps ledgers and reports for. Accounts are
// provisioned out of band; this service only reads them.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromDataModel(dm *userDatamodel.User) *User {
	return &User{
		ID:        dm.ID,
		Email:     dm.Email,
		Name:      dm.Name,
		IsActive:  dm.IsActive,
		CreatedAt: dm.CreatedAt,
	}
}
