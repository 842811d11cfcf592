package expense

import "time"

type Expense struct {
	ID          int64     `gorm:"primaryKey"`
	UserID      int64     `gorm:"column:user_id;not null;index"`
	Amount      float64   `gorm:"column:amount;not null"`
	Description string    `gorm:"column:description;not null"`
	Category    string    `gorm:"column:category;not null"`
	Date        time.Time `gorm:"column:date;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Expense) TableName() string {
	return "expenses"
}
