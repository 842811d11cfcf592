package cmd

import (
	"fmt"
	"log"
	"time"

	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
	expenseDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/expense"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		deps, err := initializeDependencies()
		if err != nil {
			log.Fatalf("failed to initialize dependencies: %v", err)
		}
		defer deps.DB.Close()

		db := deps.GormDB

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"category_reports", "monthly_reports", "budgets", "expenses", "users"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
		}

		users := []userDatamodel.User{
			{Email: "fadhil@mail.com", Name: "Fadhil", IsActive: true},
			{Email: "rania@mail.com", Name: "Rania", IsActive: true},
			{Email: "dormant@mail.com", Name: "Dormant Account", IsActive: false},
		}

		for i := range users {
			if err := seedUser(db, &users[i]); err != nil {
				log.Fatalf("failed to seed user %s: %v", users[i].Email, err)
			}
		}

		now := time.Now().UTC()
		month, year := int(now.Month()), now.Year()
		monthStart := time.Date(year, now.Month(), 1, 0, 0, 0, 0, time.UTC)

		expenses := []expenseDatamodel.Expense{
			{UserID: users[0].ID, Amount: 250, Description: "Weekly groceries", Category: "Food", Date: monthStart.AddDate(0, 0, 2)},
			{UserID: users[0].ID, Amount: 600, Description: "More groceries", Category: "Food", Date: monthStart.AddDate(0, 0, 9)},
			{UserID: users[0].ID, Amount: 150, Description: "Bus pass", Category: "Transportation", Date: monthStart.AddDate(0, 0, 4)},
			{UserID: users[1].ID, Amount: 1200, Description: "Monthly rent", Category: "Housing", Date: monthStart.AddDate(0, 0, 1)},
			{UserID: users[1].ID, Amount: 90, Description: "Streaming and cinema", Category: "Entertainment", Date: monthStart.AddDate(0, 0, 12)},
		}

		for i := range expenses {
			if err := db.Create(&expenses[i]).Error; err != nil {
				log.Fatalf("failed to seed expense: %v", err)
			}
		}
		fmt.Printf("Seeded %d expenses\n", len(expenses))

		budgets := []budgetDatamodel.Budget{
			{UserID: users[0].ID, Category: "Food", Amount: 750, PaymentMethod: "Debit Card", Month: month, Year: year},
			{UserID: users[0].ID, Category: "Transportation", Amount: 300, PaymentMethod: "Cash", Month: month, Year: year},
			{UserID: users[1].ID, Category: "Housing", Amount: 1300, PaymentMethod: "Bank Transfer", Month: month, Year: year},
			{UserID: users[1].ID, Category: "Entertainment", Amount: 100, PaymentMethod: "Credit Card", Month: month, Year: year},
		}

		for i := range budgets {
			if err := seedBudget(db, &budgets[i]); err != nil {
				log.Fatalf("failed to seed budget: %v", err)
			}
		}
		fmt.Printf("Seeded %d budgets\n", len(budgets))

		fmt.Println("Database seeded successfully")
	},
}

func seedUser(db *gorm.DB, u *userDatamodel.User) error {
	var existing userDatamodel.User
	err := db.Where("email = ?", u.Email).First(&existing).Error
	if err == nil {
		fmt.Printf("User %s already exists, skipping\n", u.Email)
		*u = existing
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	if err := db.Create(u).Error; err != nil {
		return err
	}
	fmt.Printf("Seeded user: %s\n", u.Email)
	return nil
}

func seedBudget(db *gorm.DB, b *budgetDatamodel.Budget) error {
	var existing budgetDatamodel.Budget
	err := db.Where("user_id = ? AND category = ? AND month = ? AND year = ?",
		b.UserID, b.Category, b.Month, b.Year).First(&existing).Error
	if err == nil {
		*b = existing
		return nil
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}

	return db.Create(b).Error
}
