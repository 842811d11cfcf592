package postgres

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/finance-tracker/internal"
	reportDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/report"
	"github.com/frahmantamala/finance-tracker/internal/report"
)

func TestReportRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ReportRepository Suite")
}

var _ = Describe("ReportRepository", func() {
	var (
		db    *gorm.DB
		store report.StoreAPI
	)

	userID := int64(42)

	strPtr := func(s string) *string { return &s }

	sampleReport := func(year, month int) *report.MonthlyReport {
		return &report.MonthlyReport{
			UserID:       userID,
			Year:         year,
			Month:        month,
			TotalSpent:   400,
			TotalBudget:  400,
			TopCategory:  strPtr("Food"),
			BudgetStatus: report.StatusNearBudget,
			Categories: []*report.CategoryReport{
				{Category: "Food", AmountSpent: 350, BudgetAmount: 300, IsOverBudget: true, PercentageUsed: 116.67},
				{Category: "Transportation", AmountSpent: 50, BudgetAmount: 100, IsOverBudget: false, PercentageUsed: 50},
			},
		}
	}

	categoryRowCount := func() int64 {
		var count int64
		err := db.Model(&reportDatamodel.CategoryReport{}).Count(&count).Error
		Expect(err).NotTo(HaveOccurred())
		return count
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&reportDatamodel.MonthlyReport{}, &reportDatamodel.CategoryReport{})
		Expect(err).NotTo(HaveOccurred())

		store = NewReportRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("Upsert", func() {
		It("should insert a new report with its category rows", func() {
			stored, err := store.Upsert(sampleReport(2026, 5))

			Expect(err).NotTo(HaveOccurred())
			Expect(stored.ID).NotTo(BeZero())
			Expect(stored.Categories).To(HaveLen(2))
			for _, c := range stored.Categories {
				Expect(c.ReportID).To(Equal(stored.ID))
			}
		})

		It("should replace the previous report for the same key without leaving orphan rows", func() {
			first, err := store.Upsert(sampleReport(2026, 5))
			Expect(err).NotTo(HaveOccurred())

			replacement := sampleReport(2026, 5)
			replacement.TotalSpent = 90
			replacement.TopCategory = nil
			replacement.BudgetStatus = report.StatusUnderBudget
			replacement.Categories = []*report.CategoryReport{
				{Category: "Food", AmountSpent: 90, BudgetAmount: 300, PercentageUsed: 30},
			}

			second, err := store.Upsert(replacement)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).NotTo(Equal(first.ID))

			var headerCount int64
			err = db.Model(&reportDatamodel.MonthlyReport{}).Count(&headerCount).Error
			Expect(err).NotTo(HaveOccurred())
			Expect(headerCount).To(Equal(int64(1)))
			Expect(categoryRowCount()).To(Equal(int64(1)))

			fetched, err := store.GetOne(userID, 2026, 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(fetched.TotalSpent).To(Equal(90.0))
			Expect(fetched.TopCategory).To(BeNil())
			Expect(fetched.BudgetStatus).To(Equal(report.StatusUnderBudget))
		})

		It("should keep reports for different periods independent", func() {
			_, err := store.Upsert(sampleReport(2026, 5))
			Expect(err).NotTo(HaveOccurred())

			_, err = store.Upsert(sampleReport(2026, 6))
			Expect(err).NotTo(HaveOccurred())

			var headerCount int64
			err = db.Model(&reportDatamodel.MonthlyReport{}).Count(&headerCount).Error
			Expect(err).NotTo(HaveOccurred())
			Expect(headerCount).To(Equal(int64(2)))
			Expect(categoryRowCount()).To(Equal(int64(4)))
		})

		It("should store a report without category rows", func() {
			empty := sampleReport(2026, 5)
			empty.Categories = nil

			stored, err := store.Upsert(empty)

			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Categories).To(BeEmpty())
			Expect(categoryRowCount()).To(BeZero())
		})
	})

	Describe("GetOne", func() {
		It("should return not found when no report exists for the period", func() {
			result, err := store.GetOne(userID, 2026, 5)

			Expect(result).To(BeNil())
			Expect(err).To(Equal(internal.ErrReportNotFound))
		})

		It("should return the report with its category rows", func() {
			_, err := store.Upsert(sampleReport(2026, 5))
			Expect(err).NotTo(HaveOccurred())

			result, err := store.GetOne(userID, 2026, 5)

			Expect(err).NotTo(HaveOccurred())
			Expect(result.TotalSpent).To(Equal(400.0))
			Expect(result.Categories).To(HaveLen(2))
		})

		It("should not return another user's report", func() {
			_, err := store.Upsert(sampleReport(2026, 5))
			Expect(err).NotTo(HaveOccurred())

			result, err := store.GetOne(userID+1, 2026, 5)

			Expect(result).To(BeNil())
			Expect(err).To(Equal(internal.ErrReportNotFound))
		})
	})

	Describe("GetRecent", func() {
		BeforeEach(func() {
			for _, period := range []struct{ year, month int }{
				{2025, 11},
				{2025, 12},
				{2026, 1},
				{2026, 2},
			} {
				_, err := store.Upsert(sampleReport(period.year, period.month))
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("should return the newest periods first", func() {
			results, err := store.GetRecent(userID, 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(3))
			Expect(results[0].Year).To(Equal(2026))
			Expect(results[0].Month).To(Equal(2))
			Expect(results[1].Year).To(Equal(2026))
			Expect(results[1].Month).To(Equal(1))
			Expect(results[2].Year).To(Equal(2025))
			Expect(results[2].Month).To(Equal(12))
		})

		It("should return fewer reports when less exist than requested", func() {
			results, err := store.GetRecent(userID, 10)

			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(4))
		})

		It("should attach category rows to each report", func() {
			results, err := store.GetRecent(userID, 2)

			Expect(err).NotTo(HaveOccurred())
			for _, r := range results {
				Expect(r.Categories).To(HaveLen(2))
			}
		})

		It("should return an empty slice for a user with no reports", func() {
			results, err := store.GetRecent(userID+1, 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})
})
