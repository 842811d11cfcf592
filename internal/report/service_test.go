package report_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/report"
)

type reportKey struct {
	userID int64
	year   int
	month  int
}

// Mock store for testing. Upsert is keyed like the real store so repeated
// generations overwrite instead of accumulating.
type mockReportStore struct {
	mu          sync.Mutex
	reports     map[reportKey]*report.MonthlyReport
	upsertError error
	upsertCalls int
	nextID      int64
}

func newMockReportStore() *mockReportStore {
	return &mockReportStore{
		reports: make(map[reportKey]*report.MonthlyReport),
		nextID:  1,
	}
}

func (m *mockReportStore) Upsert(r *report.MonthlyReport) (*report.MonthlyReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.upsertCalls++
	if m.upsertError != nil {
		return nil, m.upsertError
	}

	stored := *r
	stored.ID = m.nextID
	m.nextID++
	stored.CreatedAt = time.Now()
	m.reports[reportKey{r.UserID, r.Year, r.Month}] = &stored
	return &stored, nil
}

func (m *mockReportStore) GetOne(userID int64, year, month int) (*report.MonthlyReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.reports[reportKey{userID, year, month}]
	if !ok {
		return nil, internal.ErrReportNotFound
	}
	return r, nil
}

func (m *mockReportStore) GetRecent(userID int64, count int) ([]*report.MonthlyReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*report.MonthlyReport
	for key, r := range m.reports {
		if key.userID == userID {
			out = append(out, r)
		}
	}
	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

// Mock aggregator for testing
type mockAggregator struct {
	mu           sync.Mutex
	computeError error
	failForUsers map[int64]error
	computed     []reportKey
}

func (m *mockAggregator) ComputeMonthlyReport(userID int64, year, month int) (*report.MonthlyReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.computeError != nil {
		return nil, m.computeError
	}
	if err, ok := m.failForUsers[userID]; ok {
		return nil, err
	}

	m.computed = append(m.computed, reportKey{userID, year, month})
	return &report.MonthlyReport{
		UserID:       userID,
		Year:         year,
		Month:        month,
		BudgetStatus: report.StatusUnderBudget,
	}, nil
}

// Mock user directory for testing
type mockUserDirectory struct {
	userIDs   []int64
	listError error
}

func (m *mockUserDirectory) ListActiveUserIDs() ([]int64, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	return m.userIDs, nil
}

var _ = Describe("ReportService", func() {
	var (
		service    *report.Service
		store      *mockReportStore
		aggregator *mockAggregator
		users      *mockUserDirectory
		logger     *slog.Logger
	)

	userID := int64(7)

	BeforeEach(func() {
		store = newMockReportStore()
		aggregator = &mockAggregator{failForUsers: make(map[int64]error)}
		users = &mockUserDirectory{}
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = report.NewService(aggregator, store, users, internal.ReportConfig{BatchWorkers: 2, RecentDefault: 3}, logger)
	})

	Describe("GenerateForUser", func() {
		It("should compute and persist the report", func() {
			result, err := service.GenerateForUser(userID, 2026, 4)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.ID).ToNot(BeZero())
			Expect(result.UserID).To(Equal(userID))

			stored, err := store.GetOne(userID, 2026, 4)
			Expect(err).ToNot(HaveOccurred())
			Expect(stored.ID).To(Equal(result.ID))
		})

		It("should keep exactly one report per key when generated twice", func() {
			_, err := service.GenerateForUser(userID, 2026, 4)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.GenerateForUser(userID, 2026, 4)
			Expect(err).ToNot(HaveOccurred())

			Expect(store.upsertCalls).To(Equal(2))
			Expect(store.reports).To(HaveLen(1))
		})

		It("should reject an out-of-range month before touching the store", func() {
			result, err := service.GenerateForUser(userID, 2026, 13)

			Expect(result).To(BeNil())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			Expect(store.upsertCalls).To(BeZero())
		})

		It("should reject a non-positive year", func() {
			_, err := service.GenerateForUser(userID, 0, 5)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should propagate store failures", func() {
			store.upsertError = internal.NewStoreError("disk full", errors.New("disk full"))

			result, err := service.GenerateForUser(userID, 2026, 4)

			Expect(result).To(BeNil())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeStore))
		})
	})

	Describe("GenerateForAllUsers", func() {
		BeforeEach(func() {
			users.userIDs = []int64{1, 2, 3, 4, 5}
		})

		It("should generate one report per active user", func() {
			result, err := service.GenerateForAllUsers(context.Background(), 2026, 4)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Succeeded).To(Equal(5))
			Expect(result.Failed).To(BeZero())
			Expect(store.reports).To(HaveLen(5))
		})

		It("should isolate per-user failures and keep going", func() {
			aggregator.failForUsers[3] = internal.NewStoreError("read failed", errors.New("read failed"))

			result, err := service.GenerateForAllUsers(context.Background(), 2026, 4)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Succeeded).To(Equal(4))
			Expect(result.Failed).To(Equal(1))

			_, getErr := store.GetOne(3, 2026, 4)
			Expect(getErr).To(Equal(internal.ErrReportNotFound))
		})

		It("should fail the whole batch when the user listing fails", func() {
			users.listError = errors.New("users table gone")

			result, err := service.GenerateForAllUsers(context.Background(), 2026, 4)

			Expect(result).To(BeNil())
			Expect(err).To(HaveOccurred())
		})

		It("should validate the period before listing users", func() {
			users.listError = errors.New("should never be reached")

			result, err := service.GenerateForAllUsers(context.Background(), 2026, 0)

			Expect(result).To(BeNil())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("should succeed with zero users", func() {
			users.userIDs = nil

			result, err := service.GenerateForAllUsers(context.Background(), 2026, 4)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.Succeeded).To(BeZero())
			Expect(result.Failed).To(BeZero())
		})
	})

	Describe("GetReport", func() {
		It("should return the stored report", func() {
			_, err := service.GenerateForUser(userID, 2026, 4)
			Expect(err).ToNot(HaveOccurred())

			result, err := service.GetReport(userID, 2026, 4)

			Expect(err).ToNot(HaveOccurred())
			Expect(result.UserID).To(Equal(userID))
		})

		It("should return not found for a period that was never generated", func() {
			_, err := service.GetReport(userID, 2026, 4)

			Expect(err).To(Equal(internal.ErrReportNotFound))
		})

		It("should reject an invalid month", func() {
			_, err := service.GetReport(userID, 2026, 0)

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("GetRecentReports", func() {
		It("should fall back to the configured default for a zero count", func() {
			for month := 1; month <= 5; month++ {
				_, err := service.GenerateForUser(userID, 2026, month)
				Expect(err).ToNot(HaveOccurred())
			}

			result, err := service.GetRecentReports(userID, 0)

			Expect(err).ToNot(HaveOccurred())
			Expect(result).To(HaveLen(3))
		})

		It("should reject a negative count", func() {
			result, err := service.GetRecentReports(userID, -1)

			Expect(result).To(BeNil())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("PreviousMonth", func() {
		It("should step back within the same year", func() {
			year, month := report.PreviousMonth(time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC))
			Expect(year).To(Equal(2026))
			Expect(month).To(Equal(6))
		})

		It("should roll over the year boundary in January", func() {
			year, month := report.PreviousMonth(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC))
			Expect(year).To(Equal(2025))
			Expect(month).To(Equal(12))
		})
	})
})
