package report

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"golang.org/x/sync/errgroup"
)

// StoreAPI is the keyed report store. Upsert replaces any existing report
// for the same (user, year, month) together with all of its category rows
// in one transaction.
type StoreAPI interface {
	Upsert(report *MonthlyReport) (*MonthlyReport, error)
	GetOne(userID int64, year, month int) (*MonthlyReport, error)
	GetRecent(userID int64, count int) ([]*MonthlyReport, error)
}

// AggregatorAPI computes a report from ledger snapshots without persisting.
type AggregatorAPI interface {
	ComputeMonthlyReport(userID int64, year, month int) (*MonthlyReport, error)
}

// UserDirectory lists the users the batch run generates reports for.
type UserDirectory interface {
	ListActiveUserIDs() ([]int64, error)
}

// Service orchestrates report generation and lookup.
type Service struct {
	aggregator AggregatorAPI
	store      StoreAPI
	users      UserDirectory
	cfg        internal.ReportConfig
	logger     *slog.Logger
}

func NewService(aggregator AggregatorAPI, store StoreAPI, users UserDirectory, cfg internal.ReportConfig, logger *slog.Logger) *Service {
	if cfg.BatchWorkers < 1 {
		cfg.BatchWorkers = 1
	}
	if cfg.RecentDefault < 1 {
		cfg.RecentDefault = 3
	}
	return &Service{
		aggregator: aggregator,
		store:      store,
		users:      users,
		cfg:        cfg,
		logger:     logger,
	}
}

// GenerateForUser computes and persists the report for one user and period.
// Regenerating an existing key overwrites it; concurrent generations for the
// same key are last-writer-wins through the store's atomic upsert, not
// serialized.
func (s *Service) GenerateForUser(userID int64, year, month int) (*MonthlyReport, error) {
	dto := GenerateReportDTO{Year: year, Month: month}
	if err := dto.Validate(); err != nil {
		s.logger.Error("report generation validation failed", "error", err, "user_id", userID)
		return nil, err
	}

	computed, err := s.aggregator.ComputeMonthlyReport(userID, year, month)
	if err != nil {
		return nil, err
	}

	persisted, err := s.store.Upsert(computed)
	if err != nil {
		s.logger.Error("failed to persist report", "error", err, "user_id", userID, "year", year, "month", month)
		return nil, err
	}

	s.logger.Info("report generated",
		"user_id", userID,
		"year", year,
		"month", month,
		"total_spent", persisted.TotalSpent,
		"total_budget", persisted.TotalBudget,
		"budget_status", persisted.BudgetStatus)

	return persisted, nil
}

// GenerateCurrentMonth generates the report for the month that is in
// progress right now.
func (s *Service) GenerateCurrentMonth(userID int64) (*MonthlyReport, error) {
	now := time.Now().UTC()
	return s.GenerateForUser(userID, now.Year(), int(now.Month()))
}

// PreviousMonth resolves the calendar month before the one containing t.
func PreviousMonth(t time.Time) (year, month int) {
	year, m := t.Year(), int(t.Month())
	if m == 1 {
		return year - 1, 12
	}
	return year, m - 1
}

// GenerateForAllUsers runs GenerateForUser for every active user with a
// bounded worker pool. One user's failure is logged and counted but never
// aborts the batch; per-user writes are independently keyed so the pool is
// safe.
func (s *Service) GenerateForAllUsers(ctx context.Context, year, month int) (*BatchResult, error) {
	dto := GenerateReportDTO{Year: year, Month: month}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	userIDs, err := s.users.ListActiveUserIDs()
	if err != nil {
		s.logger.Error("failed to list users for batch generation", "error", err)
		return nil, internal.NewStoreError("failed to list users", err)
	}

	s.logger.Info("starting batch report generation",
		"year", year,
		"month", month,
		"users", len(userIDs),
		"workers", s.cfg.BatchWorkers)

	var (
		mu     sync.Mutex
		result BatchResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.BatchWorkers)

	for _, userID := range userIDs {
		userID := userID
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				result.Failed++
				mu.Unlock()
				return nil
			}

			_, genErr := s.GenerateForUser(userID, year, month)

			mu.Lock()
			defer mu.Unlock()
			if genErr != nil {
				s.logger.Error("batch report generation failed for user",
					"error", genErr,
					"user_id", userID,
					"year", year,
					"month", month)
				result.Failed++
			} else {
				result.Succeeded++
			}
			return nil
		})
	}

	// Workers swallow their own errors, so Wait only reflects pool shutdown.
	_ = g.Wait()

	s.logger.Info("batch report generation completed",
		"year", year,
		"month", month,
		"succeeded", result.Succeeded,
		"failed", result.Failed)

	return &result, nil
}

func (s *Service) GetReport(userID int64, year, month int) (*MonthlyReport, error) {
	dto := GenerateReportDTO{Year: year, Month: month}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	return s.store.GetOne(userID, year, month)
}

// MaxRecentReports bounds how many reports a single listing may return.
const MaxRecentReports = 60

// GetRecentReports returns up to count reports, most recent period first.
// A count of zero falls back to the configured default.
func (s *Service) GetRecentReports(userID int64, count int) ([]*MonthlyReport, error) {
	if count == 0 {
		count = s.cfg.RecentDefault
	}
	if count < 1 {
		return nil, internal.NewValidationFieldError("count", "count must be a positive integer", internal.ErrCodeInvalidCount)
	}
	if count > MaxRecentReports {
		count = MaxRecentReports
	}

	return s.store.GetRecent(userID, count)
}
