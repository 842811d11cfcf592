package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	budgetPostgres "github.com/frahmantamala/finance-tracker/internal/budget/postgres"
	expensePostgres "github.com/frahmantamala/finance-tracker/internal/expense/postgres"
	"github.com/frahmantamala/finance-tracker/internal/report"
	reportPostgres "github.com/frahmantamala/finance-tracker/internal/report/postgres"
	"github.com/frahmantamala/finance-tracker/internal/user"
	userPostgres "github.com/frahmantamala/finance-tracker/internal/user/postgres"
	"github.com/spf13/cobra"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Start the monthly report scheduler",
	Long:  `Start the scheduler that generates last month's spending reports for all active users on a monthly cadence.`,
	Run: func(cmd *cobra.Command, args []string) {
		startScheduler()
	},
}

var schedulerOnce bool

func init() {
	schedulerCmd.Flags().BoolVar(&schedulerOnce, "once", false, "Run one generation pass immediately and exit")
}

func startScheduler() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	reportService := buildReportService(deps)
	lg := deps.Logger

	if schedulerOnce {
		runGenerationPass(context.Background(), reportService, lg)
		if err := deps.DB.Close(); err != nil {
			lg.Error("database close error", "error", err)
		}
		return
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	lg.Info("report scheduler started",
		"run_day", deps.Config.Scheduler.RunDay,
		"run_hour", deps.Config.Scheduler.RunHour)

	for {
		next := nextRun(time.Now().UTC(), deps.Config.Scheduler)
		lg.Info("next scheduled generation", "at", next)

		timer := time.NewTimer(time.Until(next))

		select {
		case sig := <-sigChan:
			timer.Stop()
			lg.Info("received signal, stopping scheduler", "signal", sig)
			cancel()
			if err := deps.DB.Close(); err != nil {
				lg.Error("database close error", "error", err)
			}
			return
		case <-timer.C:
			runGenerationPass(ctx, reportService, lg)
		}
	}
}

// nextRun resolves the next configured fire time strictly after now. RunDay
// is capped at 28 in config validation so every month has the day.
func nextRun(now time.Time, cfg internal.SchedulerConfig) time.Time {
	candidate := time.Date(now.Year(), now.Month(), cfg.RunDay, cfg.RunHour, 0, 0, 0, time.UTC)
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 1, 0)
	}
	return candidate
}

// runGenerationPass generates the previous month's reports for every active
// user. Failures are already isolated per user inside the service.
func runGenerationPass(ctx context.Context, svc *report.Service, lg *slog.Logger) {
	year, month := report.PreviousMonth(time.Now().UTC())

	lg.Info("scheduled report generation starting", "year", year, "month", month)

	result, err := svc.GenerateForAllUsers(ctx, year, month)
	if err != nil {
		lg.Error("scheduled report generation failed", "error", err, "year", year, "month", month)
		return
	}

	lg.Info("scheduled report generation finished",
		"year", year,
		"month", month,
		"succeeded", result.Succeeded,
		"failed", result.Failed)
}

func buildReportService(deps *Dependencies) *report.Service {
	expenseRepo := expensePostgres.NewExpenseRepository(deps.GormDB)
	budgetRepo := budgetPostgres.NewBudgetRepository(deps.GormDB)
	reportStore := reportPostgres.NewReportRepository(deps.GormDB)
	userService := user.NewService(userPostgres.NewUserRepository(deps.GormDB), deps.Logger)

	aggregator := report.NewAggregator(expenseRepo, budgetRepo, deps.Logger)
	return report.NewService(aggregator, reportStore, userService, deps.Config.Report, deps.Logger)
}
