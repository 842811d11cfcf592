package report_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/report"
)

var _ = Describe("Report Handler", func() {
	var (
		handler    *report.Handler
		store      *mockReportStore
		aggregator *mockAggregator
		users      *mockUserDirectory
	)

	userID := int64(7)

	withIdentity := func(req *http.Request) *http.Request {
		return req.WithContext(internal.ContextWithUserID(req.Context(), userID))
	}

	withURLParams := func(req *http.Request, params map[string]string) *http.Request {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	BeforeEach(func() {
		store = newMockReportStore()
		aggregator = &mockAggregator{failForUsers: make(map[int64]error)}
		users = &mockUserDirectory{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := report.NewService(aggregator, store, users, internal.ReportConfig{BatchWorkers: 1, RecentDefault: 3}, logger)
		handler = report.NewHandler(service)
	})

	Describe("POST /reports/generate", func() {
		It("should generate and return the report", func() {
			body := strings.NewReader(`{"year": 2026, "month": 4}`)
			req := withIdentity(httptest.NewRequest(http.MethodPost, "/reports/generate", body))
			w := httptest.NewRecorder()

			handler.GenerateReport(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))

			var resp report.MonthlyReport
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.UserID).To(Equal(userID))
			Expect(resp.Year).To(Equal(2026))
			Expect(resp.Month).To(Equal(4))
		})

		It("should reject an invalid period with a 400", func() {
			body := strings.NewReader(`{"year": 2026, "month": 13}`)
			req := withIdentity(httptest.NewRequest(http.MethodPost, "/reports/generate", body))
			w := httptest.NewRecorder()

			handler.GenerateReport(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a malformed body", func() {
			body := strings.NewReader(`{"year": `)
			req := withIdentity(httptest.NewRequest(http.MethodPost, "/reports/generate", body))
			w := httptest.NewRecorder()

			handler.GenerateReport(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a request without identity", func() {
			body := strings.NewReader(`{"year": 2026, "month": 4}`)
			req := httptest.NewRequest(http.MethodPost, "/reports/generate", body)
			w := httptest.NewRecorder()

			handler.GenerateReport(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("GET /reports/{year}/{month}", func() {
		It("should return the stored report", func() {
			_, err := store.Upsert(&report.MonthlyReport{
				UserID: userID, Year: 2026, Month: 4,
				BudgetStatus: report.StatusUnderBudget,
			})
			Expect(err).NotTo(HaveOccurred())

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/reports/2026/4", nil))
			req = withURLParams(req, map[string]string{"year": "2026", "month": "4"})
			w := httptest.NewRecorder()

			handler.GetMonthlyReport(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp report.MonthlyReport
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.BudgetStatus).To(Equal(report.StatusUnderBudget))
		})

		It("should return 404 when no report exists for the period", func() {
			req := withIdentity(httptest.NewRequest(http.MethodGet, "/reports/2026/4", nil))
			req = withURLParams(req, map[string]string{"year": "2026", "month": "4"})
			w := httptest.NewRecorder()

			handler.GetMonthlyReport(w, req)

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should reject a non-numeric month", func() {
			req := withIdentity(httptest.NewRequest(http.MethodGet, "/reports/2026/april", nil))
			req = withURLParams(req, map[string]string{"year": "2026", "month": "april"})
			w := httptest.NewRecorder()

			handler.GetMonthlyReport(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /reports/recent", func() {
		It("should return the stored reports", func() {
			for month := 1; month <= 2; month++ {
				_, err := store.Upsert(&report.MonthlyReport{
					UserID: userID, Year: 2026, Month: month,
					BudgetStatus: report.StatusUnderBudget,
				})
				Expect(err).NotTo(HaveOccurred())
			}

			req := withIdentity(httptest.NewRequest(http.MethodGet, "/reports/recent", nil))
			w := httptest.NewRecorder()

			handler.GetRecentReports(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))

			var resp []*report.MonthlyReport
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp).To(HaveLen(2))
		})

		It("should reject a non-numeric count", func() {
			req := withIdentity(httptest.NewRequest(http.MethodGet, "/reports/recent?count=many", nil))
			w := httptest.NewRecorder()

			handler.GetRecentReports(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})
})
