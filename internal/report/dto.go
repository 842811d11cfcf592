package report

import (
	"github.com/frahmantamala/finance-tracker/internal"
)

// GenerateReportDTO represents the request payload for report generation
type GenerateReportDTO struct {
	Year  int `json:"year" validate:"required,min=1"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

// Validate validates the GenerateReportDTO. Period bounds are checked here
// at the boundary; the aggregator assumes a valid period.
func (dto GenerateReportDTO) Validate() error {
	if dto.Year < 1 {
		return internal.NewValidationFieldError("year", "year must be a positive integer", internal.ErrCodeInvalidYear)
	}
	if dto.Month < 1 || dto.Month > 12 {
		return internal.NewValidationFieldError("month", "month must be between 1 and 12", internal.ErrCodeInvalidMonth)
	}
	return nil
}

// BatchResult is the aggregate outcome of a generate-for-all-users run.
type BatchResult struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}
