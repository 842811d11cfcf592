package postgres

import (
	"github.com/frahmantamala/finance-tracker/internal"
	reportDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/report"
	"github.com/frahmantamala/finance-tracker/internal/report"
	"gorm.io/gorm"
)

// ReportRepository implements the report.StoreAPI interface using GORM
type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.StoreAPI {
	return &ReportRepository{db: db}
}

// Upsert replaces any stored report for (user, year, month) and all of its
// category rows inside one transaction. Either the new header and every row
// land together or the previous state survives untouched; a header without
// its rows can never be observed.
func (r *ReportRepository) Upsert(rep *report.MonthlyReport) (*report.MonthlyReport, error) {
	header, rows := report.ToDataModel(rep)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing reportDatamodel.MonthlyReport
		err := tx.Where("user_id = ? AND year = ? AND month = ?", header.UserID, header.Year, header.Month).
			First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Where("report_id = ?", existing.ID).
				Delete(&reportDatamodel.CategoryReport{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
		case err != gorm.ErrRecordNotFound:
			return err
		}

		if err := tx.Create(header).Error; err != nil {
			return err
		}

		for _, row := range rows {
			row.ReportID = header.ID
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, internal.NewStoreError("failed to upsert report", err)
	}

	return report.FromDataModel(header, rows), nil
}

func (r *ReportRepository) GetOne(userID int64, year, month int) (*report.MonthlyReport, error) {
	var header reportDatamodel.MonthlyReport
	err := r.db.Where("user_id = ? AND year = ? AND month = ?", userID, year, month).
		First(&header).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrReportNotFound
		}
		return nil, internal.NewStoreError("failed to read report", err)
	}

	rows, err := r.categoryRows(header.ID)
	if err != nil {
		return nil, err
	}

	return report.FromDataModel(&header, rows), nil
}

// GetRecent returns up to count reports ordered by (year, month) descending,
// each with its category rows attached.
func (r *ReportRepository) GetRecent(userID int64, count int) ([]*report.MonthlyReport, error) {
	var headers []*reportDatamodel.MonthlyReport
	err := r.db.Where("user_id = ?", userID).
		Order("year DESC, month DESC").
		Limit(count).
		Find(&headers).Error
	if err != nil {
		return nil, internal.NewStoreError("failed to read recent reports", err)
	}

	reports := make([]*report.MonthlyReport, len(headers))
	for i, header := range headers {
		rows, err := r.categoryRows(header.ID)
		if err != nil {
			return nil, err
		}
		reports[i] = report.FromDataModel(header, rows)
	}

	return reports, nil
}

func (r *ReportRepository) categoryRows(reportID int64) ([]*reportDatamodel.CategoryReport, error) {
	var rows []*reportDatamodel.CategoryReport
	err := r.db.Where("report_id = ?", reportID).
		Order("category ASC").
		Find(&rows).Error
	if err != nil {
		return nil, internal.NewStoreError("failed to read category reports", err)
	}
	return rows, nil
}
