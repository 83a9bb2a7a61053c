package repository

import (
	"github.com/unclebandit/marketdesk-backend/internal/model"
)

type ReportRepositoryInterface interface {
	Create(r *model.Report) error
	GetByID(id int) (*model.Report, error)
	List() ([]*model.Report, error)
	Update(id int, fn func(r *model.Report) error) (*model.Report, error)

	ListScheduled() ([]*model.ScheduledReport, error)
	GetScheduled(id int) (*model.ScheduledReport, error)
	UpdateScheduled(id int, fn func(s *model.ScheduledReport) error) (*model.ScheduledReport, error)
	DeleteScheduled(id int) error
}

type ReportRepository struct {
	reports   *table[model.Report]
	scheduled *table[model.ScheduledReport]
}

func NewReportRepository(reports []model.Report, scheduled []model.ScheduledReport) *ReportRepository {
	r := &ReportRepository{
		reports: newTable("report",
			func(r *model.Report) int { return r.ID },
			func(r *model.Report, id int) { r.ID = id },
			nil),
		scheduled: newTable("scheduled report",
			func(s *model.ScheduledReport) int { return s.ID },
			func(s *model.ScheduledReport, id int) { s.ID = id },
			func(s *model.ScheduledReport) *model.ScheduledReport {
				c := *s
				c.Recipients = append([]string(nil), s.Recipients...)
				return &c
			}),
	}
	r.reports.seed(reports)
	r.scheduled.seed(scheduled)
	return r
}

func (r *ReportRepository) Create(rep *model.Report) error {
	r.reports.insert(rep)
	return nil
}

func (r *ReportRepository) GetByID(id int) (*model.Report, error) {
	return r.reports.get(id)
}

func (r *ReportRepository) List() ([]*model.Report, error) {
	return r.reports.all(), nil
}

// Update changes an existing report (status, size, content, last_error)
func (r *ReportRepository) Update(id int, fn func(rep *model.Report) error) (*model.Report, error) {
	return r.reports.update(id, fn)
}

func (r *ReportRepository) ListScheduled() ([]*model.ScheduledReport, error) {
	return r.scheduled.all(), nil
}

func (r *ReportRepository) GetScheduled(id int) (*model.ScheduledReport, error) {
	return r.scheduled.get(id)
}

func (r *ReportRepository) UpdateScheduled(id int, fn func(s *model.ScheduledReport) error) (*model.ScheduledReport, error) {
	return r.scheduled.update(id, fn)
}

func (r *ReportRepository) DeleteScheduled(id int) error {
	_, err := r.scheduled.remove(id)
	return err
}

var _ ReportRepositoryInterface = (*ReportRepository)(nil)
