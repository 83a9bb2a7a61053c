package service

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/report"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
	"github.com/unclebandit/marketdesk-backend/internal/validation"
)

var reportTypeLabels = map[string]string{
	"web":       "Website analytics",
	"crm":       "CRM",
	"email":     "Email marketing",
	"social":    "Social media",
	"monthly":   "Monthly",
	"quarterly": "Quarterly",
	"campaign":  "Campaign",
	"leads":     "Leads",
}

type ReportService struct {
	ReportRepo   repository.ReportRepositoryInterface
	LeadRepo     repository.LeadRepositoryInterface
	CampaignRepo repository.CampaignRepositoryInterface
	SocialRepo   repository.SocialRepositoryInterface
	Snapshots    repository.SnapshotRepositoryInterface
	Queue        queue.Queue
	Logger       *zap.Logger
	Now          func() time.Time
}

type ReportForm struct {
	Name   string `json:"name" validate:"max=100"`
	Type   string `json:"type" validate:"required,oneof=web crm email social"`
	Period string `json:"period" validate:"required,oneof=last_7_days last_30_days last_90_days this_month last_month custom"`
	From   string `json:"from" validate:"omitempty,isodate"`
	To     string `json:"to" validate:"omitempty,isodate"`
}

type ScheduledReportForm struct {
	Name       string   `json:"name" validate:"required,min=3,max=100"`
	Frequency  string   `json:"frequency" validate:"required,max=100"`
	Recipients []string `json:"recipients" validate:"min=1,dive,required,email"`
}

func (s *ReportService) logger() *zap.Logger {
	return loggerOrNop(s.Logger)
}

func (s *ReportService) ListReports() ([]*model.Report, error) {
	return s.ReportRepo.List()
}

func (s *ReportService) GetReport(id int) (*model.Report, error) {
	return s.ReportRepo.GetByID(id)
}

func (s *ReportService) ListScheduled() ([]*model.ScheduledReport, error) {
	return s.ReportRepo.ListScheduled()
}

// UpdateScheduled replaces the editable fields of a scheduled report.
func (s *ReportService) UpdateScheduled(id int, form ScheduledReportForm) (*model.ScheduledReport, error) {
	trimAll(&form.Name, &form.Frequency)
	for i := range form.Recipients {
		form.Recipients[i] = strings.TrimSpace(form.Recipients[i])
	}
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	return s.ReportRepo.UpdateScheduled(id, func(sr *model.ScheduledReport) error {
		sr.Name = form.Name
		sr.Frequency = form.Frequency
		sr.Recipients = append([]string(nil), form.Recipients...)
		return nil
	})
}

func (s *ReportService) DeleteScheduled(id int) error {
	if err := s.ReportRepo.DeleteScheduled(id); err != nil {
		return err
	}
	s.logger().Info("scheduled report deleted", zap.Int("scheduled_report_id", id))
	return nil
}

// Generate queues a custom report. It is stored as generating and becomes
// ready once the report subscriber has rendered it.
func (s *ReportService) Generate(form ReportForm) (*model.Report, error) {
	trimAll(&form.Name, &form.Type, &form.Period, &form.From, &form.To)
	err := validation.Struct(form)
	if form.Period == "custom" {
		err = validation.Merge(err, checkCustomRange(form.From, form.To))
	}
	if err != nil {
		return nil, err
	}

	rep := &model.Report{
		Name:   form.Name,
		Type:   form.Type,
		Date:   nowFrom(s.Now),
		Status: model.ReportGenerating,
		Size:   "-",
		Period: form.Period,
	}
	if form.Period == "custom" {
		rep.From, rep.To = form.From, form.To
	}
	if rep.Name == "" {
		rep.Name = fmt.Sprintf("%s report (%s)", reportTypeLabels[rep.Type], report.PeriodLabel(rep))
	}
	if err := s.ReportRepo.Create(rep); err != nil {
		return nil, err
	}
	s.logger().Info("report queued", zap.Int("report_id", rep.ID), zap.String("type", rep.Type))

	if s.Queue == nil {
		return s.completeInline(rep.ID)
	}
	if err := s.Queue.Publish(queue.TopicReportGenerate, queue.ReportJob{ReportID: rep.ID}); err != nil {
		s.logger().Warn("report job not queued, rendering inline", zap.Int("report_id", rep.ID), zap.Error(err))
		return s.completeInline(rep.ID)
	}
	return rep, nil
}

func (s *ReportService) completeInline(id int) (*model.Report, error) {
	if err := s.CompleteReport(id); err != nil {
		return nil, err
	}
	return s.ReportRepo.GetByID(id)
}

func checkCustomRange(from, to string) map[string]string {
	fields := map[string]string{}
	if from == "" {
		fields["from"] = "from is required for a custom period"
	}
	if to == "" {
		fields["to"] = "to is required for a custom period"
	}
	if len(fields) > 0 {
		return fields
	}
	f, errFrom := time.Parse("2006-01-02", from)
	t, errTo := time.Parse("2006-01-02", to)
	if errFrom == nil && errTo == nil && f.After(t) {
		fields["to"] = "to must not be before from"
	}
	return fields
}

// CompleteReport renders a queued report and stores the result. A render
// failure marks the report failed and is not retried.
func (s *ReportService) CompleteReport(id int) error {
	rep, err := s.ReportRepo.GetByID(id)
	if err != nil {
		return err
	}
	if rep.Status == model.ReportReady {
		return nil
	}

	content, renderErr := s.render(rep)
	_, err = s.ReportRepo.Update(id, func(r *model.Report) error {
		if renderErr != nil {
			r.Status = model.ReportFailed
			r.LastError = renderErr.Error()
			return nil
		}
		r.Status = model.ReportReady
		r.Content = content
		r.Size = report.Size(len(content))
		r.LastError = ""
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "store report %d", id)
	}

	if renderErr != nil {
		s.logger().Warn("report failed", zap.Int("report_id", id), zap.Error(renderErr))
	}
	return nil
}

func (s *ReportService) render(rep *model.Report) (string, error) {
	snap, err := s.snapshot()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := report.NewMarkdownWriter(&buf).WriteReport(rep, snap); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *ReportService) snapshot() (*report.Snapshot, error) {
	snap := &report.Snapshot{Generated: nowFrom(s.Now)}
	var err error
	if s.LeadRepo != nil {
		if snap.Leads, _, err = s.LeadRepo.List(repository.LeadFilter{}); err != nil {
			return nil, err
		}
	}
	if s.CampaignRepo != nil {
		if snap.Campaigns, err = s.CampaignRepo.All(); err != nil {
			return nil, err
		}
	}
	if s.SocialRepo != nil {
		if snap.Posts, err = s.SocialRepo.List("", ""); err != nil {
			return nil, err
		}
		snap.Accounts = s.SocialRepo.Accounts()
	}
	if s.Snapshots != nil {
		snap.Analytics = s.Snapshots.Analytics()
	}
	return snap, nil
}

// Download returns a ready report as Markdown. Seeded reports carry no
// content, so theirs is rendered on demand.
func (s *ReportService) Download(id int) (filename string, content []byte, err error) {
	rep, err := s.ReportRepo.GetByID(id)
	if err != nil {
		return "", nil, err
	}
	if rep.Status != model.ReportReady {
		return "", nil, appErrors.InvalidState("report %d is %s", id, rep.Status)
	}

	body := rep.Content
	if body == "" {
		if body, err = s.render(rep); err != nil {
			return "", nil, errors.Wrapf(err, "render report %d", id)
		}
	}
	return fmt.Sprintf("report-%d.md", id), []byte(body), nil
}
