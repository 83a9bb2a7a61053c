// internal/service/campaign_service.go
package service

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
	"github.com/unclebandit/marketdesk-backend/internal/validation"
)

type CampaignService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	LeadRepo     repository.LeadRepositoryInterface
	Queue        queue.Queue
	Logger       *zap.Logger
	Now          func() time.Time
	// Location interprets the scheduled date and time; nil means time.Local.
	Location *time.Location
}

type CampaignForm struct {
	Name          string `json:"name" validate:"required,min=3,max=100"`
	Subject       string `json:"subject" validate:"required,min=5,max=200"`
	Template      string `json:"template" validate:"required,oneof=promo product welcome reminder"`
	ScheduledDate string `json:"scheduled_date" validate:"required,isodate"`
	ScheduledTime string `json:"scheduled_time" validate:"required,hhmm"`
	Content       string `json:"content" validate:"omitempty,min=10,max=5000"`
}

type CampaignQuery struct {
	Query    string
	Status   string
	Template string
	Sort     string
	Order    string
}

// CampaignDetails is a campaign with its computed rates.
type CampaignDetails struct {
	model.Campaign
	OpenRate  float64 `json:"open_rate"`
	ClickRate float64 `json:"click_rate"`
}

type CampaignStats struct {
	TotalSent    int            `json:"total_sent"`
	TotalOpened  int            `json:"total_opened"`
	TotalClicked int            `json:"total_clicked"`
	AverageCTR   string         `json:"average_ctr"`
	ByStatus     map[string]int `json:"by_status"`
}

type Preview struct {
	CampaignID int    `json:"campaign_id"`
	LeadID     int    `json:"lead_id"`
	Subject    string `json:"subject"`
	Content    string `json:"content"`
}

func detailsOf(c *model.Campaign) CampaignDetails {
	return CampaignDetails{Campaign: *c, OpenRate: c.OpenRate(), ClickRate: c.ClickRate()}
}

func (s *CampaignService) logger() *zap.Logger {
	return loggerOrNop(s.Logger)
}

func (s *CampaignService) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

// CreateCampaign validates the form and stores the campaign as scheduled when
// its send time is still ahead, otherwise as a draft. The notice says which.
func (s *CampaignService) CreateCampaign(form CampaignForm) (*CampaignDetails, string, error) {
	trimAll(&form.Name, &form.Subject, &form.Template, &form.ScheduledDate, &form.ScheduledTime, &form.Content)
	if form.Subject == "" {
		if tpl, ok := s.CampaignRepo.GetTemplate(form.Template); ok {
			form.Subject = tpl.DefaultSubject
		}
	}
	if err := validation.Struct(form); err != nil {
		return nil, "", err
	}

	scheduledAt, err := time.ParseInLocation("2006-01-02 15:04", form.ScheduledDate+" "+form.ScheduledTime, s.location())
	if err != nil {
		return nil, "", appErrors.NewValidation("scheduled_date", "invalid scheduled date or time")
	}

	now := nowFrom(s.Now)
	c := &model.Campaign{
		Name:        form.Name,
		Subject:     form.Subject,
		Template:    form.Template,
		Content:     form.Content,
		Status:      model.CampaignDraft,
		ScheduledAt: &scheduledAt,
		CreatedAt:   now,
	}
	notice := "draft saved"
	if scheduledAt.After(now) {
		c.Status = model.CampaignScheduled
		notice = "campaign scheduled for " + scheduledAt.Format("02.01.2006 15:04")
	}

	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, "", err
	}
	s.logger().Info("campaign created", zap.Int("campaign_id", c.ID), zap.String("status", c.Status))
	publish(s.Queue, s.Logger, queue.TopicCampaignCreated, queue.Notification{Notice: notice, Kind: "campaign", RecordID: c.ID})

	d := detailsOf(c)
	return &d, notice, nil
}

// ListCampaigns fetches campaigns with filters and pagination
func (s *CampaignService) ListCampaigns(q CampaignQuery, p Page) ([]CampaignDetails, map[string]int, error) {
	offset := p.normalize()
	ptrs, total, err := s.CampaignRepo.ListCampaigns(repository.CampaignFilter{
		Query:    q.Query,
		Status:   q.Status,
		Template: q.Template,
		Sort:     q.Sort,
		Desc:     strings.EqualFold(q.Order, "desc"),
		Offset:   offset,
		Limit:    p.PageSize,
	})
	if err != nil {
		return nil, nil, err
	}

	campaigns := make([]CampaignDetails, len(ptrs))
	for i, c := range ptrs {
		campaigns[i] = detailsOf(c)
	}
	return campaigns, p.pagination(total), nil
}

// GetCampaignDetails fetches a campaign by ID
func (s *CampaignService) GetCampaignDetails(id int) (*CampaignDetails, error) {
	c, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	d := detailsOf(c)
	return &d, nil
}

// Stats sums the counters of every campaign.
func (s *CampaignService) Stats() (*CampaignStats, error) {
	all, err := s.CampaignRepo.All()
	if err != nil {
		return nil, err
	}
	stats := &CampaignStats{ByStatus: map[string]int{}}
	for _, c := range all {
		stats.TotalSent += c.Sent
		stats.TotalOpened += c.Opened
		stats.TotalClicked += c.Clicked
		stats.ByStatus[c.Status]++
	}
	stats.AverageCTR = fmt.Sprintf("%.1f", model.Rate(stats.TotalClicked, stats.TotalSent))
	return stats, nil
}

func (s *CampaignService) Templates() []model.CampaignTemplate {
	return s.CampaignRepo.Templates()
}

// Duplicate copies a campaign into a fresh draft with zeroed counters.
func (s *CampaignService) Duplicate(id int) (*CampaignDetails, error) {
	src, err := s.CampaignRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	c := &model.Campaign{
		Name:      src.Name + " (copy)",
		Subject:   src.Subject,
		Template:  src.Template,
		Content:   src.Content,
		Status:    model.CampaignDraft,
		CreatedAt: nowFrom(s.Now),
	}
	if err := s.CampaignRepo.Create(c); err != nil {
		return nil, err
	}
	s.logger().Info("campaign duplicated", zap.Int("source_id", id), zap.Int("campaign_id", c.ID))
	publish(s.Queue, s.Logger, queue.TopicCampaignDuplicated, queue.Notification{Notice: "campaign duplicated", Kind: "campaign", RecordID: c.ID})

	d := detailsOf(c)
	return &d, nil
}

func (s *CampaignService) DeleteCampaign(id int) error {
	if err := s.CampaignRepo.Delete(id); err != nil {
		return err
	}
	s.logger().Info("campaign deleted", zap.Int("campaign_id", id))
	publish(s.Queue, s.Logger, queue.TopicCampaignDeleted, queue.Notification{Notice: "campaign deleted", Kind: "campaign", RecordID: id})
	return nil
}

// PauseResume toggles an active campaign to paused and back. Other statuses are refused.
func (s *CampaignService) PauseResume(id int) (*CampaignDetails, string, error) {
	var topic, notice string
	now := nowFrom(s.Now)
	c, err := s.CampaignRepo.Update(id, func(c *model.Campaign) error {
		c.UpdatedAt = &now
		switch c.Status {
		case model.CampaignActive:
			c.Status = model.CampaignPaused
			topic, notice = queue.TopicCampaignPaused, "campaign paused"
		case model.CampaignPaused:
			c.Status = model.CampaignActive
			topic, notice = queue.TopicCampaignResumed, "campaign resumed"
		default:
			return appErrors.InvalidState("campaign %d is %s, only active or paused campaigns can be paused or resumed", c.ID, c.Status)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	publish(s.Queue, s.Logger, topic, queue.Notification{Notice: notice, Kind: "campaign", RecordID: id})

	d := detailsOf(c)
	return &d, notice, nil
}

// SendNow marks the campaign active. Nothing is delivered.
func (s *CampaignService) SendNow(id int) (*CampaignDetails, error) {
	now := nowFrom(s.Now)
	c, err := s.CampaignRepo.Update(id, func(c *model.Campaign) error {
		c.UpdatedAt = &now
		switch c.Status {
		case model.CampaignDraft, model.CampaignScheduled, model.CampaignPaused:
			c.Status = model.CampaignActive
			return nil
		}
		return appErrors.InvalidState("campaign %d cannot be sent in status: %s", c.ID, c.Status)
	})
	if err != nil {
		return nil, err
	}
	s.logger().Info("campaign sending started", zap.Int("campaign_id", id))
	publish(s.Queue, s.Logger, queue.TopicCampaignSendStart, queue.Notification{Notice: "campaign sending started", Kind: "campaign", RecordID: id})

	d := detailsOf(c)
	return &d, nil
}

// RenderPreview personalises the campaign's subject and content for one lead.
// overrideContent, when non-blank, is rendered instead of the stored content.
func (s *CampaignService) RenderPreview(campaignID, leadID int, overrideContent *string) (*Preview, error) {
	campaign, err := s.CampaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	lead, err := s.LeadRepo.GetByID(leadID)
	if err != nil {
		return nil, err
	}

	content := campaign.Content
	if overrideContent != nil && strings.TrimSpace(*overrideContent) != "" {
		content = *overrideContent
	}

	data := LeadPlaceholders(lead)
	return &Preview{
		CampaignID: campaignID,
		LeadID:     leadID,
		Subject:    RenderTemplate(campaign.Subject, data),
		Content:    RenderTemplate(content, data),
	}, nil
}
