package service

import (
	"math/rand/v2"
	"net/url"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
	"github.com/unclebandit/marketdesk-backend/internal/validation"
)

const maxNoteLength = 1000

type LeadService struct {
	LeadRepo repository.LeadRepositoryInterface
	Queue    queue.Queue
	Logger   *zap.Logger
	Now      func() time.Time
	// Score rates a new lead; defaults to a random value in [50,80).
	Score func() int
}

type LeadForm struct {
	Name     string   `json:"name" validate:"required,min=2,max=100"`
	Email    string   `json:"email" validate:"required,email,max=255"`
	Phone    string   `json:"phone" validate:"omitempty,min=10,max=20"`
	Company  string   `json:"company" validate:"required,min=2,max=100"`
	Position string   `json:"position" validate:"max=100"`
	Source   string   `json:"source" validate:"oneof=organic paid social email referral manual"`
	Tags     []string `json:"tags" validate:"max=5,dive,max=20"`
}

// LeadQuery carries the list filters from the query string.
type LeadQuery struct {
	Query  string
	Status string
	Source string
	Tag    string
	Sort   string
	Order  string
}

// ContactLinks are the URIs the lead card opens. The server never follows them.
type ContactLinks struct {
	Mailto     string `json:"mailto"`
	Tel        string `json:"tel,omitempty"`
	PhoneError string `json:"phone_error,omitempty"`
}

func randomScore() int {
	return 50 + rand.IntN(30)
}

func (s *LeadService) logger() *zap.Logger {
	return loggerOrNop(s.Logger)
}

// normalizeTags trims, drops blanks and removes repeats, keeping first-seen order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// CreateLead validates the form and adds a new lead at the top of the list.
func (s *LeadService) CreateLead(form LeadForm) (*model.Lead, error) {
	trimAll(&form.Name, &form.Email, &form.Phone, &form.Company, &form.Position, &form.Source)
	form.Tags = normalizeTags(form.Tags)
	if form.Source == "" {
		form.Source = "organic"
	}
	if err := validation.Struct(form); err != nil {
		return nil, err
	}

	score := s.Score
	if score == nil {
		score = randomScore
	}
	now := nowFrom(s.Now)
	lead := &model.Lead{
		Name:         form.Name,
		Email:        form.Email,
		Phone:        form.Phone,
		Company:      form.Company,
		Position:     form.Position,
		Status:       "new",
		Score:        score(),
		Source:       form.Source,
		CreatedAt:    now,
		LastActivity: now,
		Tags:         form.Tags,
		Activities:   []model.LeadActivity{{Action: "lead created", Type: "form", At: now}},
	}
	if len(lead.Tags) == 0 {
		lead.Tags = nil
	}

	if err := s.LeadRepo.Create(lead); err != nil {
		return nil, err
	}
	s.logger().Info("lead created", zap.Int("lead_id", lead.ID), zap.String("source", lead.Source))
	publish(s.Queue, s.Logger, queue.TopicLeadCreated, queue.Notification{
		Notice: "lead added", Kind: "lead", RecordID: lead.ID,
	})
	return lead, nil
}

// ListLeads fetches leads with filters and pagination
func (s *LeadService) ListLeads(q LeadQuery, p Page) ([]*model.Lead, map[string]int, error) {
	offset := p.normalize()
	leads, total, err := s.LeadRepo.List(repository.LeadFilter{
		Query:  q.Query,
		Status: q.Status,
		Source: q.Source,
		Tag:    q.Tag,
		Sort:   q.Sort,
		Desc:   strings.EqualFold(q.Order, "desc"),
		Offset: offset,
		Limit:  p.PageSize,
	})
	if err != nil {
		return nil, nil, err
	}
	return leads, p.pagination(total), nil
}

func (s *LeadService) GetLead(id int) (*model.Lead, error) {
	return s.LeadRepo.GetByID(id)
}

// DeleteLead removes the lead and returns its name for the notice.
func (s *LeadService) DeleteLead(id int) (string, error) {
	lead, err := s.LeadRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	if err := s.LeadRepo.Delete(id); err != nil {
		return "", err
	}
	notice := "lead " + lead.Name + " deleted"
	s.logger().Info("lead deleted", zap.Int("lead_id", id))
	publish(s.Queue, s.Logger, queue.TopicLeadDeleted, queue.Notification{Notice: notice, Kind: "lead", RecordID: id})
	return notice, nil
}

// UpdateStatus moves the lead through the pipeline and logs it as an activity.
func (s *LeadService) UpdateStatus(id int, status string) (*model.Lead, error) {
	if !slices.Contains(model.LeadStatuses, status) {
		return nil, appErrors.NewValidation("status", "status must be one of: "+strings.Join(model.LeadStatuses, ", "))
	}
	now := nowFrom(s.Now)
	lead, err := s.LeadRepo.Update(id, func(l *model.Lead) error {
		if l.Status == status {
			return nil
		}
		l.Status = status
		l.LastActivity = now
		l.Activities = append([]model.LeadActivity{{Action: "status changed to " + status, Type: "status", At: now}}, l.Activities...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(s.Queue, s.Logger, queue.TopicLeadStatusChanged, queue.Notification{
		Notice: "status updated", Kind: "lead", RecordID: id,
	})
	return lead, nil
}

// AddNote puts a note from author at the top of the lead's notes.
func (s *LeadService) AddNote(id int, text, author string) (*model.Lead, error) {
	text = strings.TrimSpace(text)
	switch {
	case text == "":
		return nil, appErrors.NewValidation("text", "note text is required")
	case len([]rune(text)) > maxNoteLength:
		return nil, appErrors.NewValidation("text", "note must be at most 1000 characters")
	}

	now := nowFrom(s.Now)
	lead, err := s.LeadRepo.Update(id, func(l *model.Lead) error {
		l.Notes = append([]model.LeadNote{{Text: text, Author: author, CreatedAt: now}}, l.Notes...)
		l.Activities = append([]model.LeadActivity{{Action: "note added", Type: "note", At: now}}, l.Activities...)
		l.LastActivity = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	publish(s.Queue, s.Logger, queue.TopicLeadNoteAdded, queue.Notification{Notice: "note added", Kind: "lead", RecordID: id})
	return lead, nil
}

// ContactLinks builds the mailto and tel links for a lead.
func (s *LeadService) ContactLinks(id int) (*ContactLinks, error) {
	lead, err := s.LeadRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	subject := strings.ReplaceAll(url.QueryEscape("Contact with "+lead.Company), "+", "%20")
	links := &ContactLinks{Mailto: "mailto:" + lead.Email + "?subject=" + subject}
	if lead.Phone == "" {
		links.PhoneError = "phone number not provided"
	} else {
		links.Tel = "tel:" + lead.Phone
	}
	return links, nil
}

// CreateDeal only announces the deal; there is no deal record.
func (s *LeadService) CreateDeal(id int) (string, error) {
	lead, err := s.LeadRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	notice := "deal created for " + lead.Name
	publish(s.Queue, s.Logger, queue.TopicLeadDealCreated, queue.Notification{Notice: notice, Kind: "lead", RecordID: id})
	return notice, nil
}
