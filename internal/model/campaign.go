// internal/model/campaign.go
package model

import "time"

const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignActive    = "active"
	CampaignPaused    = "paused"
	CampaignCompleted = "completed"
)

type Campaign struct {
	ID          int        `json:"id" yaml:"id"`
	Name        string     `json:"name" yaml:"name"`
	Subject     string     `json:"subject" yaml:"subject"`
	Template    string     `json:"template" yaml:"template"`
	Content     string     `json:"content,omitempty" yaml:"content"`
	Status      string     `json:"status" yaml:"status"`
	Sent        int        `json:"sent" yaml:"sent"`
	Opened      int        `json:"opened" yaml:"opened"`
	Clicked     int        `json:"clicked" yaml:"clicked"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty" yaml:"scheduled_at"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" yaml:"-"`
}

// CampaignTemplate is one of the fixed email layouts a campaign is built from.
type CampaignTemplate struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Category       string `json:"category" yaml:"category"`
	Thumbnail      string `json:"thumbnail" yaml:"thumbnail"`
	Description    string `json:"description" yaml:"description"`
	DefaultSubject string `json:"default_subject" yaml:"default_subject"`
}

// Rate returns value as a percentage of total with one decimal, "0.0" when total is zero.
func Rate(value, total int) float64 {
	if total <= 0 {
		return 0
	}
	r := float64(value) / float64(total) * 100
	return float64(int64(r*10+0.5)) / 10
}

func (c *Campaign) OpenRate() float64  { return Rate(c.Opened, c.Sent) }
func (c *Campaign) ClickRate() float64 { return Rate(c.Clicked, c.Sent) }
