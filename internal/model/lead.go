// internal/model/lead.go
package model

import (
	"strings"
	"time"
	"unicode"
)

var LeadStatuses = []string{"new", "contacted", "qualified", "converted", "lost"}

var LeadSources = []string{"organic", "paid", "social", "email", "referral", "manual"}

type Lead struct {
	ID            int            `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	Email         string         `json:"email" yaml:"email"`
	Phone         string         `json:"phone,omitempty" yaml:"phone"`
	Company       string         `json:"company" yaml:"company"`
	Position      string         `json:"position,omitempty" yaml:"position"`
	Status        string         `json:"status" yaml:"status"`
	Score         int            `json:"score" yaml:"score"`
	Source        string         `json:"source" yaml:"source"`
	CreatedAt     time.Time      `json:"created_at" yaml:"created_at"`
	LastActivity  time.Time      `json:"last_activity" yaml:"last_activity"`
	Interactions  int            `json:"interactions" yaml:"interactions"`
	EmailOpenRate float64        `json:"email_open_rate" yaml:"email_open_rate"`
	Tags          []string       `json:"tags,omitempty" yaml:"tags"`
	Notes         []LeadNote     `json:"notes,omitempty" yaml:"notes"`
	Activities    []LeadActivity `json:"activities,omitempty" yaml:"activities"`
}

type LeadNote struct {
	Text      string    `json:"text" yaml:"text"`
	Author    string    `json:"author" yaml:"author"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

type LeadActivity struct {
	Action string    `json:"action" yaml:"action"`
	Type   string    `json:"type" yaml:"type"` // visit, email, form, note, status
	At     time.Time `json:"at" yaml:"at"`
}

// Clone returns a deep copy so callers can't mutate repository state through slices.
func (l *Lead) Clone() *Lead {
	c := *l
	c.Tags = append([]string(nil), l.Tags...)
	c.Notes = append([]LeadNote(nil), l.Notes...)
	c.Activities = append([]LeadActivity(nil), l.Activities...)
	return &c
}

// Initials takes the first letter of every word, upper-cased.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return b.String()
}
