// internal/model/report.go
package model

import "time"

const (
	ReportGenerating = "generating"
	ReportReady      = "ready"
	ReportFailed     = "failed"
)

type Report struct {
	ID        int       `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Type      string    `json:"type" yaml:"type"` // monthly, quarterly, campaign, leads, web, crm, email, social
	Date      time.Time `json:"date" yaml:"date"`
	Status    string    `json:"status" yaml:"status"`
	Size      string    `json:"size" yaml:"size"`
	Period    string    `json:"period,omitempty" yaml:"period"`
	From      string    `json:"from,omitempty" yaml:"-"`
	To        string    `json:"to,omitempty" yaml:"-"`
	LastError string    `json:"last_error,omitempty" yaml:"-"`
	Content   string    `json:"-" yaml:"-"`
}

type ScheduledReport struct {
	ID         int      `json:"id" yaml:"id"`
	Name       string   `json:"name" yaml:"name"`
	Frequency  string   `json:"frequency" yaml:"frequency"`
	NextRun    string   `json:"next_run" yaml:"next_run"`
	Recipients []string `json:"recipients" yaml:"recipients"`
}
