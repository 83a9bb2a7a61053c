// internal/model/segment.go
package model

const (
	SegmentGroupActivity   = "activity"
	SegmentGroupEngagement = "engagement"
)

type Segment struct {
	ID             int    `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Description    string `json:"description" yaml:"description"`
	Group          string `json:"group" yaml:"group"`
	LeadsCount     int    `json:"leads_count" yaml:"leads_count"`
	Criteria       string `json:"criteria" yaml:"criteria"`
	ConversionRate int    `json:"conversion_rate" yaml:"conversion_rate"`
	Color          string `json:"color" yaml:"color"`
}

// SegmentStats are the summary cards shown above a segment group.
type SegmentStats struct {
	TotalLeads        int `json:"total_leads"`
	SegmentCount      int `json:"segment_count"`
	AverageConversion int `json:"average_conversion"`
}
