// internal/model/dashboard.go
package model

// MetricCard is a headline number with its change versus the previous period.
type MetricCard struct {
	Title    string `json:"title" yaml:"title"`
	Value    string `json:"value" yaml:"value"`
	Change   string `json:"change" yaml:"change"`
	Positive bool   `json:"positive" yaml:"positive"`
}

// Point is a labelled set of values in a chart series.
type Point struct {
	Label  string         `json:"label" yaml:"label"`
	Values map[string]int `json:"values" yaml:"values"`
}

type Share struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
}

type PageStat struct {
	Page       string `json:"page" yaml:"page"`
	Views      int    `json:"views" yaml:"views"`
	AvgTime    string `json:"avg_time" yaml:"avg_time"`
	BounceRate int    `json:"bounce_rate" yaml:"bounce_rate"`
}

type FunnelStep struct {
	Step    string  `json:"step" yaml:"step"`
	Users   int     `json:"users" yaml:"users"`
	DropOff float64 `json:"drop_off" yaml:"-"`
}

type Recommendation struct {
	ID          int    `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Impact      string `json:"impact" yaml:"impact"` // high, medium, low
	Category    string `json:"category" yaml:"category"`
}

type NavItem struct {
	Label string `json:"label" yaml:"label"`
	Path  string `json:"path" yaml:"path"`
}

type Dashboard struct {
	Metrics         []MetricCard     `json:"metrics" yaml:"metrics"`
	Traffic         []Point          `json:"traffic" yaml:"traffic"`
	Sources         []Share          `json:"sources" yaml:"sources"`
	Conversions     []Share          `json:"conversions" yaml:"conversions"`
	Recommendations []Recommendation `json:"recommendations" yaml:"recommendations"`
	Navigation      []NavItem        `json:"navigation" yaml:"navigation"`
}

type Analytics struct {
	Period       int          `json:"period" yaml:"-"`
	Metrics      []MetricCard `json:"metrics" yaml:"metrics"`
	PageViews    []Point      `json:"page_views" yaml:"page_views"`
	TopPages     []PageStat   `json:"top_pages" yaml:"top_pages"`
	Devices      []Share      `json:"devices" yaml:"devices"`
	BehaviorFlow []FunnelStep `json:"behavior_flow" yaml:"behavior_flow"`
}
