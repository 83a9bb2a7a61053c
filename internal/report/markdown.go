// Package report renders reports and segment exports as Markdown.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/nao1215/markdown"

	"github.com/unclebandit/marketdesk-backend/internal/model"
)

// ErrUnknownType is returned for a report type with no layout.
var ErrUnknownType = errors.New("unknown report type")

// Snapshot is the data a report is built from, taken when the job runs.
type Snapshot struct {
	Generated time.Time
	Leads     []*model.Lead
	Campaigns []*model.Campaign
	Posts     []*model.SocialPost
	Accounts  []model.SocialAccount
	Analytics model.Analytics
}

// section names by report type
var layouts = map[string][]string{
	"web":       {"traffic"},
	"crm":       {"leads"},
	"leads":     {"leads"},
	"email":     {"campaigns"},
	"campaign":  {"campaigns"},
	"social":    {"social"},
	"monthly":   {"traffic", "leads", "campaigns", "social"},
	"quarterly": {"traffic", "leads", "campaigns", "social"},
}

var periodLabels = map[string]string{
	"last_7_days":  "Last 7 days",
	"last_30_days": "Last 30 days",
	"last_90_days": "Last 90 days",
	"this_month":   "This month",
	"last_month":   "Last month",
}

// MarkdownWriter outputs reports in Markdown format.
type MarkdownWriter struct {
	output io.Writer
}

func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: output}
}

// WriteReport renders rep from snap and returns the number of bytes written.
func (w *MarkdownWriter) WriteReport(rep *model.Report, snap *Snapshot) (int, error) {
	sections, ok := layouts[rep.Type]
	if !ok {
		return 0, errors.Wrapf(ErrUnknownType, "%q", rep.Type)
	}

	md := markdown.NewMarkdown(w.output)
	md.H1(rep.Name)
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Type", rep.Type},
			{"Period", PeriodLabel(rep)},
			{"Generated", snap.Generated.Format("2006-01-02 15:04")},
		},
	})
	md.PlainText("")

	for _, s := range sections {
		switch s {
		case "traffic":
			writeTraffic(md, snap.Analytics)
		case "leads":
			writeLeads(md, snap.Leads)
		case "campaigns":
			writeCampaigns(md, snap.Campaigns)
		case "social":
			writeSocial(md, snap.Accounts, snap.Posts)
		}
	}

	md.HorizontalRule()
	md.PlainTextf("*Generated by MarketDesk on %s*", snap.Generated.Format("2006-01-02"))

	out := md.String()
	return len(out), errors.Wrap(md.Build(), "write report")
}

// PeriodLabel is the human form of the report's period.
func PeriodLabel(rep *model.Report) string {
	if rep.Period == "custom" {
		return rep.From + " to " + rep.To
	}
	if label, ok := periodLabels[rep.Period]; ok {
		return label
	}
	if rep.Period == "" {
		return "n/a"
	}
	return rep.Period
}

func writeTraffic(md *markdown.Markdown, a model.Analytics) {
	md.H2("Website traffic")
	md.PlainText("")

	rows := make([][]string, 0, len(a.Metrics))
	for _, m := range a.Metrics {
		rows = append(rows, []string{m.Title, m.Value, m.Change})
	}
	md.Table(markdown.TableSet{Header: []string{"Metric", "Value", "Change"}, Rows: rows})
	md.PlainText("")

	if len(a.TopPages) > 0 {
		md.H3("Top pages")
		md.PlainText("")
		rows = rows[:0]
		for _, p := range a.TopPages {
			rows = append(rows, []string{p.Page, strconv.Itoa(p.Views), p.AvgTime, strconv.Itoa(p.BounceRate) + "%"})
		}
		md.Table(markdown.TableSet{Header: []string{"Page", "Views", "Avg. time", "Bounce"}, Rows: rows})
		md.PlainText("")
	}
}

func writeLeads(md *markdown.Markdown, leads []*model.Lead) {
	md.H2("Leads")
	md.PlainText("")
	if len(leads) == 0 {
		md.PlainText("No leads yet.")
		md.PlainText("")
		return
	}

	byStatus := make(map[string]int, len(model.LeadStatuses))
	for _, l := range leads {
		byStatus[l.Status]++
	}
	rows := make([][]string, 0, len(model.LeadStatuses)+1)
	for _, s := range model.LeadStatuses {
		rows = append(rows, []string{s, strconv.Itoa(byStatus[s])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(len(leads)) + "**"})
	md.Table(markdown.TableSet{Header: []string{"Status", "Leads"}, Rows: rows})
	md.PlainText("")

	top := append([]*model.Lead(nil), leads...)
	sort.SliceStable(top, func(i, j int) bool { return top[i].Score > top[j].Score })
	if len(top) > 5 {
		top = top[:5]
	}
	md.H3("Top leads by score")
	md.PlainText("")
	rows = rows[:0]
	for _, l := range top {
		rows = append(rows, []string{l.Name, l.Company, l.Status, strconv.Itoa(l.Score)})
	}
	md.Table(markdown.TableSet{Header: []string{"Name", "Company", "Status", "Score"}, Rows: rows})
	md.PlainText("")
}

func writeCampaigns(md *markdown.Markdown, campaigns []*model.Campaign) {
	md.H2("Email campaigns")
	md.PlainText("")
	if len(campaigns) == 0 {
		md.PlainText("No campaigns yet.")
		md.PlainText("")
		return
	}

	var sent, opened, clicked int
	rows := make([][]string, 0, len(campaigns))
	for _, c := range campaigns {
		sent += c.Sent
		opened += c.Opened
		clicked += c.Clicked
		rows = append(rows, []string{
			c.Name, c.Status, strconv.Itoa(c.Sent),
			percent(c.OpenRate()), percent(c.ClickRate()),
		})
	}
	md.Table(markdown.TableSet{Header: []string{"Campaign", "Status", "Sent", "Open rate", "Click rate"}, Rows: rows})
	md.PlainText("")
	md.PlainTextf("Sent **%d**, opened **%d**, clicked **%d**, average CTR **%s**.",
		sent, opened, clicked, percent(model.Rate(clicked, sent)))
	md.PlainText("")
}

func writeSocial(md *markdown.Markdown, accounts []model.SocialAccount, posts []*model.SocialPost) {
	md.H2("Social media")
	md.PlainText("")

	rows := make([][]string, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, []string{a.Platform, strconv.Itoa(a.Followers), fmt.Sprintf("%.1f%%", a.Engagement)})
	}
	md.Table(markdown.TableSet{Header: []string{"Platform", "Followers", "Engagement"}, Rows: rows})
	md.PlainText("")

	var published, scheduled, likes, views int
	for _, p := range posts {
		if p.Status == model.PostScheduled {
			scheduled++
			continue
		}
		published++
		likes += p.Likes
		views += p.Views
	}
	md.BulletList(
		fmt.Sprintf("Published posts: %d", published),
		fmt.Sprintf("Scheduled posts: %d", scheduled),
		fmt.Sprintf("Likes: %d", likes),
		fmt.Sprintf("Views: %d", views),
	)
	md.PlainText("")
}

// WriteSegment renders a segment export.
func (w *MarkdownWriter) WriteSegment(seg *model.Segment, generated time.Time) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Segment: " + seg.Name)
	md.PlainText("")
	if seg.Description != "" {
		md.PlainText(seg.Description)
		md.PlainText("")
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Group", seg.Group},
			{"Criteria", seg.Criteria},
			{"Leads", strconv.Itoa(seg.LeadsCount)},
			{"Conversion rate", strconv.Itoa(seg.ConversionRate) + "%"},
			{"Exported", generated.Format("2006-01-02 15:04")},
		},
	})
	md.PlainText("")
	md.Note("Lead-level export is not available for mock segments.")

	out := md.String()
	return len(out), errors.Wrap(md.Build(), "write segment export")
}

// Size formats a byte count the way the reports list shows it.
func Size(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	}
	return strconv.Itoa(n) + " B"
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}
