//cmd/seeder/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/seed"
	"github.com/unclebandit/marketdesk-backend/internal/service"
	"github.com/unclebandit/marketdesk-backend/internal/validation"
)

func main() {
	root := &cobra.Command{
		Use:   "seeder",
		Short: "Tools for the mock dataset",
	}
	root.AddCommand(validateCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "validate [file]",
		Short:        "Check every seeded record against the form rules (embedded dataset by default)",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			ds, err := seed.Load(path)
			if err != nil {
				return err
			}
			problems := validateDataset(ds)
			printSummary(cmd.OutOrStdout(), ds, problems)
			if len(problems) > 0 {
				return errors.Newf("%d invalid records", len(problems))
			}
			return nil
		},
	}
}

// seedUser carries the account fields the login and register forms check.
type seedUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// problem is one record that failed its form rules.
type problem struct {
	Kind   string
	ID     int
	Fields map[string]string
}

func validateDataset(ds *seed.Dataset) []problem {
	var problems []problem
	check := func(kind string, id int, err error) {
		if err == nil {
			return
		}
		p := problem{Kind: kind, ID: id}
		if verr, ok := appErrors.AsValidation(err); ok {
			p.Fields = verr.Fields
		} else {
			p.Fields = map[string]string{"": err.Error()}
		}
		problems = append(problems, p)
	}

	for _, u := range ds.Users {
		err := validation.Struct(seedUser{Email: u.Email, Password: u.Password})
		if len(u.Password) > 72 {
			err = validation.Merge(err, map[string]string{"password": "password must be at most 72 bytes"})
		}
		check("user", u.ID, err)
	}

	for _, l := range ds.Leads {
		check("lead", l.ID, validation.Struct(service.LeadForm{
			Name:     l.Name,
			Email:    l.Email,
			Phone:    l.Phone,
			Company:  l.Company,
			Position: l.Position,
			Source:   l.Source,
			Tags:     l.Tags,
		}))
	}

	for _, c := range ds.Campaigns {
		at := c.CreatedAt
		if c.ScheduledAt != nil {
			at = *c.ScheduledAt
		}
		at = at.In(time.UTC)
		check("campaign", c.ID, validation.Struct(service.CampaignForm{
			Name:          c.Name,
			Subject:       c.Subject,
			Template:      c.Template,
			ScheduledDate: at.Format("2006-01-02"),
			ScheduledTime: at.Format("15:04"),
			Content:       c.Content,
		}))
	}

	for _, p := range ds.Posts {
		platforms := p.Platforms
		if len(platforms) == 0 && p.Platform != "" {
			platforms = []string{p.Platform}
		}
		err := validation.Struct(service.SocialPostForm{Content: p.Content, Platforms: platforms})
		if limit := service.MaxChars(platforms); utf8.RuneCountInString(p.Content) > limit {
			err = validation.Merge(err, map[string]string{"content": fmt.Sprintf("content must be at most %d characters", limit)})
		}
		check("post", p.ID, err)
	}

	for _, s := range ds.Segments {
		check("segment", s.ID, validation.Struct(service.SegmentForm{
			Name:           s.Name,
			Description:    s.Description,
			Group:          s.Group,
			Criteria:       s.Criteria,
			LeadsCount:     s.LeadsCount,
			ConversionRate: s.ConversionRate,
			Color:          s.Color,
		}))
	}

	return problems
}

func printSummary(w io.Writer, ds *seed.Dataset, problems []problem) {
	fmt.Fprintf(w, "users:     %d\n", len(ds.Users))
	fmt.Fprintf(w, "leads:     %d\n", len(ds.Leads))
	fmt.Fprintf(w, "campaigns: %d\n", len(ds.Campaigns))
	fmt.Fprintf(w, "posts:     %d\n", len(ds.Posts))
	fmt.Fprintf(w, "reports:   %d (+%d scheduled)\n", len(ds.Reports), len(ds.ScheduledReports))
	fmt.Fprintf(w, "segments:  %d\n", len(ds.Segments))

	if len(problems) == 0 {
		fmt.Fprintln(w, "✅ dataset is valid")
		return
	}
	for _, p := range problems {
		keys := make([]string, 0, len(p.Fields))
		for k := range p.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "❌ %s %d: %s\n", p.Kind, p.ID, p.Fields[k])
		}
	}
}
