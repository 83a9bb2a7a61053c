// Package seed holds the mock dataset every view starts from.
package seed

import (
	"bytes"
	_ "embed"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/unclebandit/marketdesk-backend/internal/model"
)

//go:embed data.yaml
var defaultData []byte

// User is a seeded account; the plain password is hashed when the repository is built.
type User struct {
	model.User `yaml:",inline"`
	Password   string `yaml:"password"`
}

type Dataset struct {
	Users            []User                   `yaml:"users"`
	Leads            []model.Lead             `yaml:"leads"`
	Templates        []model.CampaignTemplate `yaml:"templates"`
	Campaigns        []model.Campaign         `yaml:"campaigns"`
	Accounts         []model.SocialAccount    `yaml:"accounts"`
	Posts            []model.SocialPost       `yaml:"posts"`
	Reports          []model.Report           `yaml:"reports"`
	ScheduledReports []model.ScheduledReport  `yaml:"scheduled_reports"`
	Segments         []model.Segment          `yaml:"segments"`
	Dashboard        model.Dashboard          `yaml:"dashboard"`
	Analytics        model.Analytics          `yaml:"analytics"`
}

// Default returns the embedded dataset.
func Default() (*Dataset, error) {
	return Parse(defaultData)
}

// Load reads a dataset from path, or the embedded one when path is empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read seed file %s", path)
	}
	return Parse(data)
}

// Parse decodes YAML, rejecting keys that don't map to a field.
func Parse(data []byte) (*Dataset, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var ds Dataset
	if err := dec.Decode(&ds); err != nil {
		return nil, errors.Wrap(err, "decode seed dataset")
	}
	return &ds, nil
}
