package repository

import (
	"sort"
	"strings"

	"github.com/unclebandit/marketdesk-backend/internal/model"
)

type CampaignFilter struct {
	Query    string
	Status   string
	Template string
	Sort     string // created_at, name, sent, open_rate; empty keeps list order
	Desc     bool
	Offset   int
	Limit    int
}

type CampaignRepositoryInterface interface {
	ListCampaigns(f CampaignFilter) ([]*model.Campaign, int, error)
	All() ([]*model.Campaign, error)
	GetByID(id int) (*model.Campaign, error)
	Create(c *model.Campaign) error
	Update(id int, fn func(c *model.Campaign) error) (*model.Campaign, error)
	Delete(id int) error

	Templates() []model.CampaignTemplate
	GetTemplate(id string) (*model.CampaignTemplate, bool)
}

type CampaignRepository struct {
	table     *table[model.Campaign]
	templates []model.CampaignTemplate
}

func NewCampaignRepository(seed []model.Campaign, templates []model.CampaignTemplate) *CampaignRepository {
	r := &CampaignRepository{
		table: newTable("campaign",
			func(c *model.Campaign) int { return c.ID },
			func(c *model.Campaign, id int) { c.ID = id },
			nil),
		templates: append([]model.CampaignTemplate(nil), templates...),
	}
	r.table.seed(seed)
	return r
}

// ====================== Campaign CRUD ======================

func (r *CampaignRepository) Create(c *model.Campaign) error {
	if c.Status == "" {
		c.Status = model.CampaignDraft
	}
	r.table.insert(c)
	return nil
}

func (r *CampaignRepository) GetByID(id int) (*model.Campaign, error) {
	return r.table.get(id)
}

func (r *CampaignRepository) All() ([]*model.Campaign, error) {
	return r.table.all(), nil
}

func (r *CampaignRepository) Update(id int, fn func(c *model.Campaign) error) (*model.Campaign, error) {
	return r.table.update(id, fn)
}

func (r *CampaignRepository) Delete(id int) error {
	_, err := r.table.remove(id)
	return err
}

func (r *CampaignRepository) ListCampaigns(f CampaignFilter) ([]*model.Campaign, int, error) {
	query := fold(strings.TrimSpace(f.Query))

	campaigns := []*model.Campaign{}
	for _, c := range r.table.all() {
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if f.Template != "" && c.Template != f.Template {
			continue
		}
		if query != "" && !containsFolded(query, c.Name, c.Subject) {
			continue
		}
		campaigns = append(campaigns, c)
	}

	if less := campaignOrder(f.Sort); less != nil {
		sort.SliceStable(campaigns, func(i, j int) bool {
			if f.Desc {
				return less(campaigns[j], campaigns[i])
			}
			return less(campaigns[i], campaigns[j])
		})
	}

	total := len(campaigns)
	return page(campaigns, f.Offset, f.Limit), total, nil
}

func campaignOrder(key string) func(a, b *model.Campaign) bool {
	switch key {
	case "created_at":
		return func(a, b *model.Campaign) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "name":
		return func(a, b *model.Campaign) bool { return fold(a.Name) < fold(b.Name) }
	case "sent":
		return func(a, b *model.Campaign) bool { return a.Sent < b.Sent }
	case "open_rate":
		return func(a, b *model.Campaign) bool { return a.OpenRate() < b.OpenRate() }
	}
	return nil
}

// ====================== Templates ======================

func (r *CampaignRepository) Templates() []model.CampaignTemplate {
	return append([]model.CampaignTemplate(nil), r.templates...)
}

func (r *CampaignRepository) GetTemplate(id string) (*model.CampaignTemplate, bool) {
	for i := range r.templates {
		if r.templates[i].ID == id {
			t := r.templates[i]
			return &t, true
		}
	}
	return nil, false
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
