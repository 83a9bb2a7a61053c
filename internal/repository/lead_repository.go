package repository

import (
	"sort"
	"strings"

	"github.com/unclebandit/marketdesk-backend/internal/model"
)

type LeadFilter struct {
	Query  string // matched against name, email and company
	Status string
	Source string
	Tag    string
	Sort   string // score, name, created_at, last_activity; empty keeps list order
	Desc   bool
	Offset int
	Limit  int
}

// LeadRepositoryInterface defines methods used by the lead service
type LeadRepositoryInterface interface {
	Create(l *model.Lead) error
	GetByID(id int) (*model.Lead, error)
	List(f LeadFilter) ([]*model.Lead, int, error)
	Update(id int, fn func(l *model.Lead) error) (*model.Lead, error)
	Delete(id int) error
}

// LeadRepository is the in-memory implementation
type LeadRepository struct {
	table *table[model.Lead]
}

func NewLeadRepository(seed []model.Lead) *LeadRepository {
	r := &LeadRepository{
		table: newTable("lead",
			func(l *model.Lead) int { return l.ID },
			func(l *model.Lead, id int) { l.ID = id },
			func(l *model.Lead) *model.Lead { return l.Clone() }),
	}
	r.table.seed(seed)
	return r
}

func (r *LeadRepository) Create(l *model.Lead) error {
	r.table.insert(l)
	return nil
}

// GetByID fetches a lead by ID
func (r *LeadRepository) GetByID(id int) (*model.Lead, error) {
	return r.table.get(id)
}

func (r *LeadRepository) Update(id int, fn func(l *model.Lead) error) (*model.Lead, error) {
	return r.table.update(id, fn)
}

func (r *LeadRepository) Delete(id int) error {
	_, err := r.table.remove(id)
	return err
}

// List filters, sorts and pages the leads.
func (r *LeadRepository) List(f LeadFilter) ([]*model.Lead, int, error) {
	query := fold(strings.TrimSpace(f.Query))
	tag := fold(strings.TrimSpace(f.Tag))

	leads := []*model.Lead{}
	for _, l := range r.table.all() {
		if f.Status != "" && l.Status != f.Status {
			continue
		}
		if f.Source != "" && l.Source != f.Source {
			continue
		}
		if tag != "" && !hasTag(l, tag) {
			continue
		}
		if query != "" && !containsFolded(query, l.Name, l.Email, l.Company) {
			continue
		}
		leads = append(leads, l)
	}

	if less := leadOrder(f.Sort); less != nil {
		sort.SliceStable(leads, func(i, j int) bool {
			if f.Desc {
				return less(leads[j], leads[i])
			}
			return less(leads[i], leads[j])
		})
	}

	total := len(leads)
	return page(leads, f.Offset, f.Limit), total, nil
}

func hasTag(l *model.Lead, folded string) bool {
	for _, t := range l.Tags {
		if fold(t) == folded {
			return true
		}
	}
	return false
}

func leadOrder(key string) func(a, b *model.Lead) bool {
	switch key {
	case "score":
		return func(a, b *model.Lead) bool { return a.Score < b.Score }
	case "name":
		return func(a, b *model.Lead) bool { return fold(a.Name) < fold(b.Name) }
	case "created_at":
		return func(a, b *model.Lead) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "last_activity":
		return func(a, b *model.Lead) bool { return a.LastActivity.Before(b.LastActivity) }
	}
	return nil
}

var _ LeadRepositoryInterface = (*LeadRepository)(nil)
