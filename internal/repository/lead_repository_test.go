package repository_test

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
)

func seedLeads() []model.Lead {
	day := func(d int) time.Time { return time.Date(2024, 11, d, 9, 0, 0, 0, time.UTC) }
	return []model.Lead{
		{ID: 1, Name: "Олександр Коваль", Email: "alex@example.com", Company: "TechStart", Status: "new", Score: 85, Source: "organic", CreatedAt: day(1), Tags: []string{"enterprise", "Hot"}},
		{ID: 2, Name: "Марія Петренко", Email: "maria@example.com", Company: "Marketing Pro", Status: "contacted", Score: 72, Source: "paid", CreatedAt: day(3)},
		{ID: 7, Name: "Andriy Boyko", Email: "andriy@example.com", Company: "Boyko Ltd", Status: "new", Score: 68, Source: "organic", CreatedAt: day(2)},
	}
}

func ids(leads []*model.Lead) []int {
	out := make([]int, len(leads))
	for i, l := range leads {
		out[i] = l.ID
	}
	return out
}

func TestLeadRepositoryCreate(t *testing.T) {
	repo := repository.NewLeadRepository(seedLeads())

	lead := &model.Lead{Name: "Ann Lee", Email: "ann@example.com"}
	require.NoError(t, repo.Create(lead))
	assert.Equal(t, 8, lead.ID, "ids continue after the highest seeded id")

	all, total, err := repo.List(repository.LeadFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, []int{8, 1, 2, 7}, ids(all), "new leads come first, seeds keep their order")
}

func TestLeadRepositoryReturnsCopies(t *testing.T) {
	repo := repository.NewLeadRepository(seedLeads())

	l, err := repo.GetByID(1)
	require.NoError(t, err)
	l.Name = "changed"
	l.Tags[0] = "changed"

	again, err := repo.GetByID(1)
	require.NoError(t, err)
	assert.Equal(t, "Олександр Коваль", again.Name)
	assert.Equal(t, "enterprise", again.Tags[0])
}

func TestLeadRepositoryUpdate(t *testing.T) {
	repo := repository.NewLeadRepository(seedLeads())

	updated, err := repo.Update(2, func(l *model.Lead) error {
		l.Status = "qualified"
		l.ID = 99
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.ID, "the id cannot be changed")
	assert.Equal(t, "qualified", updated.Status)

	_, err = repo.Update(2, func(l *model.Lead) error {
		l.Status = "lost"
		return errors.New("refused")
	})
	require.Error(t, err)
	stored, _ := repo.GetByID(2)
	assert.Equal(t, "qualified", stored.Status, "a failed update leaves the row alone")

	_, err = repo.Update(42, func(*model.Lead) error { return nil })
	assert.True(t, appErrors.IsNotFound(err))
}

func TestLeadRepositoryDelete(t *testing.T) {
	repo := repository.NewLeadRepository(seedLeads())

	require.NoError(t, repo.Delete(2))
	_, err := repo.GetByID(2)
	assert.True(t, appErrors.IsNotFound(err))
	assert.EqualError(t, err, "lead with ID 2 not found")

	assert.True(t, appErrors.IsNotFound(repo.Delete(2)))
}

func TestLeadRepositoryList(t *testing.T) {
	repo := repository.NewLeadRepository(seedLeads())

	tests := []struct {
		name   string
		filter repository.LeadFilter
		want   []int
		total  int
	}{
		{"status", repository.LeadFilter{Status: "new"}, []int{1, 7}, 2},
		{"source", repository.LeadFilter{Source: "paid"}, []int{2}, 1},
		{"tag ignores case", repository.LeadFilter{Tag: "hot"}, []int{1}, 1},
		{"query on cyrillic name", repository.LeadFilter{Query: "МАРІЯ"}, []int{2}, 1},
		{"query on company", repository.LeadFilter{Query: "boyko"}, []int{7}, 1},
		{"score descending", repository.LeadFilter{Sort: "score", Desc: true}, []int{1, 2, 7}, 3},
		{"created ascending", repository.LeadFilter{Sort: "created_at"}, []int{1, 7, 2}, 3},
		{"unknown sort keeps order", repository.LeadFilter{Sort: "colour"}, []int{1, 2, 7}, 3},
		{"page", repository.LeadFilter{Offset: 1, Limit: 1}, []int{2}, 3},
		{"past the end", repository.LeadFilter{Offset: 10, Limit: 5}, []int{}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := repo.List(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
			assert.Equal(t, tt.total, total)
		})
	}
}
