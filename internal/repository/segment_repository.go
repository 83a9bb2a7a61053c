package repository

import (
	"github.com/unclebandit/marketdesk-backend/internal/model"
)

type SegmentRepositoryInterface interface {
	Create(s *model.Segment) error
	GetByID(id int) (*model.Segment, error)
	ListByGroup(group string) ([]*model.Segment, error)
}

type SegmentRepository struct {
	table *table[model.Segment]
}

func NewSegmentRepository(seed []model.Segment) *SegmentRepository {
	r := &SegmentRepository{
		table: newTable("segment",
			func(s *model.Segment) int { return s.ID },
			func(s *model.Segment, id int) { s.ID = id },
			nil),
	}
	r.table.seed(seed)
	return r
}

func (r *SegmentRepository) Create(s *model.Segment) error {
	r.table.insert(s)
	return nil
}

func (r *SegmentRepository) GetByID(id int) (*model.Segment, error) {
	return r.table.get(id)
}

// ListByGroup lists newest first; an empty group lists everything.
func (r *SegmentRepository) ListByGroup(group string) ([]*model.Segment, error) {
	out := []*model.Segment{}
	for _, s := range r.table.all() {
		if group != "" && s.Group != group {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

var _ SegmentRepositoryInterface = (*SegmentRepository)(nil)
