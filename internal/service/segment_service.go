package service

import (
	"bytes"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/report"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
	"github.com/unclebandit/marketdesk-backend/internal/validation"
)

var segmentColors = map[string]string{
	model.SegmentGroupActivity:   "bg-primary",
	model.SegmentGroupEngagement: "bg-accent",
}

type SegmentService struct {
	SegmentRepo repository.SegmentRepositoryInterface
	Queue       queue.Queue
	Logger      *zap.Logger
	Now         func() time.Time
}

type SegmentForm struct {
	Name           string `json:"name" validate:"required,min=3,max=100"`
	Description    string `json:"description" validate:"max=500"`
	Group          string `json:"group" validate:"required,oneof=activity engagement"`
	Criteria       string `json:"criteria" validate:"required,min=3,max=200"`
	LeadsCount     int    `json:"leads_count" validate:"gte=0"`
	ConversionRate int    `json:"conversion_rate" validate:"gte=0,lte=100"`
	Color          string `json:"color" validate:"max=50"`
}

// SegmentStatsOf sums a group of segments. The average conversion is the
// rounded mean, 0 for an empty group.
func SegmentStatsOf(segments []*model.Segment) model.SegmentStats {
	stats := model.SegmentStats{SegmentCount: len(segments)}
	conversion := 0
	for _, seg := range segments {
		stats.TotalLeads += seg.LeadsCount
		conversion += seg.ConversionRate
	}
	if len(segments) > 0 {
		stats.AverageConversion = int(math.Floor(float64(conversion)/float64(len(segments)) + 0.5))
	}
	return stats
}

// ListSegments returns one group with its summary cards.
func (s *SegmentService) ListSegments(group string) ([]*model.Segment, model.SegmentStats, error) {
	if group != "" && group != model.SegmentGroupActivity && group != model.SegmentGroupEngagement {
		return nil, model.SegmentStats{}, appErrors.NewValidation("group", "group must be one of: activity, engagement")
	}
	segments, err := s.SegmentRepo.ListByGroup(group)
	if err != nil {
		return nil, model.SegmentStats{}, err
	}
	return segments, SegmentStatsOf(segments), nil
}

func (s *SegmentService) GetSegment(id int) (*model.Segment, error) {
	return s.SegmentRepo.GetByID(id)
}

func (s *SegmentService) CreateSegment(form SegmentForm) (*model.Segment, error) {
	trimAll(&form.Name, &form.Description, &form.Group, &form.Criteria, &form.Color)
	if err := validation.Struct(form); err != nil {
		return nil, err
	}
	seg := &model.Segment{
		Name:           form.Name,
		Description:    form.Description,
		Group:          form.Group,
		LeadsCount:     form.LeadsCount,
		Criteria:       form.Criteria,
		ConversionRate: form.ConversionRate,
		Color:          form.Color,
	}
	if seg.Color == "" {
		seg.Color = segmentColors[seg.Group]
	}
	if err := s.SegmentRepo.Create(seg); err != nil {
		return nil, err
	}
	loggerOrNop(s.Logger).Info("segment created", zap.Int("segment_id", seg.ID), zap.String("group", seg.Group))
	publish(s.Queue, s.Logger, queue.TopicSegmentCreated, queue.Notification{Notice: "segment created", Kind: "segment", RecordID: seg.ID})
	return seg, nil
}

// ExportSegment announces the export and returns its notice.
func (s *SegmentService) ExportSegment(id int) (string, error) {
	seg, err := s.SegmentRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	notice := fmt.Sprintf("exporting %d leads from segment %q", seg.LeadsCount, seg.Name)
	publish(s.Queue, s.Logger, queue.TopicSegmentExport, queue.Notification{Notice: notice, Kind: "segment", RecordID: id})
	return notice, nil
}

// ExportMarkdown renders the segment summary as a Markdown file.
func (s *SegmentService) ExportMarkdown(id int) (string, []byte, error) {
	seg, err := s.SegmentRepo.GetByID(id)
	if err != nil {
		return "", nil, err
	}
	var buf bytes.Buffer
	if _, err := report.NewMarkdownWriter(&buf).WriteSegment(seg, nowFrom(s.Now)); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("segment-%d.md", id), buf.Bytes(), nil
}

// CreateCampaign hands the segment to the campaign editor. No record is created.
func (s *SegmentService) CreateCampaign(id int) (string, error) {
	seg, err := s.SegmentRepo.GetByID(id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("opening editor for segment %q", seg.Name), nil
}
