package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
	"github.com/unclebandit/marketdesk-backend/internal/seed"
	"github.com/unclebandit/marketdesk-backend/internal/service"
	"github.com/unclebandit/marketdesk-backend/internal/session"
)

var fixedNow = time.Date(2024, 11, 8, 10, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// recordingQueue keeps every published event instead of delivering it.
type recordingQueue struct {
	mu     sync.Mutex
	events []queue.Event
	err    error
}

func (q *recordingQueue) Publish(topic string, payload any) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.events = append(q.events, queue.Event{Topic: topic, Payload: payload, At: fixedNow})
	return nil
}

func (q *recordingQueue) Subscribe(string, queue.Handler) error { return nil }
func (q *recordingQueue) Close() error                         { return nil }

func (q *recordingQueue) topics() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, len(q.events))
	for i, ev := range q.events {
		out[i] = ev.Topic
	}
	return out
}

func (q *recordingQueue) last() queue.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.events[len(q.events)-1]
}

type fixture struct {
	data     *seed.Dataset
	queue    *recordingQueue
	users    *repository.UserRepository
	leads    *repository.LeadRepository
	camps    *repository.CampaignRepository
	social   *repository.SocialRepository
	reports  *repository.ReportRepository
	segments *repository.SegmentRepository
	snaps    *repository.SnapshotRepository
	sessions *session.Manager
}

// newFixture builds every repository from the embedded dataset.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	data, err := seed.Default()
	require.NoError(t, err)
	users, err := service.BuildUsers(data.Users, bcrypt.MinCost)
	require.NoError(t, err)

	sessions := session.NewManager(session.NewMemoryStore(), time.Hour, 30*24*time.Hour)
	sessions.Now = clock

	return &fixture{
		data:     data,
		queue:    &recordingQueue{},
		users:    repository.NewUserRepository(users),
		leads:    repository.NewLeadRepository(data.Leads),
		camps:    repository.NewCampaignRepository(data.Campaigns, data.Templates),
		social:   repository.NewSocialRepository(data.Posts, data.Accounts),
		reports:  repository.NewReportRepository(data.Reports, data.ScheduledReports),
		segments: repository.NewSegmentRepository(data.Segments),
		snaps:    repository.NewSnapshotRepository(data.Dashboard, data.Analytics),
		sessions: sessions,
	}
}

func (f *fixture) authService() *service.AuthService {
	return &service.AuthService{UserRepo: f.users, Sessions: f.sessions, Queue: f.queue, HashCost: bcrypt.MinCost}
}

func (f *fixture) leadService() *service.LeadService {
	return &service.LeadService{LeadRepo: f.leads, Queue: f.queue, Now: clock, Score: func() int { return 64 }}
}

func (f *fixture) campaignService() *service.CampaignService {
	return &service.CampaignService{CampaignRepo: f.camps, LeadRepo: f.leads, Queue: f.queue, Now: clock, Location: time.UTC}
}

func (f *fixture) socialService() *service.SocialService {
	return &service.SocialService{SocialRepo: f.social, Queue: f.queue, Now: clock, Location: time.UTC}
}

func (f *fixture) reportService() *service.ReportService {
	return &service.ReportService{
		ReportRepo:   f.reports,
		LeadRepo:     f.leads,
		CampaignRepo: f.camps,
		SocialRepo:   f.social,
		Snapshots:    f.snaps,
		Queue:        f.queue,
		Now:          clock,
	}
}

func (f *fixture) segmentService() *service.SegmentService {
	return &service.SegmentService{SegmentRepo: f.segments, Queue: f.queue, Now: clock}
}

func (f *fixture) settingsService() *service.SettingsService {
	return &service.SettingsService{UserRepo: f.users, Queue: f.queue, HashCost: bcrypt.MinCost}
}

func (f *fixture) dashboardService() *service.DashboardService {
	return &service.DashboardService{Snapshots: f.snaps}
}
