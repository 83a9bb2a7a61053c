package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

// MockCampaignPaginationRepo serves five campaigns, newest first.
type MockCampaignPaginationRepo struct {
	repository.CampaignRepositoryInterface
	lastFilter repository.CampaignFilter
}

func (m *MockCampaignPaginationRepo) ListCampaigns(f repository.CampaignFilter) ([]*model.Campaign, int, error) {
	m.lastFilter = f
	all := []*model.Campaign{
		{ID: 5, Name: "C5", Sent: 10, Opened: 5},
		{ID: 4, Name: "C4"},
		{ID: 3, Name: "C3"},
		{ID: 2, Name: "C2"},
		{ID: 1, Name: "C1"},
	}

	start := f.Offset
	end := f.Offset + f.Limit
	if start >= len(all) {
		return []*model.Campaign{}, len(all), nil
	}
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func TestPagination(t *testing.T) {
	repo := &MockCampaignPaginationRepo{}
	svc := &service.CampaignService{CampaignRepo: repo}

	page1, pagination1, err := svc.ListCampaigns(service.CampaignQuery{}, service.Page{Page: 1, PageSize: 2})
	require.NoError(t, err)
	page2, _, err := svc.ListCampaigns(service.CampaignQuery{}, service.Page{Page: 2, PageSize: 2})
	require.NoError(t, err)

	assert.Equal(t, 5, pagination1["total_count"])
	assert.Equal(t, 3, pagination1["total_pages"])
	require.Len(t, page1, 2)
	require.Len(t, page2, 2)

	assert.Greater(t, page1[0].ID, page1[1].ID)
	assert.Greater(t, page2[0].ID, page2[1].ID)
	assert.NotEqual(t, page1[1].ID, page2[0].ID, "duplicate entry between pages")
	assert.Equal(t, 50.0, page1[0].OpenRate)

	page3, pagination3, err := svc.ListCampaigns(service.CampaignQuery{Status: "active", Order: "DESC"}, service.Page{Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page3, 1)
	assert.Equal(t, 5, pagination3["total_count"])
	assert.Equal(t, "active", repo.lastFilter.Status)
	assert.True(t, repo.lastFilter.Desc)
	assert.Equal(t, 4, repo.lastFilter.Offset)
}

func campaignForm() service.CampaignForm {
	return service.CampaignForm{
		Name:          "Black Friday",
		Subject:       "Deals for {name}",
		Template:      "promo",
		ScheduledDate: "2024-11-09",
		ScheduledTime: "09:00",
		Content:       "Hello {name} from {company}, {position}",
	}
}

func TestCreateCampaignScheduledOrDraft(t *testing.T) {
	f := newFixture(t)
	svc := f.campaignService()

	c, notice, err := svc.CreateCampaign(campaignForm())
	require.NoError(t, err)
	assert.Equal(t, model.CampaignScheduled, c.Status)
	assert.Equal(t, "campaign scheduled for 09.11.2024 09:00", notice)
	assert.Equal(t, 5, c.ID)

	past := campaignForm()
	past.ScheduledDate = "2024-11-01"
	c, notice, err = svc.CreateCampaign(past)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignDraft, c.Status)
	assert.Equal(t, "draft saved", notice)
	assert.Equal(t, []string{queue.TopicCampaignCreated, queue.TopicCampaignCreated}, f.queue.topics())
}

func TestCreateCampaignDefaultsSubjectFromTemplate(t *testing.T) {
	svc := newFixture(t).campaignService()

	form := campaignForm()
	form.Subject = "  "
	form.Template = "welcome"
	c, _, err := svc.CreateCampaign(form)
	require.NoError(t, err)
	assert.Equal(t, "👋 Welcome! Let's get started", c.Subject)
}

func TestCreateCampaignValidation(t *testing.T) {
	svc := newFixture(t).campaignService()

	form := campaignForm()
	form.Name = "ab"
	form.Template = "newsletter"
	form.ScheduledDate = "09.11.2024"
	form.ScheduledTime = "25:00"
	form.Content = "short"
	_, _, err := svc.CreateCampaign(form)
	verr, ok := appErrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "name must be at least 3 characters", verr.Fields["name"])
	assert.Equal(t, "template must be one of: promo, product, welcome, reminder", verr.Fields["template"])
	assert.Equal(t, "scheduled date must be a date in YYYY-MM-DD format", verr.Fields["scheduled_date"])
	assert.Equal(t, "scheduled time must be a time in HH:MM format", verr.Fields["scheduled_time"])
	assert.Equal(t, "content must be at least 10 characters", verr.Fields["content"])
}

func TestCampaignStats(t *testing.T) {
	svc := newFixture(t).campaignService()

	stats, err := svc.Stats()
	require.NoError(t, err)
	assert.Equal(t, 24624, stats.TotalSent)
	assert.Equal(t, 7120, stats.TotalClicked)
	assert.Equal(t, "28.9", stats.AverageCTR)
	assert.Equal(t, map[string]int{"active": 2, "scheduled": 1, "completed": 1}, stats.ByStatus)
}

func TestDuplicateCampaign(t *testing.T) {
	svc := newFixture(t).campaignService()

	c, err := svc.Duplicate(1)
	require.NoError(t, err)
	assert.Equal(t, "Summer promo 2024 (copy)", c.Name)
	assert.Equal(t, model.CampaignDraft, c.Status)
	assert.Zero(t, c.Sent)
	assert.Zero(t, c.OpenRate)

	_, err = svc.Duplicate(99)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestPauseResume(t *testing.T) {
	svc := newFixture(t).campaignService()

	c, notice, err := svc.PauseResume(1)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignPaused, c.Status)
	assert.Equal(t, "campaign paused", notice)
	require.NotNil(t, c.UpdatedAt)
	assert.Equal(t, fixedNow, *c.UpdatedAt)

	c, notice, err = svc.PauseResume(1)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignActive, c.Status)
	assert.Equal(t, "campaign resumed", notice)

	_, _, err = svc.PauseResume(2)
	assert.ErrorIs(t, err, appErrors.ErrInvalidState)

	got, err := svc.GetCampaignDetails(2)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignScheduled, got.Status)
	assert.Nil(t, got.UpdatedAt, "a refused change is not stamped")
}

func TestSendNow(t *testing.T) {
	svc := newFixture(t).campaignService()

	c, err := svc.SendNow(2)
	require.NoError(t, err)
	assert.Equal(t, model.CampaignActive, c.Status)
	require.NotNil(t, c.UpdatedAt)
	assert.Equal(t, fixedNow, *c.UpdatedAt)

	_, err = svc.SendNow(3)
	assert.ErrorIs(t, err, appErrors.ErrInvalidState)
}

func TestDeleteCampaign(t *testing.T) {
	svc := newFixture(t).campaignService()

	require.NoError(t, svc.DeleteCampaign(4))
	_, err := svc.GetCampaignDetails(4)
	assert.True(t, appErrors.IsNotFound(err))
	assert.True(t, appErrors.IsNotFound(svc.DeleteCampaign(4)))
}

func TestRenderPreview(t *testing.T) {
	svc := newFixture(t).campaignService()

	c, _, err := svc.CreateCampaign(campaignForm())
	require.NoError(t, err)

	preview, err := svc.RenderPreview(c.ID, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, "Deals for Марія Петренко", preview.Subject)
	assert.Equal(t, "Hello Марія Петренко from Marketing Pro, N/A", preview.Content)

	override := "Hi {name}, {unknown} stays"
	preview, err = svc.RenderPreview(c.ID, 1, &override)
	require.NoError(t, err)
	assert.Equal(t, "Hi Олександр Коваль, {unknown} stays", preview.Content)

	_, err = svc.RenderPreview(c.ID, 42, nil)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestRenderTemplate(t *testing.T) {
	out := service.RenderTemplate("{name} / {company}", map[string]string{"name": "Ann", "company": " "})
	assert.Equal(t, "Ann / N/A", out)
}
