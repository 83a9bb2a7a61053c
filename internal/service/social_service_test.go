package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/service"
)

func TestMaxChars(t *testing.T) {
	assert.Equal(t, 2000, service.MaxChars(nil))
	assert.Equal(t, 63206, service.MaxChars([]string{"facebook"}))
	assert.Equal(t, 280, service.MaxChars([]string{"linkedin", "twitter"}))
	assert.Equal(t, 2200, service.MaxChars([]string{"facebook", "instagram"}))
}

func TestCreatePostRespectsPlatformLimit(t *testing.T) {
	svc := newFixture(t).socialService()
	content := strings.Repeat("x", 300)

	_, _, err := svc.CreatePost(service.SocialPostForm{Content: content, Platforms: []string{"twitter"}})
	verr, ok := appErrors.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "content must be at most 280 characters for the selected platforms", verr.Fields["content"])

	post, notice, err := svc.CreatePost(service.SocialPostForm{Content: content, Platforms: []string{"facebook"}})
	require.NoError(t, err)
	assert.Equal(t, model.PostPublished, post.Status)
	assert.Equal(t, "post published on Facebook", notice)
	assert.Equal(t, "📱", post.Image)
	assert.Equal(t, fixedNow, post.Date)
}

func TestCreatePostValidation(t *testing.T) {
	svc := newFixture(t).socialService()

	_, _, err := svc.CreatePost(service.SocialPostForm{Content: "too short"})
	verr, ok := appErrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "content")
	assert.Contains(t, verr.Fields, "platforms")

	_, _, err = svc.CreatePost(service.SocialPostForm{Content: "Long enough content", Platforms: []string{"myspace"}})
	verr, ok = appErrors.AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, verr.Fields, "platforms")
}

func TestCreatePostScheduled(t *testing.T) {
	svc := newFixture(t).socialService()

	post, notice, err := svc.CreatePost(service.SocialPostForm{
		Content:       "Launch day is coming soon",
		Platforms:     []string{"facebook", "linkedin"},
		ScheduledDate: "2024-11-12",
		ScheduledTime: "18:00",
		ImageURL:      "https://cdn.example.com/launch.png",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, post.ID)
	assert.Equal(t, model.PostScheduled, post.Status)
	assert.Equal(t, "facebook", post.Platform)
	assert.Equal(t, time.Date(2024, 11, 12, 18, 0, 0, 0, time.UTC), post.Date)
	assert.Equal(t, "post scheduled on Facebook, LinkedIn for 12.11.2024 18:00", notice)

	scheduled, err := svc.ScheduledPosts("linkedin")
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.Equal(t, post.ID, scheduled[0].ID)

	// a date without a time publishes immediately
	post, _, err = svc.CreatePost(service.SocialPostForm{
		Content:       "Posting this one right away",
		Platforms:     []string{"instagram"},
		ScheduledDate: "2024-11-12",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PostPublished, post.Status)
}

func TestRecentPostsAndAccounts(t *testing.T) {
	svc := newFixture(t).socialService()

	posts, err := svc.RecentPosts("instagram")
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	all, err := svc.RecentPosts("")
	require.NoError(t, err)
	assert.Len(t, all, 5)

	assert.Len(t, svc.Accounts(), 4)
	assert.Len(t, svc.Platforms(), 4)
}
