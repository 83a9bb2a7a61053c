package service

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/queue"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
	"github.com/unclebandit/marketdesk-backend/internal/validation"
)

// defaultMaxChars applies while no platform is selected.
const defaultMaxChars = 2000

const defaultPostImage = "📱"

type SocialService struct {
	SocialRepo repository.SocialRepositoryInterface
	Queue      queue.Queue
	Logger     *zap.Logger
	Now        func() time.Time
	Location   *time.Location
}

type SocialPostForm struct {
	Content       string   `json:"content" validate:"required,min=10,max=2000"`
	Platforms     []string `json:"platforms" validate:"min=1,unique,dive,oneof=facebook instagram twitter linkedin"`
	ScheduledDate string   `json:"scheduled_date" validate:"omitempty,isodate"`
	ScheduledTime string   `json:"scheduled_time" validate:"omitempty,hhmm"`
	ImageURL      string   `json:"image_url" validate:"max=500"`
}

// MaxChars is the tightest character limit among the selected platforms.
func MaxChars(platforms []string) int {
	limit := 0
	for _, id := range platforms {
		p, ok := model.PlatformByID(id)
		if !ok {
			continue
		}
		if limit == 0 || p.MaxChars < limit {
			limit = p.MaxChars
		}
	}
	if limit == 0 {
		return defaultMaxChars
	}
	return limit
}

func platformNames(ids []string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := model.PlatformByID(id); ok {
			names = append(names, p.Name)
		}
	}
	return strings.Join(names, ", ")
}

// CreatePost publishes the post now, or schedules it when both a date and a
// time are given.
func (s *SocialService) CreatePost(form SocialPostForm) (*model.SocialPost, string, error) {
	trimAll(&form.Content, &form.ScheduledDate, &form.ScheduledTime, &form.ImageURL)
	for i := range form.Platforms {
		form.Platforms[i] = strings.TrimSpace(form.Platforms[i])
	}

	err := validation.Struct(form)
	if limit := MaxChars(form.Platforms); utf8.RuneCountInString(form.Content) > limit {
		err = validation.Merge(err, map[string]string{
			"content": fmt.Sprintf("content must be at most %d characters for the selected platforms", limit),
		})
	}
	if err != nil {
		return nil, "", err
	}

	now := nowFrom(s.Now)
	post := &model.SocialPost{
		Platform:  form.Platforms[0],
		Platforms: form.Platforms,
		Content:   form.Content,
		Date:      now,
		Image:     form.ImageURL,
		Status:    model.PostPublished,
	}
	if post.Image == "" {
		post.Image = defaultPostImage
	}

	scheduled := form.ScheduledDate != "" && form.ScheduledTime != ""
	if scheduled {
		loc := s.Location
		if loc == nil {
			loc = time.Local
		}
		at, err := time.ParseInLocation("2006-01-02 15:04", form.ScheduledDate+" "+form.ScheduledTime, loc)
		if err != nil {
			return nil, "", appErrors.NewValidation("scheduled_date", "invalid scheduled date or time")
		}
		post.Date = at
		post.Status = model.PostScheduled
	}

	if err := s.SocialRepo.Create(post); err != nil {
		return nil, "", err
	}

	notice := "post published on " + platformNames(post.Platforms)
	if scheduled {
		notice = "post scheduled on " + platformNames(post.Platforms) + " for " + post.Date.Format("02.01.2006 15:04")
	}
	loggerOrNop(s.Logger).Info("social post created", zap.Int("post_id", post.ID), zap.String("status", post.Status))
	publish(s.Queue, s.Logger, queue.TopicPostCreated, queue.Notification{Notice: notice, Kind: "social_post", RecordID: post.ID})
	return post, notice, nil
}

// RecentPosts lists every post newest first, optionally for one platform.
func (s *SocialService) RecentPosts(platform string) ([]*model.SocialPost, error) {
	return s.SocialRepo.List(platform, "")
}

func (s *SocialService) ScheduledPosts(platform string) ([]*model.SocialPost, error) {
	return s.SocialRepo.List(platform, model.PostScheduled)
}

func (s *SocialService) Accounts() []model.SocialAccount {
	return s.SocialRepo.Accounts()
}

func (s *SocialService) Platforms() []model.Platform {
	return append([]model.Platform(nil), model.Platforms...)
}
