// internal/model/social_post.go
package model

import "time"

const (
	PostPublished = "published"
	PostScheduled = "scheduled"
)

// Platform is a social network a post can target, with its character limit.
type Platform struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MaxChars int    `json:"max_chars"`
}

var Platforms = []Platform{
	{ID: "facebook", Name: "Facebook", MaxChars: 63206},
	{ID: "instagram", Name: "Instagram", MaxChars: 2200},
	{ID: "twitter", Name: "Twitter/X", MaxChars: 280},
	{ID: "linkedin", Name: "LinkedIn", MaxChars: 3000},
}

func PlatformByID(id string) (Platform, bool) {
	for _, p := range Platforms {
		if p.ID == id {
			return p, true
		}
	}
	return Platform{}, false
}

type SocialPost struct {
	ID        int       `json:"id" yaml:"id"`
	Platform  string    `json:"platform" yaml:"platform"`
	Platforms []string  `json:"platforms" yaml:"platforms"`
	Content   string    `json:"content" yaml:"content"`
	Date      time.Time `json:"date" yaml:"date"`
	Likes     int       `json:"likes" yaml:"likes"`
	Comments  int       `json:"comments" yaml:"comments"`
	Shares    int       `json:"shares" yaml:"shares"`
	Views     int       `json:"views" yaml:"views"`
	Image     string    `json:"image" yaml:"image"`
	Status    string    `json:"status" yaml:"status"`
}

type SocialAccount struct {
	Platform   string  `json:"platform" yaml:"platform"`
	Followers  int     `json:"followers" yaml:"followers"`
	Engagement float64 `json:"engagement" yaml:"engagement"`
}
