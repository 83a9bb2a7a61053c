package repository

import (
	"github.com/unclebandit/marketdesk-backend/internal/model"
)

type SocialRepositoryInterface interface {
	Create(p *model.SocialPost) error
	List(platform, status string) ([]*model.SocialPost, error)
	Accounts() []model.SocialAccount
}

type SocialRepository struct {
	table    *table[model.SocialPost]
	accounts []model.SocialAccount
}

func NewSocialRepository(seed []model.SocialPost, accounts []model.SocialAccount) *SocialRepository {
	r := &SocialRepository{
		table: newTable("social post",
			func(p *model.SocialPost) int { return p.ID },
			func(p *model.SocialPost, id int) { p.ID = id },
			func(p *model.SocialPost) *model.SocialPost {
				c := *p
				c.Platforms = append([]string(nil), p.Platforms...)
				return &c
			}),
		accounts: append([]model.SocialAccount(nil), accounts...),
	}
	r.table.seed(seed)
	return r
}

func (r *SocialRepository) Create(p *model.SocialPost) error {
	r.table.insert(p)
	return nil
}

// List returns posts newest first. A post matches a platform if it targets it at all.
func (r *SocialRepository) List(platform, status string) ([]*model.SocialPost, error) {
	posts := []*model.SocialPost{}
	for _, p := range r.table.all() {
		if status != "" && p.Status != status {
			continue
		}
		if platform != "" && !targets(p, platform) {
			continue
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func targets(p *model.SocialPost, platform string) bool {
	if p.Platform == platform {
		return true
	}
	for _, id := range p.Platforms {
		if id == platform {
			return true
		}
	}
	return false
}

func (r *SocialRepository) Accounts() []model.SocialAccount {
	return append([]model.SocialAccount(nil), r.accounts...)
}

var _ SocialRepositoryInterface = (*SocialRepository)(nil)
