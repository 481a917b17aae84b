package service

import (
	"context"
	"fmt"

	"github.com/pranava-mohan/WikiNITT/internal/cache"
	"github.com/pranava-mohan/WikiNITT/internal/models"
	"github.com/pranava-mohan/WikiNITT/internal/query"
)

// articleGateway is the slice of the gateway the article service needs.
type articleGateway interface {
	Articles(ctx context.Context, category string, limit, offset int, featured *bool) ([]*models.Article, error)
	ArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
}

// ArticleService serves the editorial section: category listings, the
// featured strip, and full article pages. Articles are the same for every
// viewer, so they cache without a viewer scope.
type ArticleService struct {
	gw    articleGateway
	lists *query.Registry[*models.Article]
}

func NewArticleService(gw articleGateway) *ArticleService {
	return &ArticleService{gw: gw, lists: query.NewRegistry[*models.Article]()}
}

// List returns the pager over a category listing. An empty category spans
// all of them; featured narrows to the highlighted set when non-nil.
func (s *ArticleService) List(category string, featured *bool) *query.Pager[*models.Article] {
	key := fmt.Sprintf("articles:%s:%s", category, featuredTag(featured))
	return s.lists.Get(key, func() *query.Pager[*models.Article] {
		return query.NewPager(query.FeedPageSize, func(ctx context.Context, limit, offset int) ([]*models.Article, error) {
			var page []*models.Article
			cacheKey := cache.ArticleListKey(category, featuredTag(featured), limit, offset)
			err := cache.Aside(ctx, cacheKey, &page, cache.ArticleListTTL, func() error {
				fetched, err := s.gw.Articles(ctx, category, limit, offset, featured)
				if err != nil {
					return err
				}
				for _, a := range fetched {
					a.Description = articleDescription(a)
				}
				page = fetched
				return nil
			})
			return page, err
		})
	})
}

// Get fetches a full article by slug, cache-aside.
func (s *ArticleService) Get(ctx context.Context, slug string) (*models.Article, error) {
	var article *models.Article
	err := cache.Aside(ctx, cache.ArticleKey(slug), &article, cache.ArticleTTL, func() error {
		fetched, err := s.gw.ArticleBySlug(ctx, slug)
		if err != nil {
			return err
		}
		article = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	if article == nil {
		return nil, models.NewNotFoundError("article", slug)
	}
	return article, nil
}

const descriptionRunes = 50

// articleDescription falls back to a truncated slice of the body when the
// upstream sends no description, the same cut the editorial page shows.
func articleDescription(a *models.Article) string {
	if a.Description != "" {
		return a.Description
	}
	runes := []rune(a.Content)
	if len(runes) > descriptionRunes {
		return string(runes[:descriptionRunes]) + "..."
	}
	return a.Content
}

func featuredTag(featured *bool) string {
	switch {
	case featured == nil:
		return "all"
	case *featured:
		return "featured"
	default:
		return "regular"
	}
}
