package gateway

import (
	"context"

	"github.com/machinebox/graphql"

	"github.com/pranava-mohan/WikiNITT/internal/models"
)

// Articles lists editorial articles, optionally filtered by category and
// the featured flag. An empty category means all categories.
func (c *Client) Articles(ctx context.Context, category string, limit, offset int, featured *bool) ([]*models.Article, error) {
	req := graphql.NewRequest(getArticlesQuery)
	if category != "" {
		req.Var("category", category)
	}
	req.Var("limit", limit)
	req.Var("offset", offset)
	if featured != nil {
		req.Var("featured", *featured)
	}

	var resp struct {
		Articles []*models.Article `json:"articles"`
	}
	if err := c.run(ctx, "articles", "", req, &resp); err != nil {
		return nil, err
	}
	return resp.Articles, nil
}

// ArticleBySlug fetches a full article body. A null article is not-found.
func (c *Client) ArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	req := graphql.NewRequest(getArticleBySlugQuery)
	req.Var("slug", slug)

	var resp struct {
		ArticleBySlug *models.Article `json:"articleBySlug"`
	}
	if err := c.run(ctx, "articleBySlug", "", req, &resp); err != nil {
		return nil, err
	}
	if resp.ArticleBySlug == nil {
		return nil, models.NewNotFoundError("article", slug)
	}
	return resp.ArticleBySlug, nil
}
