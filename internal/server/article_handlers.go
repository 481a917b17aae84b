package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetArticles returns the editorial listing for a category (public).
// ?featured=true narrows to the highlighted strip; ?more=true loads the
// next page of the listing.
func (s *Server) GetArticles(c *fiber.Ctx) error {
	category := c.Query("category")

	var featured *bool
	if c.Query("featured") != "" {
		f := c.QueryBool("featured")
		featured = &f
	}

	pager := s.articleService.List(category, featured)
	body, err := pagerPage(c.UserContext(), c, pager)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(body)
}

// GetArticle returns one full article by slug (public)
func (s *Server) GetArticle(c *fiber.Ctx) error {
	article, err := s.articleService.Get(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(article)
}
