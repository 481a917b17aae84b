package server

import (
	"context"
	"errors"

	"github.com/pranava-mohan/WikiNITT/internal/middleware"
	"github.com/pranava-mohan/WikiNITT/internal/models"
	"github.com/pranava-mohan/WikiNITT/internal/query"

	"github.com/gofiber/fiber/v2"
)

// Pagination holds parsed limit/offset query parameters.
type Pagination struct {
	Limit  int
	Offset int
}

const maxPaginationLimit = 100

// parsePagination extracts limit and offset query parameters with the given default limit.
func parsePagination(c *fiber.Ctx, defaultLimit int) Pagination {
	limit := c.QueryInt("limit", defaultLimit)
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxPaginationLimit {
		limit = maxPaginationLimit
	}

	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return Pagination{
		Limit:  limit,
		Offset: offset,
	}
}

// respondServiceError maps the application error taxonomy onto HTTP status
// codes. A null upstream entity is 404; an unreachable or failing upstream
// is 502 so callers can tell the two apart.
func respondServiceError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeValidation:
			status = fiber.StatusBadRequest
		case models.CodeUnauthorized:
			status = fiber.StatusUnauthorized
		case models.CodeGateway:
			status = fiber.StatusBadGateway
		}
	}
	return models.RespondWithError(c, status, err)
}

// viewer resolves the session to the viewer's record, or nil for anonymous
// or stale sessions. Reads that only personalize on a best-effort basis use
// this instead of failing the request.
func (s *Server) viewer(c *fiber.Ctx) *models.Viewer {
	token := middleware.Token(c)
	if token == "" {
		return nil
	}
	v, err := s.userService.CurrentViewer(c.UserContext(), token)
	if err != nil {
		return nil
	}
	return v
}

// requireViewer resolves the session to the viewer's record for mutating
// handlers running behind AuthRequired.
func (s *Server) requireViewer(c *fiber.Ctx) (*models.Viewer, error) {
	return s.userService.CurrentViewer(c.UserContext(), middleware.Token(c))
}

// pagerPage advances a pager when asked and shapes its state for a list
// response. Passing ?more=true (or hitting a tab for the first time) loads
// the next page; the response carries everything loaded so far.
func pagerPage[T any](ctx context.Context, c *fiber.Ctx, p *query.Pager[T]) (fiber.Map, error) {
	if !p.Loaded() || c.QueryBool("more") {
		if _, err := p.LoadMore(ctx); err != nil {
			return nil, err
		}
	}
	return fiber.Map{
		"items":   p.Items(),
		"hasMore": p.HasMore(),
		"pages":   p.Pages(),
	}, nil
}
