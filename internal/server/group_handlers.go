package server

import (
	"context"

	"github.com/pranava-mohan/WikiNITT/internal/gateway"
	"github.com/pranava-mohan/WikiNITT/internal/middleware"
	"github.com/pranava-mohan/WikiNITT/internal/models"
	"github.com/pranava-mohan/WikiNITT/internal/query"

	"github.com/gofiber/fiber/v2"
)

// GetGroups returns one page of the group directory (public)
func (s *Server) GetGroups(c *fiber.Ctx) error {
	ctx := c.UserContext()
	p := parsePagination(c, query.FeedPageSize)

	groups, err := s.communityService.ListGroups(ctx,
		middleware.Token(c), middleware.ViewerID(c), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"items":   groups,
		"hasMore": len(groups) == p.Limit,
	})
}

// GetGroup returns a group page with its opening post listing (public)
func (s *Server) GetGroup(c *fiber.Ctx) error {
	group, err := s.communityService.GetGroup(c.UserContext(),
		middleware.Token(c), middleware.ViewerID(c), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(group)
}

// GetGroupPosts returns the group's post listing. The listing resumes
// where the viewer left it; ?more=true loads the next page.
func (s *Server) GetGroupPosts(c *fiber.Ctx) error {
	ctx := c.UserContext()
	token := middleware.Token(c)
	viewerID := middleware.ViewerID(c)

	group, err := s.communityService.GetGroup(ctx, token, viewerID, c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}

	pager := s.communityService.GroupPosts(token, viewerID, group)
	body, err := pagerPage(ctx, c, pager)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(body)
}

// GetFeed returns the cross-group public feed, ten posts a page
func (s *Server) GetFeed(c *fiber.Ctx) error {
	pager := s.communityService.Feed(middleware.Token(c), middleware.ViewerID(c))
	body, err := pagerPage(c.UserContext(), c, pager)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(body)
}

// CreateGroup creates a new group (protected)
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	var req gateway.NewGroup
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.communityService.CreateGroup(c.UserContext(), middleware.Token(c), req)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(group)
}

// UpdateGroup edits a group's name, description or icon (protected).
// Renaming can regenerate the slug; the response carries the new address
// so clients can redirect.
func (s *Server) UpdateGroup(c *fiber.Ctx) error {
	ctx := c.UserContext()
	token := middleware.Token(c)

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Icon        *string `json:"icon"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.communityService.GetGroup(ctx, token, middleware.ViewerID(c), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}

	result, err := s.communityService.UpdateGroup(ctx, token, group, gateway.GroupPatch{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"group":       result.Group,
		"slugChanged": result.SlugChanged,
	})
}

// JoinGroup makes the viewer a member (protected)
func (s *Server) JoinGroup(c *fiber.Ctx) error {
	return s.membership(c, s.communityService.JoinGroup)
}

// LeaveGroup drops the viewer's membership (protected)
func (s *Server) LeaveGroup(c *fiber.Ctx) error {
	return s.membership(c, s.communityService.LeaveGroup)
}

func (s *Server) membership(c *fiber.Ctx, flip func(ctx context.Context, token string, group *models.Group) error) error {
	ctx := c.UserContext()
	token := middleware.Token(c)

	group, err := s.communityService.GetGroup(ctx, token, middleware.ViewerID(c), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := flip(ctx, token, group); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(group)
}

// DeleteGroup removes a group entirely (protected, owner or admin upstream)
func (s *Server) DeleteGroup(c *fiber.Ctx) error {
	ctx := c.UserContext()
	token := middleware.Token(c)

	group, err := s.communityService.GetGroup(ctx, token, middleware.ViewerID(c), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := s.communityService.DeleteGroup(ctx, token, group); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreatePost publishes a post into a group (protected)
func (s *Server) CreatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	token := middleware.Token(c)
	slug := c.Params("slug")

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	group, err := s.communityService.GetGroup(ctx, token, middleware.ViewerID(c), slug)
	if err != nil {
		return respondServiceError(c, err)
	}

	post, err := s.communityService.CreatePost(ctx, token, slug, gateway.NewPost{
		GroupID: group.ID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}
