package server

import (
	"github.com/pranava-mohan/WikiNITT/internal/gateway"
	"github.com/pranava-mohan/WikiNITT/internal/middleware"
	"github.com/pranava-mohan/WikiNITT/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetDiscussion returns a group's chat container with its channels
// (protected, members only upstream)
func (s *Server) GetDiscussion(c *fiber.Ctx) error {
	ctx := c.UserContext()
	token := middleware.Token(c)

	group, err := s.communityService.GetGroup(ctx, token, middleware.ViewerID(c), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}

	discussion, err := s.communityService.Discussion(ctx, token, group.ID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(discussion)
}

// GetChannelMessages returns a channel's history page by page (protected).
// ?more=true loads the next, older page.
func (s *Server) GetChannelMessages(c *fiber.Ctx) error {
	pager := s.communityService.ChannelMessages(
		middleware.Token(c), middleware.ViewerID(c), c.Params("id"))
	body, err := pagerPage(c.UserContext(), c, pager)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(body)
}

// SendMessage posts a chat message into a channel (protected)
func (s *Server) SendMessage(c *fiber.Ctx) error {
	var req struct {
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.communityService.SendMessage(c.UserContext(), middleware.Token(c),
		gateway.NewMessage{
			ChannelID: c.Params("id"),
			Content:   req.Content,
		})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// CreateChannel adds a channel to a discussion (protected)
func (s *Server) CreateChannel(c *fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	channel, err := s.communityService.CreateChannel(c.UserContext(), middleware.Token(c),
		gateway.NewChannel{
			DiscussionID: c.Params("id"),
			Name:         req.Name,
			Type:         req.Type,
		})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(channel)
}
