package server

import (
	"github.com/pranava-mohan/WikiNITT/internal/gateway"
	"github.com/pranava-mohan/WikiNITT/internal/middleware"
	"github.com/pranava-mohan/WikiNITT/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetMe returns the authenticated viewer's own record (protected)
func (s *Server) GetMe(c *fiber.Ctx) error {
	viewer, err := s.requireViewer(c)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(viewer)
}

// GetProfile returns a user's public profile (public)
func (s *Server) GetProfile(c *fiber.Ctx) error {
	user, err := s.userService.Profile(c.UserContext(),
		middleware.Token(c), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(user)
}

// GetProfilePosts serves a profile's posts tab. The tab is lazy: nothing
// loads until the first request, and ?more=true pages onward.
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	pager := s.userService.Posts(
		middleware.Token(c), middleware.ViewerID(c), c.Params("username"))
	body, err := pagerPage(c.UserContext(), c, pager)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(body)
}

// GetProfileComments serves a profile's comments tab
func (s *Server) GetProfileComments(c *fiber.Ctx) error {
	pager := s.userService.Comments(
		middleware.Token(c), middleware.ViewerID(c), c.Params("username"))
	body, err := pagerPage(c.UserContext(), c, pager)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(body)
}

// GetProfileGroups serves a profile's groups tab
func (s *Server) GetProfileGroups(c *fiber.Ctx) error {
	groups, err := s.userService.Groups(c.UserContext(),
		middleware.Token(c), c.Params("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"items": groups})
}

// CheckUsername reports whether a handle is well-formed and free (public)
func (s *Server) CheckUsername(c *fiber.Ctx) error {
	available, err := s.userService.CheckUsername(c.UserContext(), c.Query("username"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"available": available})
}

// CompleteSetup finalizes a first-time account with its handle and display
// name (protected)
func (s *Server) CompleteSetup(c *fiber.Ctx) error {
	var req gateway.CompleteSetupInput
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.userService.CompleteSetup(c.UserContext(), middleware.Token(c), req); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

// UploadAvatar forwards a multipart image to the upstream API and returns
// the hosted URL (protected)
func (s *Server) UploadAvatar(c *fiber.Ctx) error {
	header, err := c.FormFile("file")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required"))
	}

	file, err := header.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Unreadable image file"))
	}
	defer file.Close()

	url, err := s.userService.UploadUserImage(c.UserContext(),
		middleware.Token(c), header.Filename, file)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"url": url})
}
