package server

import (
	"github.com/pranava-mohan/WikiNITT/internal/gateway"
	"github.com/pranava-mohan/WikiNITT/internal/middleware"
	"github.com/pranava-mohan/WikiNITT/internal/models"
	"github.com/pranava-mohan/WikiNITT/internal/query"

	"github.com/gofiber/fiber/v2"
)

// GetComments returns one page of top-level comments for a post (public).
// The first twenty ride along with GET /posts/:id; this endpoint serves
// the pages after them.
func (s *Server) GetComments(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	comments, err := s.commentService.TopComments(c.UserContext(),
		middleware.Token(c), c.Params("id"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"items":   comments,
		"hasMore": len(comments) == p.Limit,
	})
}

// GetReplies returns one page of replies under a comment, five at a time
// (public)
func (s *Server) GetReplies(c *fiber.Ctx) error {
	p := parsePagination(c, query.RepliesPageSize)

	replies, err := s.commentService.Replies(c.UserContext(),
		middleware.Token(c), middleware.ViewerID(c), c.Params("id"), p.Limit, p.Offset)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"items":   replies,
		"hasMore": len(replies) == p.Limit,
	})
}

// CreateComment authors a comment on a post, or a reply when parentId is
// set (protected)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	var req struct {
		Content  string  `json:"content"`
		ParentID *string `json:"parentId"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	created, err := s.commentService.CreateComment(c.UserContext(), middleware.Token(c),
		gateway.NewComment{
			PostID:   c.Params("id"),
			Content:  req.Content,
			ParentID: req.ParentID,
		})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateComment rewrites a comment's content (protected, author or admin
// upstream)
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	var req struct {
		PostID  string `json:"postId"`
		Content string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	updated, err := s.commentService.EditComment(c.UserContext(), middleware.Token(c),
		req.PostID, c.Params("id"), req.Content)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(updated)
}

// DeleteComment removes a comment (protected, author or admin upstream).
// ?postId= lets the gateway drop the post's cached thread too.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	err := s.commentService.RemoveComment(c.UserContext(), middleware.Token(c),
		c.Query("postId"), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VoteComment casts, switches or retracts the viewer's vote on a comment
// (protected). The request carries the viewer's current vote so retraction
// resolves the same way it does on a loaded thread.
func (s *Server) VoteComment(c *fiber.Ctx) error {
	var req struct {
		Vote    models.VoteType `json:"vote"`
		Current models.VoteType `json:"current"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	if req.Current == "" {
		req.Current = models.VoteNone
	}

	comment := &models.Comment{ID: c.Params("id"), UserVote: req.Current}
	if err := s.voteService.VoteComment(c.UserContext(), middleware.Token(c), comment, req.Vote); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":        comment.ID,
		"upvotes":   comment.Upvotes,
		"downvotes": comment.Downvotes,
		"userVote":  comment.UserVote,
		"score":     comment.Score(),
	})
}
