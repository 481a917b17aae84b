package server

import (
	"github.com/pranava-mohan/WikiNITT/internal/middleware"
	"github.com/pranava-mohan/WikiNITT/internal/models"
	"github.com/pranava-mohan/WikiNITT/internal/service"

	"github.com/gofiber/fiber/v2"
)

// commentView is a comment as served in thread and reply payloads,
// annotated with the tree position flags the client renders from.
type commentView struct {
	*models.Comment
	Depth          int  `json:"depth"`
	CanReply       bool `json:"canReply"`
	HasMoreReplies bool `json:"hasMoreReplies"`
	Score          int  `json:"score"`
}

func viewOfNode(n *service.ThreadNode) commentView {
	return commentView{
		Comment:        n.Comment,
		Depth:          n.Depth,
		CanReply:       n.CanReply(),
		HasMoreReplies: n.HasMoreReplies(),
		Score:          n.Comment.Score(),
	}
}

// GetPost returns a post with its opening comment page (public)
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.UserContext()

	thread, err := s.commentService.LoadThread(ctx,
		middleware.Token(c), s.viewer(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}

	roots := thread.Comments()
	comments := make([]commentView, 0, len(roots))
	for _, n := range roots {
		comments = append(comments, viewOfNode(n))
	}

	// Comments travel alongside the post, not nested inside it.
	post := *thread.Post
	post.Comments = nil

	return c.JSON(fiber.Map{
		"post":     &post,
		"score":    post.Score(),
		"comments": comments,
		"hasMore":  thread.HasMoreComments(),
	})
}

// UpdatePost edits a post's title or content (protected, author or admin)
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	token := middleware.Token(c)

	viewer, err := s.requireViewer(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.communityService.GetPost(ctx, token, viewer.ID, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := s.communityService.UpdatePost(ctx, token, viewer, post, req.Title, req.Content); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes a post (protected, author or admin)
func (s *Server) DeletePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	token := middleware.Token(c)

	viewer, err := s.requireViewer(c)
	if err != nil {
		return respondServiceError(c, err)
	}

	post, err := s.communityService.GetPost(ctx, token, viewer.ID, c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}

	groupSlug := ""
	if post.Group != nil {
		groupSlug = post.Group.Slug
	}
	if err := s.communityService.DeletePost(ctx, token, viewer, post, groupSlug); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// VotePost casts, switches or retracts the viewer's vote on a post
// (protected). Clicking the current direction retracts it. The response
// carries the server's authoritative counters.
func (s *Server) VotePost(c *fiber.Ctx) error {
	ctx := c.UserContext()
	token := middleware.Token(c)

	var req struct {
		Vote models.VoteType `json:"vote"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.communityService.GetPost(ctx, token, middleware.ViewerID(c), c.Params("id"))
	if err != nil {
		return respondServiceError(c, err)
	}
	if err := s.voteService.VotePost(ctx, token, post, req.Vote); err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":        post.ID,
		"upvotes":   post.Upvotes,
		"downvotes": post.Downvotes,
		"userVote":  post.UserVote,
		"score":     post.Score(),
	})
}
