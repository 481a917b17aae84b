package service

import (
	"context"

	"github.com/pranava-mohan/WikiNITT/internal/cache"
	"github.com/pranava-mohan/WikiNITT/internal/gateway"
	"github.com/pranava-mohan/WikiNITT/internal/models"
	"github.com/pranava-mohan/WikiNITT/internal/observability"
)

// voteGateway is the slice of the gateway vote operations need.
type voteGateway interface {
	VotePost(ctx context.Context, token, postID string, vote models.VoteType) (*gateway.VoteResult, error)
	VoteComment(ctx context.Context, token, commentID string, vote models.VoteType) (*gateway.VoteResult, error)
}

// VoteService applies votes optimistically: counters move before the server
// answers, the server's response is authoritative, and a failure restores
// the exact pre-click state.
type VoteService struct {
	gw voteGateway
}

func NewVoteService(gw voteGateway) *VoteService {
	return &VoteService{gw: gw}
}

// Resolve computes the vote to submit from the viewer's current vote and
// the button they clicked. Clicking the active direction retracts it.
func Resolve(current, clicked models.VoteType) models.VoteType {
	if clicked == current {
		return models.VoteNone
	}
	return clicked
}

// applyDelta moves the counters for a current→next transition: the old
// vote is undone, then the new one applied.
func applyDelta(up, down int, current, next models.VoteType) (int, int) {
	switch current {
	case models.VoteUp:
		up--
	case models.VoteDown:
		down--
	}
	switch next {
	case models.VoteUp:
		up++
	case models.VoteDown:
		down++
	}
	return up, down
}

// VotePost registers a click on a post's vote button, mutating the post
// projection in place. Without a session the click is ignored. The
// submitted value is the resolved vote, which may be NONE for a retraction.
func (s *VoteService) VotePost(ctx context.Context, token string, post *models.Post, clicked models.VoteType) error {
	if token == "" {
		return nil
	}
	if clicked != models.VoteUp && clicked != models.VoteDown {
		return models.NewValidationError("vote must be UP or DOWN")
	}

	baseUp, baseDown, baseVote := post.Upvotes, post.Downvotes, post.UserVote
	next := Resolve(baseVote, clicked)
	post.Upvotes, post.Downvotes = applyDelta(baseUp, baseDown, baseVote, next)
	post.UserVote = next

	res, err := s.gw.VotePost(ctx, token, post.ID, next)
	if err != nil {
		post.Upvotes, post.Downvotes, post.UserVote = baseUp, baseDown, baseVote
		observability.OptimisticRollbacks.WithLabelValues("post").Inc()
		return err
	}

	post.Upvotes, post.Downvotes, post.UserVote = res.Upvotes, res.Downvotes, res.UserVote
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// VoteComment is the comment counterpart of VotePost.
func (s *VoteService) VoteComment(ctx context.Context, token string, comment *models.Comment, clicked models.VoteType) error {
	if token == "" {
		return nil
	}
	if clicked != models.VoteUp && clicked != models.VoteDown {
		return models.NewValidationError("vote must be UP or DOWN")
	}

	baseUp, baseDown, baseVote := comment.Upvotes, comment.Downvotes, comment.UserVote
	next := Resolve(baseVote, clicked)
	comment.Upvotes, comment.Downvotes = applyDelta(baseUp, baseDown, baseVote, next)
	comment.UserVote = next

	res, err := s.gw.VoteComment(ctx, token, comment.ID, next)
	if err != nil {
		comment.Upvotes, comment.Downvotes, comment.UserVote = baseUp, baseDown, baseVote
		observability.OptimisticRollbacks.WithLabelValues("comment").Inc()
		return err
	}

	comment.Upvotes, comment.Downvotes, comment.UserVote = res.Upvotes, res.Downvotes, res.UserVote
	return nil
}
