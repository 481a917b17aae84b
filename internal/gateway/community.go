package gateway

import (
	"context"

	"github.com/machinebox/graphql"

	"github.com/pranava-mohan/WikiNITT/internal/models"
)

// NewGroup is the input payload for CreateGroup.
type NewGroup struct {
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Type        models.GroupType `json:"type"`
	Icon        string           `json:"icon,omitempty"`
}

// GroupPatch carries the optional fields of UpdateGroup. Nil means unchanged.
type GroupPatch struct {
	Name        *string
	Description *string
	Icon        *string
}

// NewPost is the input payload for CreatePost.
type NewPost struct {
	GroupID string `json:"groupId"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NewComment is the input payload for CreateComment. A nil ParentID creates
// a top-level comment on the post.
type NewComment struct {
	PostID   string  `json:"postId"`
	Content  string  `json:"content"`
	ParentID *string `json:"parentId,omitempty"`
}

// NewMessage is the input payload for SendMessage.
type NewMessage struct {
	ChannelID string `json:"channelId"`
	Content   string `json:"content"`
}

// NewChannel is the input payload for CreateChannel.
type NewChannel struct {
	DiscussionID string `json:"discussionId"`
	Name         string `json:"name"`
	Type         string `json:"type"`
}

// VoteResult is the server's authoritative counters after a vote mutation.
// Callers replace their local projection with these values as-is.
type VoteResult struct {
	ID        string          `json:"id"`
	Upvotes   int             `json:"upvotes"`
	Downvotes int             `json:"downvotes"`
	UserVote  models.VoteType `json:"userVote"`
}

// Groups lists groups, optionally filtered by owner and type.
func (c *Client) Groups(ctx context.Context, token string, limit, offset int, ownerID string, groupType models.GroupType) ([]*models.Group, error) {
	req := graphql.NewRequest(getGroupsQuery)
	req.Var("limit", limit)
	req.Var("offset", offset)
	if ownerID != "" {
		req.Var("ownerId", ownerID)
	}
	if groupType != "" {
		req.Var("type", groupType)
	}

	var resp struct {
		Groups []*models.Group `json:"groups"`
	}
	if err := c.run(ctx, "groups", token, req, &resp); err != nil {
		return nil, err
	}
	return resp.Groups, nil
}

// GroupBySlug fetches a group with its first page of posts. A null group in
// the response is reported as a not-found error, distinct from a transport
// failure.
func (c *Client) GroupBySlug(ctx context.Context, token, slug string, postLimit, postOffset int) (*models.Group, error) {
	req := graphql.NewRequest(getGroupBySlugQuery)
	req.Var("slug", slug)
	req.Var("postLimit", postLimit)
	req.Var("postOffset", postOffset)

	var resp struct {
		Group *models.Group `json:"group"`
	}
	if err := c.run(ctx, "group", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.Group == nil {
		return nil, models.NewNotFoundError("group", slug)
	}
	for _, p := range resp.Group.Posts {
		normalizeVote(&p.UserVote)
	}
	return resp.Group, nil
}

func (c *Client) CreateGroup(ctx context.Context, token string, input NewGroup) (*models.Group, error) {
	req := graphql.NewRequest(createGroupMutation)
	req.Var("input", input)

	var resp struct {
		CreateGroup *models.Group `json:"createGroup"`
	}
	if err := c.run(ctx, "createGroup", token, req, &resp); err != nil {
		return nil, err
	}
	return resp.CreateGroup, nil
}

// UpdateGroup applies a partial edit. The returned group carries the slug
// the server now addresses it by, which may differ from the old one.
func (c *Client) UpdateGroup(ctx context.Context, token, groupID string, patch GroupPatch) (*models.Group, error) {
	req := graphql.NewRequest(updateGroupMutation)
	req.Var("groupId", groupID)
	if patch.Name != nil {
		req.Var("name", *patch.Name)
	}
	if patch.Description != nil {
		req.Var("description", *patch.Description)
	}
	if patch.Icon != nil {
		req.Var("icon", *patch.Icon)
	}

	var resp struct {
		UpdateGroup *models.Group `json:"updateGroup"`
	}
	if err := c.run(ctx, "updateGroup", token, req, &resp); err != nil {
		return nil, err
	}
	return resp.UpdateGroup, nil
}

func (c *Client) JoinGroup(ctx context.Context, token, groupID string) error {
	req := graphql.NewRequest(joinGroupMutation)
	req.Var("groupId", groupID)
	var resp struct {
		JoinGroup bool `json:"joinGroup"`
	}
	return c.run(ctx, "joinGroup", token, req, &resp)
}

func (c *Client) LeaveGroup(ctx context.Context, token, groupID string) error {
	req := graphql.NewRequest(leaveGroupMutation)
	req.Var("groupId", groupID)
	var resp struct {
		LeaveGroup bool `json:"leaveGroup"`
	}
	return c.run(ctx, "leaveGroup", token, req, &resp)
}

func (c *Client) DeleteGroup(ctx context.Context, token, groupID string) error {
	req := graphql.NewRequest(deleteGroupMutation)
	req.Var("groupId", groupID)
	var resp struct {
		DeleteGroup bool `json:"deleteGroup"`
	}
	return c.run(ctx, "deleteGroup", token, req, &resp)
}

func (c *Client) CreatePost(ctx context.Context, token string, input NewPost) (*models.Post, error) {
	req := graphql.NewRequest(createPostMutation)
	req.Var("input", input)

	var resp struct {
		CreatePost *models.Post `json:"createPost"`
	}
	if err := c.run(ctx, "createPost", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.CreatePost != nil {
		normalizeVote(&resp.CreatePost.UserVote)
	}
	return resp.CreatePost, nil
}

func (c *Client) UpdatePost(ctx context.Context, token, postID string, title, content *string) (*models.Post, error) {
	req := graphql.NewRequest(updatePostMutation)
	req.Var("postId", postID)
	if title != nil {
		req.Var("title", *title)
	}
	if content != nil {
		req.Var("content", *content)
	}

	var resp struct {
		UpdatePost *models.Post `json:"updatePost"`
	}
	if err := c.run(ctx, "updatePost", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.UpdatePost != nil {
		normalizeVote(&resp.UpdatePost.UserVote)
	}
	return resp.UpdatePost, nil
}

func (c *Client) DeletePost(ctx context.Context, token, postID string) error {
	req := graphql.NewRequest(deletePostMutation)
	req.Var("postId", postID)
	var resp struct {
		DeletePost bool `json:"deletePost"`
	}
	return c.run(ctx, "deletePost", token, req, &resp)
}

// PostByID fetches a post together with its first comment page.
func (c *Client) PostByID(ctx context.Context, token, postID string) (*models.Post, error) {
	req := graphql.NewRequest(getPostQuery)
	req.Var("id", postID)

	var resp struct {
		Post *models.Post `json:"post"`
	}
	if err := c.run(ctx, "post", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.Post == nil {
		return nil, models.NewNotFoundError("post", postID)
	}
	normalizeVote(&resp.Post.UserVote)
	for _, cm := range resp.Post.Comments {
		normalizeVote(&cm.UserVote)
	}
	return resp.Post, nil
}

// PublicPosts returns the cross-group feed of posts from public groups.
func (c *Client) PublicPosts(ctx context.Context, token string, limit, offset int) ([]*models.Post, error) {
	req := graphql.NewRequest(getPublicPostsQuery)
	req.Var("limit", limit)
	req.Var("offset", offset)

	var resp struct {
		PublicPosts []*models.Post `json:"publicPosts"`
	}
	if err := c.run(ctx, "publicPosts", token, req, &resp); err != nil {
		return nil, err
	}
	for _, p := range resp.PublicPosts {
		normalizeVote(&p.UserVote)
	}
	return resp.PublicPosts, nil
}

// Comments fetches one page of a post's top-level comments.
func (c *Client) Comments(ctx context.Context, token, postID string, limit, offset int) ([]*models.Comment, error) {
	req := graphql.NewRequest(getCommentsQuery)
	req.Var("postId", postID)
	req.Var("limit", limit)
	req.Var("offset", offset)

	var resp struct {
		Post *struct {
			Comments []*models.Comment `json:"comments"`
		} `json:"post"`
	}
	if err := c.run(ctx, "comments", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.Post == nil {
		return nil, models.NewNotFoundError("post", postID)
	}
	for _, cm := range resp.Post.Comments {
		normalizeVote(&cm.UserVote)
	}
	return resp.Post.Comments, nil
}

// Replies fetches one page of a comment's direct children.
func (c *Client) Replies(ctx context.Context, token, commentID string, limit, offset int) ([]*models.Comment, error) {
	req := graphql.NewRequest(getRepliesQuery)
	req.Var("commentId", commentID)
	req.Var("limit", limit)
	req.Var("offset", offset)

	var resp struct {
		Comment *struct {
			Replies []*models.Comment `json:"replies"`
		} `json:"comment"`
	}
	if err := c.run(ctx, "replies", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.Comment == nil {
		return nil, models.NewNotFoundError("comment", commentID)
	}
	for _, cm := range resp.Comment.Replies {
		normalizeVote(&cm.UserVote)
	}
	return resp.Comment.Replies, nil
}

func (c *Client) CreateComment(ctx context.Context, token string, input NewComment) (*models.Comment, error) {
	req := graphql.NewRequest(createCommentMutation)
	req.Var("input", input)

	var resp struct {
		CreateComment *models.Comment `json:"createComment"`
	}
	if err := c.run(ctx, "createComment", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.CreateComment != nil {
		normalizeVote(&resp.CreateComment.UserVote)
	}
	return resp.CreateComment, nil
}

func (c *Client) UpdateComment(ctx context.Context, token, commentID, content string) (*models.Comment, error) {
	req := graphql.NewRequest(updateCommentMutation)
	req.Var("commentId", commentID)
	req.Var("content", content)

	var resp struct {
		UpdateComment *models.Comment `json:"updateComment"`
	}
	if err := c.run(ctx, "updateComment", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.UpdateComment != nil {
		normalizeVote(&resp.UpdateComment.UserVote)
	}
	return resp.UpdateComment, nil
}

func (c *Client) DeleteComment(ctx context.Context, token, commentID string) error {
	req := graphql.NewRequest(deleteCommentMutation)
	req.Var("commentId", commentID)
	var resp struct {
		DeleteComment bool `json:"deleteComment"`
	}
	return c.run(ctx, "deleteComment", token, req, &resp)
}

// VotePost records the viewer's computed vote and returns the server's
// resulting counters.
func (c *Client) VotePost(ctx context.Context, token, postID string, vote models.VoteType) (*VoteResult, error) {
	req := graphql.NewRequest(votePostMutation)
	req.Var("postId", postID)
	req.Var("type", vote)

	var resp struct {
		VotePost *VoteResult `json:"votePost"`
	}
	if err := c.run(ctx, "votePost", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.VotePost != nil {
		normalizeVote(&resp.VotePost.UserVote)
	}
	return resp.VotePost, nil
}

// VoteComment is the comment counterpart of VotePost.
func (c *Client) VoteComment(ctx context.Context, token, commentID string, vote models.VoteType) (*VoteResult, error) {
	req := graphql.NewRequest(voteCommentMutation)
	req.Var("commentId", commentID)
	req.Var("type", vote)

	var resp struct {
		VoteComment *VoteResult `json:"voteComment"`
	}
	if err := c.run(ctx, "voteComment", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.VoteComment != nil {
		normalizeVote(&resp.VoteComment.UserVote)
	}
	return resp.VoteComment, nil
}

// Discussion returns the chat container for a group, with its channel list.
func (c *Client) Discussion(ctx context.Context, token, groupID string) (*models.Discussion, error) {
	req := graphql.NewRequest(getDiscussionQuery)
	req.Var("groupId", groupID)

	var resp struct {
		Discussion *models.Discussion `json:"discussion"`
	}
	if err := c.run(ctx, "discussion", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.Discussion == nil {
		return nil, models.NewNotFoundError("discussion", groupID)
	}
	return resp.Discussion, nil
}

// ChannelMessages fetches a channel with one page of its messages.
func (c *Client) ChannelMessages(ctx context.Context, token, channelID string, limit, offset int) (*models.Channel, error) {
	req := graphql.NewRequest(getChannelMessagesQuery)
	req.Var("channelId", channelID)
	req.Var("limit", limit)
	req.Var("offset", offset)

	var resp struct {
		Channel *models.Channel `json:"channel"`
	}
	if err := c.run(ctx, "channel", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.Channel == nil {
		return nil, models.NewNotFoundError("channel", channelID)
	}
	return resp.Channel, nil
}

func (c *Client) SendMessage(ctx context.Context, token string, input NewMessage) (*models.Message, error) {
	req := graphql.NewRequest(sendMessageMutation)
	req.Var("input", input)

	var resp struct {
		SendMessage *models.Message `json:"sendMessage"`
	}
	if err := c.run(ctx, "sendMessage", token, req, &resp); err != nil {
		return nil, err
	}
	return resp.SendMessage, nil
}

func (c *Client) CreateChannel(ctx context.Context, token string, input NewChannel) (*models.Channel, error) {
	req := graphql.NewRequest(createChannelMutation)
	req.Var("input", input)

	var resp struct {
		CreateChannel *models.Channel `json:"createChannel"`
	}
	if err := c.run(ctx, "createChannel", token, req, &resp); err != nil {
		return nil, err
	}
	return resp.CreateChannel, nil
}

// normalizeVote maps an absent or null userVote onto the explicit NONE value
// so downstream vote algebra never sees an empty string.
func normalizeVote(v *models.VoteType) {
	if *v == "" {
		*v = models.VoteNone
	}
}
