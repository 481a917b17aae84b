package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pranava-mohan/WikiNITT/internal/cache"
	"github.com/pranava-mohan/WikiNITT/internal/gateway"
	"github.com/pranava-mohan/WikiNITT/internal/models"
	"github.com/pranava-mohan/WikiNITT/internal/query"
)

// communityGateway is the slice of the gateway the community service needs.
type communityGateway interface {
	Groups(ctx context.Context, token string, limit, offset int, ownerID string, groupType models.GroupType) ([]*models.Group, error)
	GroupBySlug(ctx context.Context, token, slug string, postLimit, postOffset int) (*models.Group, error)
	CreateGroup(ctx context.Context, token string, input gateway.NewGroup) (*models.Group, error)
	UpdateGroup(ctx context.Context, token, groupID string, patch gateway.GroupPatch) (*models.Group, error)
	JoinGroup(ctx context.Context, token, groupID string) error
	LeaveGroup(ctx context.Context, token, groupID string) error
	DeleteGroup(ctx context.Context, token, groupID string) error

	CreatePost(ctx context.Context, token string, input gateway.NewPost) (*models.Post, error)
	PostByID(ctx context.Context, token, postID string) (*models.Post, error)
	UpdatePost(ctx context.Context, token, postID string, title, content *string) (*models.Post, error)
	DeletePost(ctx context.Context, token, postID string) error
	PublicPosts(ctx context.Context, token string, limit, offset int) ([]*models.Post, error)

	Discussion(ctx context.Context, token, groupID string) (*models.Discussion, error)
	ChannelMessages(ctx context.Context, token, channelID string, limit, offset int) (*models.Channel, error)
	SendMessage(ctx context.Context, token string, input gateway.NewMessage) (*models.Message, error)
	CreateChannel(ctx context.Context, token string, input gateway.NewChannel) (*models.Channel, error)
}

const (
	maxGroupNameLen = 100
	maxPostTitleLen = 300
	maxPostLen      = 40000
	maxMessageLen   = 2000
)

// GroupUpdateResult reports the group after an edit plus whether its slug
// moved, in which case the caller must redirect to the new address.
type GroupUpdateResult struct {
	Group       *models.Group
	SlugChanged bool
}

// CommunityService drives the group directory, the public feed, group
// pages and their chat. List positions live in per-key pagers so leaving
// and revisiting a page resumes where it stopped.
type CommunityService struct {
	gw       communityGateway
	posts    *query.Registry[*models.Post]
	messages *query.Registry[*models.Message]
}

func NewCommunityService(gw communityGateway) *CommunityService {
	return &CommunityService{
		gw:       gw,
		posts:    query.NewRegistry[*models.Post](),
		messages: query.NewRegistry[*models.Message](),
	}
}

// ListGroups returns one page of the group directory, cache-aside per
// viewer since membership flags differ between sessions.
func (s *CommunityService) ListGroups(ctx context.Context, token, viewerID string, limit, offset int) ([]*models.Group, error) {
	var groups []*models.Group
	err := cache.Aside(ctx, cache.GroupListKey(viewerID, limit, offset), &groups, cache.GroupTTL, func() error {
		fetched, err := s.gw.Groups(ctx, token, limit, offset, "", "")
		if err != nil {
			return err
		}
		groups = fetched
		return nil
	})
	return groups, err
}

// GetGroup fetches a group page with its opening page of posts. A missing
// slug is not-found, distinct from a gateway failure.
func (s *CommunityService) GetGroup(ctx context.Context, token, viewerID, slug string) (*models.Group, error) {
	var group *models.Group
	err := cache.Aside(ctx, cache.GroupKey(slug, viewerID), &group, cache.GroupTTL, func() error {
		fetched, err := s.gw.GroupBySlug(ctx, token, slug, query.FeedPageSize, 0)
		if err != nil {
			return err
		}
		group = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, models.NewNotFoundError("group", slug)
	}
	return group, nil
}

// GroupPosts returns the pager over a group's posts, seeded from the
// group page's embedded first page.
func (s *CommunityService) GroupPosts(token, viewerID string, group *models.Group) *query.Pager[*models.Post] {
	key := fmt.Sprintf("groupPosts:%s:%s", group.Slug, cache.Scope(viewerID))
	slug := group.Slug
	return s.posts.Get(key, func() *query.Pager[*models.Post] {
		p := query.NewPager(query.FeedPageSize, func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			g, err := s.gw.GroupBySlug(ctx, token, slug, limit, offset)
			if err != nil {
				return nil, err
			}
			return g.Posts, nil
		})
		p.Seed(group.Posts)
		return p
	})
}

// Feed returns the pager over the cross-group public feed.
func (s *CommunityService) Feed(token, viewerID string) *query.Pager[*models.Post] {
	key := fmt.Sprintf("publicPosts:%s", cache.Scope(viewerID))
	return s.posts.Get(key, func() *query.Pager[*models.Post] {
		return query.NewPager(query.FeedPageSize, func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			var page []*models.Post
			err := cache.Aside(ctx, cache.PublicPostsKey(viewerID, limit, offset), &page, cache.FeedTTL, func() error {
				fetched, err := s.gw.PublicPosts(ctx, token, limit, offset)
				if err != nil {
					return err
				}
				page = fetched
				return nil
			})
			return page, err
		})
	})
}

// CreateGroup validates and creates a group, then drops the directory
// listings so the new group shows up.
func (s *CommunityService) CreateGroup(ctx context.Context, token string, input gateway.NewGroup) (*models.Group, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("sign in to create a group")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, models.NewValidationError("Group name is required")
	}
	if len(input.Name) > maxGroupNameLen {
		return nil, models.NewValidationError("Group name too long (max 100 characters)")
	}
	if input.Type != models.GroupPublic && input.Type != models.GroupPrivate {
		return nil, models.NewValidationError("Group type must be PUBLIC or PRIVATE")
	}

	group, err := s.gw.CreateGroup(ctx, token, input)
	if err != nil {
		return nil, err
	}
	cache.InvalidatePrefix(ctx, "groups:")
	return group, nil
}

// UpdateGroup applies a partial edit. Renaming regenerates the slug on the
// server, so the result says whether the page address moved.
func (s *CommunityService) UpdateGroup(ctx context.Context, token string, group *models.Group, patch gateway.GroupPatch) (*GroupUpdateResult, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("sign in to edit a group")
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return nil, models.NewValidationError("Group name is required")
	}

	updated, err := s.gw.UpdateGroup(ctx, token, group.ID, patch)
	if err != nil {
		return nil, err
	}

	oldSlug := group.Slug
	cache.InvalidateGroup(ctx, oldSlug)
	if updated.Slug != oldSlug {
		cache.InvalidateGroup(ctx, updated.Slug)
	}
	s.posts.Invalidate("groupPosts:" + oldSlug + ":")

	group.Name = updated.Name
	group.Description = updated.Description
	group.Icon = updated.Icon
	group.Slug = updated.Slug

	return &GroupUpdateResult{Group: group, SlugChanged: updated.Slug != oldSlug}, nil
}

// JoinGroup flips membership on and adjusts the counter once the server
// confirms.
func (s *CommunityService) JoinGroup(ctx context.Context, token string, group *models.Group) error {
	if token == "" {
		return models.NewUnauthorizedError("sign in to join a group")
	}
	if err := s.gw.JoinGroup(ctx, token, group.ID); err != nil {
		return err
	}
	group.IsMember = true
	group.MembersCount++
	cache.InvalidateGroup(ctx, group.Slug)
	return nil
}

// LeaveGroup is the inverse of JoinGroup.
func (s *CommunityService) LeaveGroup(ctx context.Context, token string, group *models.Group) error {
	if token == "" {
		return models.NewUnauthorizedError("sign in first")
	}
	if err := s.gw.LeaveGroup(ctx, token, group.ID); err != nil {
		return err
	}
	group.IsMember = false
	if group.MembersCount > 0 {
		group.MembersCount--
	}
	cache.InvalidateGroup(ctx, group.Slug)
	return nil
}

// DeleteGroup removes a group and every cached trace of it.
func (s *CommunityService) DeleteGroup(ctx context.Context, token string, group *models.Group) error {
	if token == "" {
		return models.NewUnauthorizedError("sign in first")
	}
	if err := s.gw.DeleteGroup(ctx, token, group.ID); err != nil {
		return err
	}
	cache.InvalidateGroup(ctx, group.Slug)
	s.posts.Invalidate("groupPosts:" + group.Slug + ":")
	return nil
}

// CreatePost authors a post in a group and resets the listings that should
// now include it.
func (s *CommunityService) CreatePost(ctx context.Context, token, groupSlug string, input gateway.NewPost) (*models.Post, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("sign in to post")
	}
	input.Title = strings.TrimSpace(input.Title)
	if input.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(input.Title) > maxPostTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if len(input.Content) > maxPostLen {
		return nil, models.NewValidationError("Post too long (max 40000 characters)")
	}

	post, err := s.gw.CreatePost(ctx, token, input)
	if err != nil {
		return nil, err
	}
	cache.InvalidateGroup(ctx, groupSlug)
	s.posts.Invalidate("groupPosts:" + groupSlug + ":")
	s.posts.Invalidate("publicPosts:")
	return post, nil
}

// GetPost returns one post by id, served cache-aside per viewer. A null
// post from upstream surfaces as not-found.
func (s *CommunityService) GetPost(ctx context.Context, token, viewerID, postID string) (*models.Post, error) {
	var post *models.Post
	err := cache.Aside(ctx, cache.PostKey(postID, viewerID), &post, cache.PostTTL, func() error {
		fetched, err := s.gw.PostByID(ctx, token, postID)
		if err != nil {
			return err
		}
		post = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, models.NewNotFoundError("post", postID)
	}
	return post, nil
}

// UpdatePost edits a post in place.
func (s *CommunityService) UpdatePost(ctx context.Context, token string, viewer *models.Viewer, post *models.Post, title, content *string) error {
	if token == "" || viewer == nil {
		return models.NewUnauthorizedError("sign in first")
	}
	if !canModifyPost(viewer, post) {
		return models.NewUnauthorizedError("You can only edit your own posts")
	}
	if title != nil && strings.TrimSpace(*title) == "" {
		return models.NewValidationError("Title is required")
	}

	updated, err := s.gw.UpdatePost(ctx, token, post.ID, title, content)
	if err != nil {
		return err
	}
	post.Title = updated.Title
	post.Content = updated.Content
	post.IsEdited = updated.IsEdited
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

// DeletePost removes a post and the listings that embedded it.
func (s *CommunityService) DeletePost(ctx context.Context, token string, viewer *models.Viewer, post *models.Post, groupSlug string) error {
	if token == "" || viewer == nil {
		return models.NewUnauthorizedError("sign in first")
	}
	if !canModifyPost(viewer, post) {
		return models.NewUnauthorizedError("You can only delete your own posts")
	}
	if err := s.gw.DeletePost(ctx, token, post.ID); err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	if groupSlug != "" {
		cache.InvalidateGroup(ctx, groupSlug)
		s.posts.Invalidate("groupPosts:" + groupSlug + ":")
	}
	s.posts.Invalidate("publicPosts:")
	return nil
}

// Discussion loads a group's chat container. Membership checks happen on
// the server; a denial surfaces as unauthorized.
func (s *CommunityService) Discussion(ctx context.Context, token, groupID string) (*models.Discussion, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("sign in to open the discussion")
	}
	return s.gw.Discussion(ctx, token, groupID)
}

// ChannelMessages returns the pager over one channel's history, newest
// pages first as served.
func (s *CommunityService) ChannelMessages(token, viewerID, channelID string) *query.Pager[*models.Message] {
	key := fmt.Sprintf("messages:%s:%s", channelID, cache.Scope(viewerID))
	return s.messages.Get(key, func() *query.Pager[*models.Message] {
		return query.NewPager(query.FeedPageSize, func(ctx context.Context, limit, offset int) ([]*models.Message, error) {
			ch, err := s.gw.ChannelMessages(ctx, token, channelID, limit, offset)
			if err != nil {
				return nil, err
			}
			return ch.Messages, nil
		})
	})
}

// SendMessage posts to a channel and resets its history pager so the next
// read includes the new message.
func (s *CommunityService) SendMessage(ctx context.Context, token string, input gateway.NewMessage) (*models.Message, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("sign in to chat")
	}
	input.Content = strings.TrimSpace(input.Content)
	if input.Content == "" {
		return nil, models.NewValidationError("Message is empty")
	}
	if len(input.Content) > maxMessageLen {
		return nil, models.NewValidationError("Message too long (max 2000 characters)")
	}

	msg, err := s.gw.SendMessage(ctx, token, input)
	if err != nil {
		return nil, err
	}
	s.messages.Invalidate("messages:" + input.ChannelID + ":")
	return msg, nil
}

// CreateChannel adds a named channel to a group discussion.
func (s *CommunityService) CreateChannel(ctx context.Context, token string, input gateway.NewChannel) (*models.Channel, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("sign in first")
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, models.NewValidationError("Channel name is required")
	}
	return s.gw.CreateChannel(ctx, token, input)
}

func canModifyPost(viewer *models.Viewer, post *models.Post) bool {
	if viewer.IsAdmin {
		return true
	}
	return post.Author != nil && post.Author.ID == viewer.ID
}
