package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache keys. Reads whose payload depends on who is asking (membership,
// vote state) carry a viewer scope segment so sessions never see each
// other's projections.
const (
	ArticleKeyPrefix   = "article:%s"
	ArticleListPrefix  = "articles:%s:%s:%d:%d"
	GroupKeyPrefix     = "group:%s:%s"
	GroupListPrefix    = "groups:%s:%d:%d"
	PostKeyPrefix      = "post:%s:%s"
	RepliesKeyPrefix   = "replies:%s:%s:%d:%d"
	PublicPostsPrefix  = "publicPosts:%s:%d:%d"
	UserKeyPrefix      = "user:%s"
	UserPostsPrefix    = "userPosts:%s:%s:%d:%d"
	UserCommentsPrefix = "userComments:%s:%s:%d:%d"
	UserGroupsPrefix   = "userGroups:%s"
	ViewerKeyPrefix    = "viewer:%s"
)

const (
	ArticleTTL     = 10 * time.Minute
	ArticleListTTL = 5 * time.Minute
	GroupTTL       = 2 * time.Minute
	PostTTL        = 1 * time.Minute
	RepliesTTL     = 1 * time.Minute
	FeedTTL        = 30 * time.Second
	UserTTL        = 5 * time.Minute
	ViewerTTL      = 5 * time.Minute
)

// Scope folds an optional viewer ID into a key segment.
func Scope(viewerID string) string {
	if viewerID == "" {
		return "anon"
	}
	return viewerID
}

func ArticleKey(slug string) string {
	return fmt.Sprintf(ArticleKeyPrefix, slug)
}

func ArticleListKey(category, featured string, limit, offset int) string {
	return fmt.Sprintf(ArticleListPrefix, category, featured, limit, offset)
}

func GroupKey(slug, viewerID string) string {
	return fmt.Sprintf(GroupKeyPrefix, slug, Scope(viewerID))
}

func GroupListKey(viewerID string, limit, offset int) string {
	return fmt.Sprintf(GroupListPrefix, Scope(viewerID), limit, offset)
}

func PostKey(postID, viewerID string) string {
	return fmt.Sprintf(PostKeyPrefix, postID, Scope(viewerID))
}

func RepliesKey(commentID, viewerID string, limit, offset int) string {
	return fmt.Sprintf(RepliesKeyPrefix, commentID, Scope(viewerID), limit, offset)
}

func PublicPostsKey(viewerID string, limit, offset int) string {
	return fmt.Sprintf(PublicPostsPrefix, Scope(viewerID), limit, offset)
}

func UserKey(username string) string {
	return fmt.Sprintf(UserKeyPrefix, username)
}

func UserPostsKey(username, viewerID string, limit, offset int) string {
	return fmt.Sprintf(UserPostsPrefix, username, Scope(viewerID), limit, offset)
}

func UserCommentsKey(username, viewerID string, limit, offset int) string {
	return fmt.Sprintf(UserCommentsPrefix, username, Scope(viewerID), limit, offset)
}

func UserGroupsKey(username string) string {
	return fmt.Sprintf(UserGroupsPrefix, username)
}

func ViewerKey(viewerID string) string {
	return fmt.Sprintf(ViewerKeyPrefix, viewerID)
}

// Invalidate drops a single key.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidatePrefix drops every key under the given prefix. Best effort;
// scan failures leave stale entries to expire on their own TTL.
func InvalidatePrefix(ctx context.Context, prefix string) {
	if client == nil {
		return
	}
	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}

// InvalidateGroup drops every viewer's copy of a group page plus the group
// and feed listings that embed it.
func InvalidateGroup(ctx context.Context, slug string) {
	InvalidatePrefix(ctx, fmt.Sprintf("group:%s:", slug))
	InvalidatePrefix(ctx, "groups:")
	InvalidatePrefix(ctx, "publicPosts:")
}

// InvalidatePost drops every viewer's copy of a post and the listings that
// embed its counters.
func InvalidatePost(ctx context.Context, postID string) {
	InvalidatePrefix(ctx, fmt.Sprintf("post:%s:", postID))
	InvalidatePrefix(ctx, "publicPosts:")
}

// InvalidateReplies drops the reply pages under one comment.
func InvalidateReplies(ctx context.Context, commentID string) {
	InvalidatePrefix(ctx, fmt.Sprintf("replies:%s:", commentID))
}

// InvalidateUser drops a profile and its tab pages.
func InvalidateUser(ctx context.Context, username string) {
	Invalidate(ctx, UserKey(username))
	InvalidatePrefix(ctx, fmt.Sprintf("userPosts:%s:", username))
	InvalidatePrefix(ctx, fmt.Sprintf("userComments:%s:", username))
	Invalidate(ctx, UserGroupsKey(username))
}
