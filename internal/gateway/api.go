package gateway

import (
	"context"
	"io"

	"github.com/pranava-mohan/WikiNITT/internal/models"
)

// CommunityAPI is the slice of the gateway the community services consume.
type CommunityAPI interface {
	Groups(ctx context.Context, token string, limit, offset int, ownerID string, groupType models.GroupType) ([]*models.Group, error)
	GroupBySlug(ctx context.Context, token, slug string, postLimit, postOffset int) (*models.Group, error)
	CreateGroup(ctx context.Context, token string, input NewGroup) (*models.Group, error)
	UpdateGroup(ctx context.Context, token, groupID string, patch GroupPatch) (*models.Group, error)
	JoinGroup(ctx context.Context, token, groupID string) error
	LeaveGroup(ctx context.Context, token, groupID string) error
	DeleteGroup(ctx context.Context, token, groupID string) error

	CreatePost(ctx context.Context, token string, input NewPost) (*models.Post, error)
	UpdatePost(ctx context.Context, token, postID string, title, content *string) (*models.Post, error)
	DeletePost(ctx context.Context, token, postID string) error
	PostByID(ctx context.Context, token, postID string) (*models.Post, error)
	PublicPosts(ctx context.Context, token string, limit, offset int) ([]*models.Post, error)

	Comments(ctx context.Context, token, postID string, limit, offset int) ([]*models.Comment, error)
	Replies(ctx context.Context, token, commentID string, limit, offset int) ([]*models.Comment, error)
	CreateComment(ctx context.Context, token string, input NewComment) (*models.Comment, error)
	UpdateComment(ctx context.Context, token, commentID, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, token, commentID string) error

	VotePost(ctx context.Context, token, postID string, vote models.VoteType) (*VoteResult, error)
	VoteComment(ctx context.Context, token, commentID string, vote models.VoteType) (*VoteResult, error)

	Discussion(ctx context.Context, token, groupID string) (*models.Discussion, error)
	ChannelMessages(ctx context.Context, token, channelID string, limit, offset int) (*models.Channel, error)
	SendMessage(ctx context.Context, token string, input NewMessage) (*models.Message, error)
	CreateChannel(ctx context.Context, token string, input NewChannel) (*models.Channel, error)
}

// ArticleAPI is the slice of the gateway the article service consumes.
type ArticleAPI interface {
	Articles(ctx context.Context, category string, limit, offset int, featured *bool) ([]*models.Article, error)
	ArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
}

// UserAPI is the slice of the gateway the user service consumes.
type UserAPI interface {
	Me(ctx context.Context, token string) (*models.Viewer, error)
	PublicUser(ctx context.Context, token, username string) (*models.PublicUser, error)
	UserPosts(ctx context.Context, token, username string, limit, offset int) ([]*models.Post, error)
	UserComments(ctx context.Context, token, username string, limit, offset int) ([]*models.Comment, error)
	UserGroups(ctx context.Context, token, username string) ([]*models.Group, error)
	CheckUsername(ctx context.Context, username string) (bool, error)
	CompleteSetup(ctx context.Context, token string, input CompleteSetupInput) (bool, error)
	UploadUserImage(ctx context.Context, token, filename string, file io.Reader) (string, error)
}

var (
	_ CommunityAPI = (*Client)(nil)
	_ ArticleAPI   = (*Client)(nil)
	_ UserAPI      = (*Client)(nil)
)
