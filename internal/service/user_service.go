package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pranava-mohan/WikiNITT/internal/cache"
	"github.com/pranava-mohan/WikiNITT/internal/gateway"
	"github.com/pranava-mohan/WikiNITT/internal/models"
	"github.com/pranava-mohan/WikiNITT/internal/query"
)

// userGateway is the slice of the gateway the user service needs.
type userGateway interface {
	Me(ctx context.Context, token string) (*models.Viewer, error)
	PublicUser(ctx context.Context, token, username string) (*models.PublicUser, error)
	UserPosts(ctx context.Context, token, username string, limit, offset int) ([]*models.Post, error)
	UserComments(ctx context.Context, token, username string, limit, offset int) ([]*models.Comment, error)
	UserGroups(ctx context.Context, token, username string) ([]*models.Group, error)
	CheckUsername(ctx context.Context, username string) (bool, error)
	CompleteSetup(ctx context.Context, token string, input gateway.CompleteSetupInput) (bool, error)
	UploadUserImage(ctx context.Context, token, filename string, file io.Reader) (string, error)
}

var (
	usernameRe    = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	displayNameRe = regexp.MustCompile(`^[a-zA-Z0-9 ]+$`)
)

const minUsernameLen = 3

// UserService serves public profiles with their tab listings, the viewer's
// own identity, and first-run account setup.
type UserService struct {
	gw       userGateway
	posts    *query.Registry[*models.Post]
	comments *query.Registry[*models.Comment]
}

func NewUserService(gw userGateway) *UserService {
	return &UserService{
		gw:       gw,
		posts:    query.NewRegistry[*models.Post](),
		comments: query.NewRegistry[*models.Comment](),
	}
}

// CurrentViewer resolves the session token to the viewer's own record,
// cached briefly per token so every page load does not replay the me query.
func (s *UserService) CurrentViewer(ctx context.Context, token string) (*models.Viewer, error) {
	if token == "" {
		return nil, models.NewUnauthorizedError("no active session")
	}
	var viewer *models.Viewer
	err := cache.Aside(ctx, cache.ViewerKey(tokenFingerprint(token)), &viewer, cache.ViewerTTL, func() error {
		fetched, err := s.gw.Me(ctx, token)
		if err != nil {
			return err
		}
		viewer = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return viewer, nil
}

// Profile fetches a public profile by username.
func (s *UserService) Profile(ctx context.Context, token, username string) (*models.PublicUser, error) {
	var user *models.PublicUser
	err := cache.Aside(ctx, cache.UserKey(username), &user, cache.UserTTL, func() error {
		fetched, err := s.gw.PublicUser(ctx, token, username)
		if err != nil {
			return err
		}
		user = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("user", username)
	}
	return user, nil
}

// Posts returns the pager behind a profile's posts tab. The tab is lazy:
// nothing loads until its first LoadMore.
func (s *UserService) Posts(token, viewerID, username string) *query.Pager[*models.Post] {
	key := fmt.Sprintf("userPosts:%s:%s", username, cache.Scope(viewerID))
	return s.posts.Get(key, func() *query.Pager[*models.Post] {
		return query.NewPager(query.FeedPageSize, func(ctx context.Context, limit, offset int) ([]*models.Post, error) {
			var page []*models.Post
			cacheKey := cache.UserPostsKey(username, viewerID, limit, offset)
			err := cache.Aside(ctx, cacheKey, &page, cache.UserTTL, func() error {
				fetched, err := s.gw.UserPosts(ctx, token, username, limit, offset)
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

// Comments returns the pager behind a profile's comments tab.
func (s *UserService) Comments(token, viewerID, username string) *query.Pager[*models.Comment] {
	key := fmt.Sprintf("userComments:%s:%s", username, cache.Scope(viewerID))
	return s.comments.Get(key, func() *query.Pager[*models.Comment] {
		return query.NewPager(query.FeedPageSize, func(ctx context.Context, limit, offset int) ([]*models.Comment, error) {
			var page []*models.Comment
			cacheKey := cache.UserCommentsKey(username, viewerID, limit, offset)
			err := cache.Aside(ctx, cacheKey, &page, cache.UserTTL, func() error {
				fetched, err := s.gw.UserComments(ctx, token, username, limit, offset)
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

// Groups lists the groups shown on a profile's groups tab.
func (s *UserService) Groups(ctx context.Context, token, username string) ([]*models.Group, error) {
	var groups []*models.Group
	err := cache.Aside(ctx, cache.UserGroupsKey(username), &groups, cache.UserTTL, func() error {
		fetched, err := s.gw.UserGroups(ctx, token, username)
		if err != nil {
			return err
		}
		groups = fetched
		return nil
	})
	return groups, err
}

// CheckUsername validates a handle's shape locally, then asks the server
// whether it is free. Malformed handles never reach the network.
func (s *UserService) CheckUsername(ctx context.Context, username string) (bool, error) {
	if err := validateUsername(username); err != nil {
		return false, err
	}
	return s.gw.CheckUsername(ctx, username)
}

// CompleteSetup finalizes a first-time account. The server is the final
// arbiter of uniqueness; losing a race comes back as a validation error.
func (s *UserService) CompleteSetup(ctx context.Context, token string, input gateway.CompleteSetupInput) error {
	if token == "" {
		return models.NewUnauthorizedError("no active session")
	}
	if err := validateUsername(input.Username); err != nil {
		return err
	}
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if input.DisplayName == "" {
		return models.NewValidationError("Display name is required")
	}
	if !displayNameRe.MatchString(input.DisplayName) {
		return models.NewValidationError("Display name can only contain letters, numbers, and spaces")
	}

	ok, err := s.gw.CompleteSetup(ctx, token, input)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewValidationError("Username is not available")
	}
	cache.Invalidate(ctx, cache.ViewerKey(tokenFingerprint(token)))
	return nil
}

// UploadUserImage forwards image bytes to the server and returns the
// hosted URL. The payload is passed through untouched.
func (s *UserService) UploadUserImage(ctx context.Context, token, filename string, file io.Reader) (string, error) {
	if token == "" {
		return "", models.NewUnauthorizedError("no active session")
	}
	return s.gw.UploadUserImage(ctx, token, filename, file)
}

func validateUsername(username string) error {
	if len(username) < minUsernameLen {
		return models.NewValidationError("Username must be at least 3 characters")
	}
	if !usernameRe.MatchString(username) {
		return models.NewValidationError("Username can only contain letters, numbers, underscores, periods, and hyphens")
	}
	return nil
}

// tokenFingerprint derives a cache key segment from a session token
// without storing the token itself in the keyspace.
func tokenFingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}
