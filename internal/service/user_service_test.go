package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranava-mohan/WikiNITT/internal/gateway"
	"github.com/pranava-mohan/WikiNITT/internal/models"
)

// userGatewayStub is a stub for userGateway.
type userGatewayStub struct {
	meFn              func(ctx context.Context, token string) (*models.Viewer, error)
	publicUserFn      func(ctx context.Context, token, username string) (*models.PublicUser, error)
	userPostsFn       func(ctx context.Context, token, username string, limit, offset int) ([]*models.Post, error)
	userCommentsFn    func(ctx context.Context, token, username string, limit, offset int) ([]*models.Comment, error)
	userGroupsFn      func(ctx context.Context, token, username string) ([]*models.Group, error)
	checkUsernameFn   func(ctx context.Context, username string) (bool, error)
	completeSetupFn   func(ctx context.Context, token string, input gateway.CompleteSetupInput) (bool, error)
	uploadUserImageFn func(ctx context.Context, token, filename string, file io.Reader) (string, error)
}

func (s *userGatewayStub) Me(ctx context.Context, token string) (*models.Viewer, error) {
	return s.meFn(ctx, token)
}
func (s *userGatewayStub) PublicUser(ctx context.Context, token, username string) (*models.PublicUser, error) {
	return s.publicUserFn(ctx, token, username)
}
func (s *userGatewayStub) UserPosts(ctx context.Context, token, username string, limit, offset int) ([]*models.Post, error) {
	return s.userPostsFn(ctx, token, username, limit, offset)
}
func (s *userGatewayStub) UserComments(ctx context.Context, token, username string, limit, offset int) ([]*models.Comment, error) {
	return s.userCommentsFn(ctx, token, username, limit, offset)
}
func (s *userGatewayStub) UserGroups(ctx context.Context, token, username string) ([]*models.Group, error) {
	return s.userGroupsFn(ctx, token, username)
}
func (s *userGatewayStub) CheckUsername(ctx context.Context, username string) (bool, error) {
	return s.checkUsernameFn(ctx, username)
}
func (s *userGatewayStub) CompleteSetup(ctx context.Context, token string, input gateway.CompleteSetupInput) (bool, error) {
	return s.completeSetupFn(ctx, token, input)
}
func (s *userGatewayStub) UploadUserImage(ctx context.Context, token, filename string, file io.Reader) (string, error) {
	return s.uploadUserImageFn(ctx, token, filename, file)
}

func TestCurrentViewer(t *testing.T) {
	t.Parallel()

	t.Run("resolves the session", func(t *testing.T) {
		t.Parallel()
		stub := &userGatewayStub{
			meFn: func(_ context.Context, token string) (*models.Viewer, error) {
				assert.Equal(t, "tok", token)
				return &models.Viewer{ID: "u1", Username: "dana", SetupComplete: true}, nil
			},
		}
		viewer, err := NewUserService(stub).CurrentViewer(context.Background(), "tok")
		require.NoError(t, err)
		assert.Equal(t, "u1", viewer.ID)
		assert.True(t, viewer.SetupComplete)
	})

	t.Run("empty token is unauthorized without a gateway call", func(t *testing.T) {
		t.Parallel()
		stub := &userGatewayStub{
			meFn: func(_ context.Context, _ string) (*models.Viewer, error) {
				t.Fatal("must not call the gateway")
				return nil, nil
			},
		}
		_, err := NewUserService(stub).CurrentViewer(context.Background(), "")
		assertUnauthorizedError(t, err)
	})
}

func TestProfileTabs(t *testing.T) {
	t.Parallel()

	t.Run("profile loads without any tab fetches", func(t *testing.T) {
		t.Parallel()
		stub := &userGatewayStub{
			publicUserFn: func(_ context.Context, _, username string) (*models.PublicUser, error) {
				return &models.PublicUser{ID: "u1", Username: username, DisplayName: "Dana"}, nil
			},
			userPostsFn: func(_ context.Context, _, _ string, _, _ int) ([]*models.Post, error) {
				t.Fatal("posts tab must stay lazy")
				return nil, nil
			},
		}
		svc := NewUserService(stub)

		user, err := svc.Profile(context.Background(), "", "dana")
		require.NoError(t, err)
		assert.Equal(t, "Dana", user.DisplayName)

		pager := svc.Posts("", "", "dana")
		assert.False(t, pager.Loaded(), "unvisited tab is unasked, not empty")
	})

	t.Run("posts tab pages ten at a time", func(t *testing.T) {
		t.Parallel()
		stub := &userGatewayStub{
			userPostsFn: func(_ context.Context, _, _ string, limit, offset int) ([]*models.Post, error) {
				assert.Equal(t, 10, limit)
				if offset >= 10 {
					return makePosts(4), nil
				}
				return makePosts(10), nil
			},
		}
		svc := NewUserService(stub)

		pager := svc.Posts("", "", "dana")
		_, err := pager.LoadMore(context.Background())
		require.NoError(t, err)
		assert.True(t, pager.HasMore())

		_, err = pager.LoadMore(context.Background())
		require.NoError(t, err)
		assert.Len(t, pager.Items(), 14)
		assert.False(t, pager.HasMore())
	})

	t.Run("comments tab carries post context for linking", func(t *testing.T) {
		t.Parallel()
		stub := &userGatewayStub{
			userCommentsFn: func(_ context.Context, _, _ string, _, _ int) ([]*models.Comment, error) {
				return []*models.Comment{{
					ID:      "c1",
					Content: "nice",
					Post:    &models.Post{ID: "p1", Title: "First light", Group: &models.Group{Slug: "astro"}},
				}}, nil
			},
		}
		svc := NewUserService(stub)

		pager := svc.Comments("", "", "dana")
		_, err := pager.LoadMore(context.Background())
		require.NoError(t, err)
		items := pager.Items()
		require.Len(t, items, 1)
		assert.Equal(t, "astro", items[0].Post.Group.Slug)
	})

	t.Run("unknown profile is not found", func(t *testing.T) {
		t.Parallel()
		stub := &userGatewayStub{
			publicUserFn: func(_ context.Context, _, username string) (*models.PublicUser, error) {
				return nil, models.NewNotFoundError("user", username)
			},
		}
		_, err := NewUserService(stub).Profile(context.Background(), "", "ghost")
		assertNotFoundError(t, err)
	})
}

func TestCheckUsername(t *testing.T) {
	t.Parallel()

	svc := NewUserService(&userGatewayStub{
		checkUsernameFn: func(_ context.Context, username string) (bool, error) {
			return username != "taken", nil
		},
	})
	ctx := context.Background()

	ok, err := svc.CheckUsername(ctx, "new.user-42")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckUsername(ctx, "taken")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.CheckUsername(ctx, "ab")
	assertValidationError(t, err)

	_, err = svc.CheckUsername(ctx, "bad space")
	assertValidationError(t, err)
}

func TestCompleteSetup(t *testing.T) {
	t.Parallel()

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()
		stub := &userGatewayStub{
			completeSetupFn: func(_ context.Context, token string, input gateway.CompleteSetupInput) (bool, error) {
				assert.Equal(t, "tok", token)
				assert.Equal(t, "dana_r", input.Username)
				return true, nil
			},
		}
		err := NewUserService(stub).CompleteSetup(context.Background(), "tok", gateway.CompleteSetupInput{
			Username:    "dana_r",
			DisplayName: "Dana R",
		})
		require.NoError(t, err)
	})

	t.Run("display name rejects punctuation", func(t *testing.T) {
		t.Parallel()
		err := NewUserService(&userGatewayStub{}).CompleteSetup(context.Background(), "tok", gateway.CompleteSetupInput{
			Username:    "dana_r",
			DisplayName: "Dana! R",
		})
		assertValidationError(t, err)
	})

	t.Run("race lost on uniqueness is a validation error", func(t *testing.T) {
		t.Parallel()
		stub := &userGatewayStub{
			completeSetupFn: func(_ context.Context, _ string, _ gateway.CompleteSetupInput) (bool, error) {
				return false, nil
			},
		}
		err := NewUserService(stub).CompleteSetup(context.Background(), "tok", gateway.CompleteSetupInput{
			Username:    "dana_r",
			DisplayName: "Dana",
		})
		assertValidationError(t, err)
	})

	t.Run("no session", func(t *testing.T) {
		t.Parallel()
		err := NewUserService(&userGatewayStub{}).CompleteSetup(context.Background(), "", gateway.CompleteSetupInput{
			Username:    "dana_r",
			DisplayName: "Dana",
		})
		assertUnauthorizedError(t, err)
	})
}

func TestUploadUserImage(t *testing.T) {
	t.Parallel()

	stub := &userGatewayStub{
		uploadUserImageFn: func(_ context.Context, _, filename string, file io.Reader) (string, error) {
			b, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, "rawbytes", string(b), "payload passes through untouched")
			assert.Equal(t, "avatar.png", filename)
			return "https://cdn.example/avatar.png", nil
		},
	}
	svc := NewUserService(stub)

	url, err := svc.UploadUserImage(context.Background(), "tok", "avatar.png", strings.NewReader("rawbytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/avatar.png", url)

	_, err = svc.UploadUserImage(context.Background(), "", "avatar.png", strings.NewReader("x"))
	assertUnauthorizedError(t, err)
}
