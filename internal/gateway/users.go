package gateway

import (
	"context"
	"io"

	"github.com/machinebox/graphql"

	"github.com/pranava-mohan/WikiNITT/internal/models"
)

// CompleteSetupInput finalizes a first-time account with its handle.
type CompleteSetupInput struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Gender      string `json:"gender,omitempty"`
}

// Me returns the authenticated viewer's own record.
func (c *Client) Me(ctx context.Context, token string) (*models.Viewer, error) {
	req := graphql.NewRequest(getMeQuery)

	var resp struct {
		Me *models.Viewer `json:"me"`
	}
	if err := c.run(ctx, "me", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.Me == nil {
		return nil, models.NewUnauthorizedError("no active session")
	}
	return resp.Me, nil
}

// PublicUser fetches the public profile for a username.
func (c *Client) PublicUser(ctx context.Context, token, username string) (*models.PublicUser, error) {
	req := graphql.NewRequest(getPublicUserQuery)
	req.Var("username", username)

	var resp struct {
		User *models.PublicUser `json:"user"`
	}
	if err := c.run(ctx, "user", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, models.NewNotFoundError("user", username)
	}
	return resp.User, nil
}

// UserPosts fetches one page of a user's posts for the profile posts tab.
func (c *Client) UserPosts(ctx context.Context, token, username string, limit, offset int) ([]*models.Post, error) {
	req := graphql.NewRequest(getUserPostsQuery)
	req.Var("username", username)
	req.Var("limit", limit)
	req.Var("offset", offset)

	var resp struct {
		User *struct {
			ID    string         `json:"id"`
			Posts []*models.Post `json:"posts"`
		} `json:"user"`
	}
	if err := c.run(ctx, "userPosts", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, models.NewNotFoundError("user", username)
	}
	for _, p := range resp.User.Posts {
		normalizeVote(&p.UserVote)
	}
	return resp.User.Posts, nil
}

// UserComments fetches one page of a user's comments for the profile
// comments tab. Each comment carries its post and group for linking back.
func (c *Client) UserComments(ctx context.Context, token, username string, limit, offset int) ([]*models.Comment, error) {
	req := graphql.NewRequest(getUserCommentsQuery)
	req.Var("username", username)
	req.Var("limit", limit)
	req.Var("offset", offset)

	var resp struct {
		User *struct {
			ID       string            `json:"id"`
			Comments []*models.Comment `json:"comments"`
		} `json:"user"`
	}
	if err := c.run(ctx, "userComments", token, req, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, models.NewNotFoundError("user", username)
	}
	for _, cm := range resp.User.Comments {
		normalizeVote(&cm.UserVote)
	}
	return resp.User.Comments, nil
}

// UserGroups lists the groups a user belongs to.
func (c *Client) UserGroups(ctx context.Context, token, username string) ([]*models.Group, error) {
	req := graphql.NewRequest(getUserGroupsQuery)
	req.Var("username", username)

	var resp struct {
		UserGroups []*models.Group `json:"userGroups"`
	}
	if err := c.run(ctx, "userGroups", token, req, &resp); err != nil {
		return nil, err
	}
	return resp.UserGroups, nil
}

// CheckUsername reports whether a handle is still available.
func (c *Client) CheckUsername(ctx context.Context, username string) (bool, error) {
	req := graphql.NewRequest(checkUsernameQuery)
	req.Var("username", username)

	var resp struct {
		CheckUsername bool `json:"checkUsername"`
	}
	if err := c.run(ctx, "checkUsername", "", req, &resp); err != nil {
		return false, err
	}
	return resp.CheckUsername, nil
}

// CompleteSetup finalizes the viewer's account with a username and display
// name. The server enforces uniqueness; a taken handle comes back as a
// validation error.
func (c *Client) CompleteSetup(ctx context.Context, token string, input CompleteSetupInput) (bool, error) {
	req := graphql.NewRequest(completeSetupMutation)
	req.Var("input", input)

	var resp struct {
		CompleteSetup bool `json:"completeSetup"`
	}
	if err := c.run(ctx, "completeSetup", token, req, &resp); err != nil {
		return false, err
	}
	return resp.CompleteSetup, nil
}

// UploadUserImage streams an image through to the server and returns the
// hosted URL. The file bytes pass through untouched.
func (c *Client) UploadUserImage(ctx context.Context, token, filename string, file io.Reader) (string, error) {
	req := graphql.NewRequest(uploadUserImageMutation)
	req.File("file", filename, file)

	var resp struct {
		UploadUserImage string `json:"uploadUserImage"`
	}
	if err := c.runUpload(ctx, "uploadUserImage", token, req, &resp); err != nil {
		return "", err
	}
	return resp.UploadUserImage, nil
}
