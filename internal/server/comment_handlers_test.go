package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pranava-mohan/WikiNITT/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRepliesHandler(t *testing.T) {
	t.Run("serves five replies a page", func(t *testing.T) {
		u := newUpstream(t, map[string]string{
			"query GetReplies": `{"data":{"comment":{"replies":[
				{"id":"r1","content":"a","upvotes":0,"downvotes":0,"userVote":null,"repliesCount":0},
				{"id":"r2","content":"b","upvotes":0,"downvotes":0,"userVote":null,"repliesCount":0},
				{"id":"r3","content":"c","upvotes":0,"downvotes":0,"userVote":null,"repliesCount":0},
				{"id":"r4","content":"d","upvotes":0,"downvotes":0,"userVote":null,"repliesCount":0},
				{"id":"r5","content":"e","upvotes":0,"downvotes":0,"userVote":null,"repliesCount":2}
			]}}}`,
		})
		app := newTestApp(t, u)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/comments/c1/replies", nil))
		require.NoError(t, err)

		var body struct {
			Items   []*models.Comment `json:"items"`
			HasMore bool              `json:"hasMore"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Len(t, body.Items, 5)
		assert.Equal(t, models.VoteNone, body.Items[0].UserVote)
		// A full page leaves the next offset worth probing.
		assert.True(t, body.HasMore)

		vars := u.vars()
		assert.Equal(t, "c1", vars["commentId"])
		assert.EqualValues(t, 5, vars["limit"])
		assert.EqualValues(t, 0, vars["offset"])
	})

	t.Run("offset pages through the remainder", func(t *testing.T) {
		u := newUpstream(t, map[string]string{
			"query GetReplies": `{"data":{"comment":{"replies":[
				{"id":"r6","content":"f","upvotes":0,"downvotes":0,"userVote":null,"repliesCount":0},
				{"id":"r7","content":"g","upvotes":0,"downvotes":0,"userVote":null,"repliesCount":0}
			]}}}`,
		})
		app := newTestApp(t, u)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/comments/c1/replies?offset=5", nil))
		require.NoError(t, err)

		var body struct {
			Items   []*models.Comment `json:"items"`
			HasMore bool              `json:"hasMore"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body.Items, 2)
		assert.False(t, body.HasMore)
		assert.EqualValues(t, 5, u.vars()["offset"])
	})
}

func TestGetCommentsHandler(t *testing.T) {
	u := newUpstream(t, map[string]string{
		"query GetComments": `{"data":{"post":{"comments":[
			{"id":"c21","content":"late comment","upvotes":0,"downvotes":0,"userVote":null,"repliesCount":0}
		]}}}`,
	})
	app := newTestApp(t, u)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/posts/p1/comments?offset=20", nil))
	require.NoError(t, err)

	var body struct {
		Items   []*models.Comment `json:"items"`
		HasMore bool              `json:"hasMore"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, body.Items, 1)
	assert.False(t, body.HasMore)
	assert.EqualValues(t, 20, u.vars()["offset"])
}

func TestCreateCommentHandler(t *testing.T) {
	t.Run("top-level comment", func(t *testing.T) {
		u := newUpstream(t, map[string]string{
			"mutation CreateComment": `{"data":{"createComment":{
				"id":"c9","content":"Try a barlow","upvotes":0,"downvotes":0,"userVote":null,"repliesCount":0}}}`,
		})
		app := newTestApp(t, u)

		req := jsonRequest(t, http.MethodPost, "/api/posts/p1/comments", map[string]string{
			"content": "Try a barlow",
		})
		req.Header.Set("Authorization", bearerToken(t, "u1"))

		resp, err := app.Test(req)
		require.NoError(t, err)

		var created models.Comment
		decodeBody(t, resp, &created)
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		assert.Equal(t, "c9", created.ID)

		input, ok := u.vars()["input"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "p1", input["postId"])
		assert.NotContains(t, input, "parentId")
	})

	t.Run("nested reply carries parentId", func(t *testing.T) {
		u := newUpstream(t, map[string]string{
			"mutation CreateComment": `{"data":{"createComment":{
				"id":"c10","content":"Seconded","upvotes":0,"downvotes":0,"userVote":null,"repliesCount":0}}}`,
		})
		app := newTestApp(t, u)

		req := jsonRequest(t, http.MethodPost, "/api/posts/p1/comments", map[string]string{
			"content":  "Seconded",
			"parentId": "c1",
		})
		req.Header.Set("Authorization", bearerToken(t, "u1"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

		input, ok := u.vars()["input"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "c1", input["parentId"])
	})

	t.Run("empty content is 400", func(t *testing.T) {
		u := newUpstream(t, nil)
		app := newTestApp(t, u)

		req := jsonRequest(t, http.MethodPost, "/api/posts/p1/comments", map[string]string{})
		req.Header.Set("Authorization", bearerToken(t, "u1"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateCommentHandler(t *testing.T) {
	u := newUpstream(t, map[string]string{
		"mutation UpdateComment": `{"data":{"updateComment":{
			"id":"c1","content":"Which scope? (edited)","isEdited":true}}}`,
	})
	app := newTestApp(t, u)

	req := jsonRequest(t, http.MethodPut, "/api/comments/c1", map[string]string{
		"postId":  "p1",
		"content": "Which scope? (edited)",
	})
	req.Header.Set("Authorization", bearerToken(t, "u2"))

	resp, err := app.Test(req)
	require.NoError(t, err)

	var updated models.Comment
	decodeBody(t, resp, &updated)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, updated.IsEdited)
}

func TestDeleteCommentHandler(t *testing.T) {
	t.Run("deletes and returns 204", func(t *testing.T) {
		u := newUpstream(t, map[string]string{
			"mutation DeleteComment": `{"data":{"deleteComment":true}}`,
		})
		app := newTestApp(t, u)

		req := httptest.NewRequest(http.MethodDelete, "/api/comments/c1?postId=p1", nil)
		req.Header.Set("Authorization", bearerToken(t, "u2"))

		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	})

	t.Run("upstream refusal surfaces as 401", func(t *testing.T) {
		u := newUpstream(t, map[string]string{
			"mutation DeleteComment": `{"errors":[{"message":"unauthorized: not your comment"}]}`,
		})
		app := newTestApp(t, u)

		req := httptest.NewRequest(http.MethodDelete, "/api/comments/c1", nil)
		req.Header.Set("Authorization", bearerToken(t, "u8"))

		resp, err := app.Test(req)
		require.NoError(t, err)

		var body models.ErrorResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, models.CodeUnauthorized, body.Code)
	})
}

func TestVoteCommentHandler(t *testing.T) {
	u := newUpstream(t, map[string]string{
		"mutation VoteComment": `{"data":{"voteComment":{
			"id":"c1","upvotes":3,"downvotes":0,"userVote":"UP"}}}`,
	})
	app := newTestApp(t, u)

	req := jsonRequest(t, http.MethodPost, "/api/comments/c1/vote", map[string]string{"vote": "UP"})
	req.Header.Set("Authorization", bearerToken(t, "u1"))

	resp, err := app.Test(req)
	require.NoError(t, err)

	var body struct {
		Upvotes  int             `json:"upvotes"`
		UserVote models.VoteType `json:"userVote"`
		Score    int             `json:"score"`
	}
	decodeBody(t, resp, &body)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 3, body.Upvotes)
	assert.Equal(t, models.VoteUp, body.UserVote)
	assert.Equal(t, 3, body.Score)
	assert.Equal(t, "UP", u.vars()["type"])
}
