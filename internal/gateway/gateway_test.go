package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pranava-mohan/WikiNITT/internal/models"
)

// stubServer answers every GraphQL POST with a canned body and records the
// last request it saw.
type stubServer struct {
	*httptest.Server
	lastAuth  string
	lastQuery string
	lastVars  map[string]interface{}
}

func newStubServer(t *testing.T, body string) *stubServer {
	t.Helper()
	s := &stubServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastAuth = r.Header.Get("Authorization")
		var req struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		s.lastQuery = req.Query
		s.lastVars = req.Variables
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(s.Close)
	return s
}

func TestGroupBySlug(t *testing.T) {
	t.Parallel()

	t.Run("decodes group with posts and attaches bearer token", func(t *testing.T) {
		srv := newStubServer(t, `{"data":{"group":{
			"id":"g1","name":"Astronomy","slug":"astronomy","type":"PUBLIC",
			"membersCount":12,"isMember":true,"createdAt":"2026-01-02 10:00:00",
			"owner":{"id":"u1","name":"Dana","username":"dana"},
			"posts":[{"id":"p1","title":"First light","upvotes":3,"downvotes":1,"userVote":"UP"},
			         {"id":"p2","title":"Star party","upvotes":0,"downvotes":0,"userVote":null}]
		}}}`)
		client := New(srv.URL)

		group, err := client.GroupBySlug(context.Background(), "tok-123", "astronomy", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-123", srv.lastAuth)
		assert.Equal(t, "astronomy", srv.lastVars["slug"])
		assert.Equal(t, "astronomy", group.Slug)
		assert.True(t, group.IsMember)
		require.Len(t, group.Posts, 2)
		assert.Equal(t, models.VoteUp, group.Posts[0].UserVote)
		assert.Equal(t, models.VoteNone, group.Posts[1].UserVote)
	})

	t.Run("null group is not found, not a transport error", func(t *testing.T) {
		srv := newStubServer(t, `{"data":{"group":null}}`)
		client := New(srv.URL)

		_, err := client.GroupBySlug(context.Background(), "", "missing", 10, 0)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})

	t.Run("no token means no authorization header", func(t *testing.T) {
		srv := newStubServer(t, `{"data":{"group":{"id":"g1","slug":"s"}}}`)
		client := New(srv.URL)

		_, err := client.GroupBySlug(context.Background(), "", "s", 10, 0)
		require.NoError(t, err)
		assert.Empty(t, srv.lastAuth)
	})
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	t.Run("server error message surfaces as validation", func(t *testing.T) {
		srv := newStubServer(t, `{"errors":[{"message":"group name already taken"}]}`)
		client := New(srv.URL)

		_, err := client.CreateGroup(context.Background(), "tok", NewGroup{Name: "dup"})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
		assert.Equal(t, "group name already taken", appErr.Message)
	})

	t.Run("authorization wording maps to unauthorized", func(t *testing.T) {
		srv := newStubServer(t, `{"errors":[{"message":"unauthorized: not a member"}]}`)
		client := New(srv.URL)

		err := client.DeleteGroup(context.Background(), "tok", "g1")
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeUnauthorized, appErr.Code)
	})

	t.Run("unreachable endpoint is a gateway error", func(t *testing.T) {
		client := New("http://127.0.0.1:1/query")

		_, err := client.PublicPosts(context.Background(), "", 10, 0)
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeGateway, appErr.Code)
	})
}

func TestVotePost(t *testing.T) {
	t.Parallel()

	t.Run("returns server counters verbatim", func(t *testing.T) {
		srv := newStubServer(t, `{"data":{"votePost":{"id":"p1","upvotes":11,"downvotes":2,"userVote":"UP"}}}`)
		client := New(srv.URL)

		res, err := client.VotePost(context.Background(), "tok", "p1", models.VoteUp)
		require.NoError(t, err)
		assert.Equal(t, "UP", srv.lastVars["type"])
		assert.Equal(t, 11, res.Upvotes)
		assert.Equal(t, 2, res.Downvotes)
		assert.Equal(t, models.VoteUp, res.UserVote)
	})

	t.Run("retracted vote comes back as NONE", func(t *testing.T) {
		srv := newStubServer(t, `{"data":{"votePost":{"id":"p1","upvotes":10,"downvotes":2,"userVote":null}}}`)
		client := New(srv.URL)

		res, err := client.VotePost(context.Background(), "tok", "p1", models.VoteNone)
		require.NoError(t, err)
		assert.Equal(t, models.VoteNone, res.UserVote)
	})
}

func TestCreateMutationsNormalizeVote(t *testing.T) {
	t.Parallel()

	t.Run("fresh post carries NONE, not empty", func(t *testing.T) {
		srv := newStubServer(t, `{"data":{"createPost":{"id":"p9","title":"New scope arrived","upvotes":0,"downvotes":0,"userVote":null}}}`)
		client := New(srv.URL)

		post, err := client.CreatePost(context.Background(), "tok", NewPost{GroupID: "g1", Title: "New scope arrived"})
		require.NoError(t, err)
		assert.Equal(t, models.VoteNone, post.UserVote)
	})

	t.Run("fresh comment carries NONE, not empty", func(t *testing.T) {
		srv := newStubServer(t, `{"data":{"createComment":{"id":"c9","content":"welcome","repliesCount":0,"userVote":null}}}`)
		client := New(srv.URL)

		comment, err := client.CreateComment(context.Background(), "tok", NewComment{PostID: "p1", Content: "welcome"})
		require.NoError(t, err)
		assert.Equal(t, models.VoteNone, comment.UserVote)
	})
}

func TestReplies(t *testing.T) {
	t.Parallel()

	srv := newStubServer(t, `{"data":{"comment":{"replies":[
		{"id":"c2","content":"agreed","repliesCount":0,"userVote":null},
		{"id":"c3","content":"source?","repliesCount":4,"userVote":"DOWN"}
	]}}}`)
	client := New(srv.URL)

	replies, err := client.Replies(context.Background(), "tok", "c1", 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "c1", srv.lastVars["commentId"])
	assert.InDelta(t, 5, srv.lastVars["limit"], 0)
	require.Len(t, replies, 2)
	assert.Equal(t, models.VoteNone, replies[0].UserVote)
	assert.Equal(t, 4, replies[1].RepliesCount)
	assert.True(t, strings.Contains(srv.lastQuery, "replies(limit: $limit, offset: $offset)"))
}

func TestCheckUsername(t *testing.T) {
	t.Parallel()

	srv := newStubServer(t, `{"data":{"checkUsername":true}}`)
	client := New(srv.URL)

	ok, err := client.CheckUsername(context.Background(), "new_user")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new_user", srv.lastVars["username"])
}
