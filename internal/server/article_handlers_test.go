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

func TestGetArticlesHandler(t *testing.T) {
	u := newUpstream(t, map[string]string{
		"query GetArticles": `{"data":{"articles":[
			{"id":"a1","title":"Hostel wifi, explained","slug":"hostel-wifi","category":"campus","featured":true,"description":"..."},
			{"id":"a2","title":"Mess menu history","slug":"mess-menu","category":"campus","featured":false,"description":"..."}
		]}}`,
	})
	app := newTestApp(t, u)

	t.Run("lists a category", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/articles?category=campus", nil))
		require.NoError(t, err)

		var body struct {
			Items   []*models.Article `json:"items"`
			HasMore bool              `json:"hasMore"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		require.Len(t, body.Items, 2)
		assert.Equal(t, "hostel-wifi", body.Items[0].Slug)
		assert.Equal(t, "campus", u.vars()["category"])
	})

	t.Run("featured filter reaches the upstream", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/articles?featured=true", nil))
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, true, u.vars()["featured"])
	})
}

func TestGetArticleHandler(t *testing.T) {
	t.Run("full article by slug", func(t *testing.T) {
		u := newUpstream(t, map[string]string{
			"query GetArticleBySlug": `{"data":{"articleBySlug":{
				"id":"a1","title":"Hostel wifi, explained","slug":"hostel-wifi","category":"campus",
				"content":"Long form body","featured":true,"description":"...",
				"author":{"id":"u5","name":"Meera"}}}}`,
		})
		app := newTestApp(t, u)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/articles/hostel-wifi", nil))
		require.NoError(t, err)

		var article models.Article
		decodeBody(t, resp, &article)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "Long form body", article.Content)
		require.NotNil(t, article.Author)
		assert.Equal(t, "Meera", article.Author.Name)
	})

	t.Run("null article is 404", func(t *testing.T) {
		u := newUpstream(t, map[string]string{
			"query GetArticleBySlug": `{"data":{"articleBySlug":null}}`,
		})
		app := newTestApp(t, u)

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/articles/missing", nil))
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
