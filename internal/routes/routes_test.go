package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/app"
	"github.com/inkpost/inkpost/internal/cache"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/db"
	"github.com/inkpost/inkpost/internal/repository"
	"github.com/inkpost/inkpost/internal/service"
)

const testPost = `---
slug: props-vs-state
title: Props vs State in React
date: 2024-03-18
author: mara
tags: [react, javascript]
---

## Props

Props flow down.

` + "```jsx render=true\nfunction Greeting({ name }) {\n  return <h1>Hello, {name}</h1>;\n}\n```" + `
`

func testServer(t *testing.T) *httptest.Server {
	t.Helper()

	contentDir := t.TempDir()
	blogDir := filepath.Join(contentDir, "blog")
	require.NoError(t, os.MkdirAll(blogDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(blogDir, "props-vs-state.md"), []byte(testPost), 0644))

	database, err := db.Init("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	renderCache, err := cache.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { renderCache.Close() })

	cfg := &config.Config{
		AppName:     "Inkpost",
		AppEnv:      "development",
		AppURL:      "https://blog.example.com",
		AppTagline:  "Test posts",
		ContentPath: contentDir,
	}

	repo := repository.NewPostRepository(database)
	ingest := service.NewIngestService(contentDir, repo, renderCache)
	blog := service.NewBlogService(repo)

	_, err = ingest.Reindex()
	require.NoError(t, err)

	a := &app.App{
		Cfg:            cfg,
		DB:             database,
		RenderCache:    renderCache,
		PostRepository: repo,
		IngestService:  ingest,
		BlogService:    blog,
		SitemapService: service.NewSitemapService(blog, cfg.AppURL),
		FeedService:    service.NewFeedService(blog, cfg.AppURL, cfg.AppName, cfg.AppTagline),
		AssetService:   service.NewAssetService(nil, contentDir),
	}

	srv := httptest.NewServer(SetupRoutes(a))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(srv.URL + path)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestListPosts(t *testing.T) {
	srv := testServer(t)

	resp := get(t, srv, "/api/posts")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	body := decode(t, resp)
	posts := body["posts"].([]any)
	require.Len(t, posts, 1)

	post := posts[0].(map[string]any)
	assert.Equal(t, "props-vs-state", post["slug"])
	assert.Equal(t, "mara", post["author"])
	assert.Nil(t, post["html"], "list omits bodies")
}

func TestShowPost(t *testing.T) {
	srv := testServer(t)

	resp := get(t, srv, "/api/posts/props-vs-state")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "Props vs State in React", body["title"])
	assert.Contains(t, body["html"], "Props flow down.")
	assert.ElementsMatch(t, []any{"javascript", "react"}, body["tags"])

	blocks := body["code_blocks"].([]any)
	require.Len(t, blocks, 1)
	block := blocks[0].(map[string]any)
	assert.Equal(t, "jsx", block["lang"])
	assert.Equal(t, true, block["render"])
}

func TestShowPostNotFound(t *testing.T) {
	srv := testServer(t)

	resp := get(t, srv, "/api/posts/missing")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "post not found", body["error"])
}

func TestTags(t *testing.T) {
	srv := testServer(t)

	resp := get(t, srv, "/api/tags")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Len(t, body["tags"], 2)

	resp = get(t, srv, "/api/tags/react")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode(t, resp)
	assert.Equal(t, "react", body["tag"])
	assert.Len(t, body["posts"], 1)

	resp = get(t, srv, "/api/tags/elixir")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decode(t, resp)
	assert.Empty(t, body["posts"])
}

func TestPostPage(t *testing.T) {
	srv := testServer(t)

	resp := get(t, srv, "/blog/props-vs-state")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(raw)
	assert.Contains(t, page, "<h1>Props vs State in React</h1>")
	assert.Contains(t, page, "Props flow down.")

	resp = get(t, srv, "/blog/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSEOEndpoints(t *testing.T) {
	srv := testServer(t)

	resp := get(t, srv, "/robots.txt")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = get(t, srv, "/sitemap.xml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/xml")

	resp = get(t, srv, "/feed.xml")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/rss+xml")
}

func TestReindexEndpoint(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/reindex", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, float64(1), body["indexed"])
}

func TestReindexRateLimit(t *testing.T) {
	srv := testServer(t)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Post(srv.URL+"/api/reindex", "", nil)
		require.NoError(t, err)
		resp.Body.Close()
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestHealthAndFallback(t *testing.T) {
	srv := testServer(t)

	resp := get(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["posts"])

	resp = get(t, srv, "/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	resp = get(t, srv, "/assets/missing.png")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/posts", "", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Allow"), http.MethodGet)
	body := decode(t, resp)
	assert.Equal(t, "method not allowed", body["error"])

	resp = get(t, srv, "/api/reindex")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, http.MethodPost, resp.Header.Get("Allow"))

	// Unknown paths stay 404 on every method.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/nope", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
