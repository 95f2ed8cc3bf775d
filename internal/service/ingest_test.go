package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/cache"
	"github.com/inkpost/inkpost/internal/db"
	"github.com/inkpost/inkpost/internal/repository"
)

const goodPost = `---
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

const secondPost = `---
slug: hooks-intro
title: An Intro to Hooks
date: 2024-05-02
author: sam
tags: [react, hooks]
---

Hooks let function components hold state.
`

func writeContent(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	blogDir := filepath.Join(dir, "blog")
	require.NoError(t, os.MkdirAll(blogDir, 0755))

	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(blogDir, name), []byte(body), 0644))
	}
	return dir
}

func testIngest(t *testing.T, contentPath string) (*IngestService, repository.PostRepository, *cache.RenderCache) {
	t.Helper()

	database, err := db.Init("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))

	renderCache, err := cache.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { renderCache.Close() })

	repo := repository.NewPostRepository(database)
	return NewIngestService(contentPath, repo, renderCache), repo, renderCache
}

func TestReindex(t *testing.T) {
	dir := writeContent(t, map[string]string{
		"props-vs-state.md": goodPost,
		"hooks-intro.md":    secondPost,
	})
	ingest, repo, renderCache := testIngest(t, dir)

	n, err := ingest.Reindex()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	posts, err := repo.List()
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "hooks-intro", posts[0].Slug, "newest first")
	assert.Equal(t, []string{"hooks", "react"}, posts[0].Tags)

	post, err := repo.BySlug("props-vs-state")
	require.NoError(t, err)
	assert.Equal(t, "Props vs State in React", post.Title)
	assert.Equal(t, "mara", post.Author)
	assert.Contains(t, post.HTMLContent, "Props flow down.")
	assert.NotEmpty(t, post.Checksum)
	assert.Equal(t, "blog/props-vs-state.md", post.Path)

	// Rendered HTML lands in the cache keyed by checksum.
	_, ok := renderCache.Get(post.Checksum)
	assert.True(t, ok)
}

func TestReindexDuplicateSlug(t *testing.T) {
	dup := `---
slug: props-vs-state
title: A Copy
date: 2024-04-01
author: sam
---

Body.
`
	dir := writeContent(t, map[string]string{
		"props-vs-state.md": goodPost,
		"props-copy.md":     dup,
	})
	ingest, repo, _ := testIngest(t, dir)

	_, err := ingest.Reindex()
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Violations, 1)
	assert.Contains(t, verr.Violations[0].Message, `duplicate slug "props-vs-state"`)
	assert.Contains(t, verr.Violations[0].Message, "blog/props-copy.md")

	// A failed run must not touch the index.
	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReindexCollectsAllViolations(t *testing.T) {
	noTitle := `---
slug: untitled
date: 2024-04-01
author: sam
---

Body.
`
	badSlug := `---
slug: Not A Slug
title: Bad Slug
date: 2024-04-01
author: sam
---

Body.
`
	unclosed := `---
slug: unclosed
title: Unclosed
date: 2024-04-01
author: sam
---

` + "```js\nconsole.log(1);\n"

	dir := writeContent(t, map[string]string{
		"untitled.md": noTitle,
		"bad-slug.md": badSlug,
		"unclosed.md": unclosed,
	})
	ingest, _, _ := testIngest(t, dir)

	_, violations, err := ingest.Load()
	require.NoError(t, err)
	require.Len(t, violations, 3)

	messages := make([]string, len(violations))
	for i, v := range violations {
		messages[i] = v.String()
	}
	assert.Contains(t, messages, "blog/untitled.md: title is required")

	joined := ""
	for _, m := range messages {
		joined += m + "\n"
	}
	assert.Contains(t, joined, "not URL-safe")
	assert.Contains(t, joined, "unclosed code fence")
}

func TestReindexEmptyContentDir(t *testing.T) {
	dir := writeContent(t, nil)
	ingest, repo, _ := testIngest(t, dir)

	n, err := ingest.Reindex()
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestBlogServiceReads(t *testing.T) {
	dir := writeContent(t, map[string]string{
		"props-vs-state.md": goodPost,
		"hooks-intro.md":    secondPost,
	})
	ingest, repo, _ := testIngest(t, dir)

	_, err := ingest.Reindex()
	require.NoError(t, err)

	blog := NewBlogService(repo)

	post, err := blog.Post("props-vs-state")
	require.NoError(t, err)
	require.Len(t, post.CodeBlocks, 1)
	assert.Equal(t, "jsx", post.CodeBlocks[0].Lang)
	assert.True(t, post.CodeBlocks[0].Render)

	_, err = blog.Post("missing")
	assert.ErrorIs(t, err, repository.ErrPostNotFound)

	byTag, err := blog.PostsByTag("Hooks")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "hooks-intro", byTag[0].Slug)

	tags, err := blog.Tags()
	require.NoError(t, err)
	assert.Equal(t, "react", tags[0].Tag)
	assert.Equal(t, 2, tags[0].Count)
}

func TestReadTime(t *testing.T) {
	tests := []struct {
		words   int
		minutes int
	}{
		{0, 1},
		{1, 1},
		{200, 1},
		{201, 2},
		{250, 2},
		{400, 2},
		{401, 3},
	}

	for _, tc := range tests {
		content := strings.TrimSpace(strings.Repeat("word ", tc.words))
		assert.Equal(t, tc.minutes, readTime(content), "%d words", tc.words)
	}
}
