package handler

import (
	"errors"
	"html/template"
	"net/http"

	"github.com/inkpost/inkpost/internal/model"
	"github.com/inkpost/inkpost/internal/repository"
	"github.com/inkpost/inkpost/internal/service"
)

type BlogHandler struct {
	blogService *service.BlogService
}

func NewBlogHandler(blogService *service.BlogService) *BlogHandler {
	return &BlogHandler{
		blogService: blogService,
	}
}

// ListPosts returns post metadata, newest first. Bodies are omitted; fetch a
// single post for the rendered HTML.
func (h *BlogHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blogService.Posts()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"posts": summarize(posts),
	})
}

func (h *BlogHandler) ShowPost(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	post, err := h.blogService.Post(slug)
	if errors.Is(err, repository.ErrPostNotFound) {
		writeError(w, http.StatusNotFound, "post not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *BlogHandler) ListByTag(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")

	posts, err := h.blogService.PostsByTag(tag)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load posts")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tag":   tag,
		"posts": summarize(posts),
	})
}

func (h *BlogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.blogService.Tags()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load tags")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"tags": tags,
	})
}

var postPage = template.Must(template.New("post").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<article>
<h1>{{.Title}}</h1>
<p>{{.Author}} · {{.Date.Format "January 2, 2006"}} · {{.ReadTime}} min read</p>
{{.Body}}
</article>
</body>
</html>
`))

// PostPage serves a post as a standalone HTML page. The body HTML comes out
// of goldmark and is trusted; everything else is escaped by the template.
func (h *BlogHandler) PostPage(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")

	post, err := h.blogService.Post(slug)
	if errors.Is(err, repository.ErrPostNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		http.Error(w, "failed to load post", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err = postPage.Execute(w, struct {
		*model.Post
		Body template.HTML
	}{
		Post: post,
		Body: template.HTML(post.HTMLContent),
	})
	if err != nil {
		http.Error(w, "failed to render post", http.StatusInternalServerError)
	}
}

// summarize strips bodies from a post list payload.
func summarize(posts []*model.Post) []*model.Post {
	out := make([]*model.Post, len(posts))
	for i, post := range posts {
		p := *post
		p.HTMLContent = ""
		p.CodeBlocks = nil
		out[i] = &p
	}
	return out
}
