package model

import (
	"time"
)

// Post is a single content entry: frontmatter metadata plus a markdown body.
// Slug is the lookup key everywhere and never changes once published.
type Post struct {
	Slug        string    `db:"slug" json:"slug"`
	Title       string    `db:"title" json:"title"`
	Date        time.Time `db:"date" json:"date"`
	Author      string    `db:"author" json:"author"`
	Description string    `db:"description" json:"description,omitempty"`
	HeroImage   string    `db:"hero_image" json:"hero_image,omitempty"`
	Tags        []string  `db:"-" json:"tags,omitempty"`

	Content     string `db:"content" json:"-"`
	HTMLContent string `db:"html_content" json:"html,omitempty"`
	ReadTime    int    `db:"read_time" json:"read_time"`

	// Checksum is the hex sha256 of the source file, used as the render
	// cache key. Path is the source file relative to the content root.
	Checksum string `db:"checksum" json:"-"`
	Path     string `db:"path" json:"-"`

	CodeBlocks []CodeBlock `db:"-" json:"code_blocks,omitempty"`

	IndexedAt time.Time `db:"indexed_at" json:"-"`
}

// CodeBlock is a fenced code sample extracted from a post body, in body
// order. Render mirrors the `render=true` info-string annotation; evaluating
// flagged snippets is the consuming site generator's job, not ours.
type CodeBlock struct {
	Lang     string `json:"lang,omitempty"`
	Render   bool   `json:"render,omitempty"`
	Code     string `json:"code"`
	Position int    `json:"position"`
}

// TagCount pairs a tag with the number of posts carrying it.
type TagCount struct {
	Tag   string `db:"tag" json:"tag"`
	Count int    `db:"count" json:"count"`
}
