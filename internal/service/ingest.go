package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/inkpost/inkpost/internal/cache"
	"github.com/inkpost/inkpost/internal/markdown"
	"github.com/inkpost/inkpost/internal/model"
	"github.com/inkpost/inkpost/internal/repository"
	"github.com/inkpost/inkpost/internal/validation"
)

// Violation is a single content-integrity problem found in a post file.
type Violation struct {
	Path    string
	Message string
}

func (v Violation) String() string {
	return v.Path + ": " + v.Message
}

// ValidationError aggregates every violation found in a content run, so one
// pass reports all problems instead of stopping at the first.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("content validation failed (%d problems): %s",
		len(e.Violations), strings.Join(msgs, "; "))
}

// IngestService turns the content directory into the post index. Content
// files are the source of truth; the index and render cache are derived.
type IngestService struct {
	parser      *markdown.Parser
	contentPath string
	repo        repository.PostRepository
	renderCache *cache.RenderCache
}

func NewIngestService(contentPath string, repo repository.PostRepository, renderCache *cache.RenderCache) *IngestService {
	return &IngestService{
		parser:      markdown.NewParser(),
		contentPath: contentPath,
		repo:        repo,
		renderCache: renderCache,
	}
}

// Load parses and validates every post under <content>/blog. All violations
// are collected; posts that parse cleanly are returned even when the run as a
// whole has violations, so callers can report and decide.
func (s *IngestService) Load() ([]*model.Post, []Violation, error) {
	pattern := filepath.Join(s.contentPath, "blog", "*.md")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, nil, err
	}
	sort.Strings(files)

	var (
		posts      []*model.Post
		violations []Violation
		seen       = make(map[string]string) // slug -> first file
	)

	for _, file := range files {
		relPath, err := filepath.Rel(s.contentPath, file)
		if err != nil {
			relPath = file
		}
		relPath = filepath.ToSlash(relPath)

		post, fileViolations, err := s.loadPost(file, relPath)
		if err != nil {
			return nil, nil, err
		}
		violations = append(violations, fileViolations...)
		if post == nil {
			continue
		}

		// Slug uniqueness is a collection invariant; name both files.
		if first, ok := seen[post.Slug]; ok {
			violations = append(violations, Violation{
				Path:    relPath,
				Message: fmt.Sprintf("duplicate slug %q (already used by %s)", post.Slug, first),
			})
			continue
		}
		seen[post.Slug] = relPath
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Slug < posts[j].Slug
	})

	return posts, violations, nil
}

// Reindex loads the content directory and replaces the post index. Any
// violation fails the whole run; a half-valid index is worse than a stale one.
func (s *IngestService) Reindex() (int, error) {
	posts, violations, err := s.Load()
	if err != nil {
		return 0, err
	}
	if len(violations) > 0 {
		return 0, &ValidationError{Violations: violations}
	}

	err = s.repo.ReplaceAll(posts)
	if err != nil {
		return 0, fmt.Errorf("failed to replace post index: %w", err)
	}

	slog.Info("content indexed", "posts", len(posts))
	return len(posts), nil
}

func (s *IngestService) loadPost(file, relPath string) (*model.Post, []Violation, error) {
	source, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", relPath, err)
	}

	var violations []Violation

	err = markdown.CheckFences(source)
	if err != nil {
		violations = append(violations, Violation{Path: relPath, Message: err.Error()})
		return nil, violations, nil
	}

	meta, err := validation.DecodeMeta(s.parser.ExtractFrontmatter(source))
	if err != nil {
		violations = append(violations, Violation{Path: relPath, Message: err.Error()})
		return nil, violations, nil
	}

	for _, msg := range validation.ValidateMeta(meta) {
		violations = append(violations, Violation{Path: relPath, Message: msg})
	}
	if len(violations) > 0 {
		return nil, violations, nil
	}

	checksum := checksumBytes(source)
	html, cached := s.cachedHTML(checksum)
	if !cached {
		html, _, err = s.parser.ParseWithFrontmatter(source)
		if err != nil {
			violations = append(violations, Violation{Path: relPath, Message: err.Error()})
			return nil, violations, nil
		}
		s.cacheHTML(checksum, html)
	}

	blocks, err := s.parser.CodeBlocks(source)
	if err != nil {
		violations = append(violations, Violation{Path: relPath, Message: err.Error()})
		return nil, violations, nil
	}

	post := &model.Post{
		Slug:        meta.Slug,
		Title:       meta.Title,
		Date:        meta.Date,
		Author:      meta.Author,
		Description: meta.Description,
		HeroImage:   meta.HeroImage,
		Tags:        meta.Tags,
		Content:     string(source),
		HTMLContent: string(html),
		ReadTime:    readTime(string(source)),
		Checksum:    checksum,
		Path:        relPath,
		CodeBlocks:  blocks,
	}

	// Filename and slug conventionally match; a mismatch is worth a log
	// line but is not a violation.
	base := strings.TrimSuffix(filepath.Base(file), ".md")
	if base != post.Slug {
		slog.Warn("post filename differs from slug", "path", relPath, "slug", post.Slug)
	}

	return post, nil, nil
}

func (s *IngestService) cachedHTML(checksum string) ([]byte, bool) {
	if s.renderCache == nil {
		return nil, false
	}
	return s.renderCache.Get(checksum)
}

func (s *IngestService) cacheHTML(checksum string, html []byte) {
	if s.renderCache == nil {
		return
	}
	err := s.renderCache.Put(checksum, html)
	if err != nil {
		slog.Warn("failed to cache rendered post", "checksum", checksum, "error", err)
	}
}

func checksumBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func readTime(content string) int {
	words := strings.Fields(content)
	wordsPerMinute := 200
	// Round up: a 250-word post reads in 2 minutes, not 1.
	minutes := (len(words) + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
