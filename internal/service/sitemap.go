package service

import (
	"encoding/xml"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/inkpost/inkpost/internal/model"
)

// publicRoutes are the static public routes included in the sitemap.
var publicRoutes = []struct {
	Path       string
	Priority   string
	ChangeFreq string
}{
	{"/", "1.0", "daily"},
	{"/api/posts", "0.8", "daily"},
	{"/feed.xml", "0.5", "daily"},
}

type SitemapService struct {
	blogService *BlogService
	baseURL     string
}

func NewSitemapService(blogService *BlogService, baseURL string) *SitemapService {
	return &SitemapService{
		blogService: blogService,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
	}
}

// GenerateSitemap builds the sitemap from static routes plus every post and
// tag page.
func (s *SitemapService) GenerateSitemap() ([]byte, error) {
	sitemap := model.Sitemap{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  []model.SitemapURL{},
	}

	sitemap.URLs = append(sitemap.URLs, s.staticRoutes()...)

	postURLs, err := s.postURLs()
	if err != nil {
		// An empty content dir is not a sitemap failure.
		slog.Warn("failed to list posts for sitemap", "error", err)
	} else {
		sitemap.URLs = append(sitemap.URLs, postURLs...)
	}

	output, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return []byte(xml.Header + string(output)), nil
}

func (s *SitemapService) staticRoutes() []model.SitemapURL {
	today := time.Now().Format("2006-01-02")
	urls := make([]model.SitemapURL, 0, len(publicRoutes))

	for _, route := range publicRoutes {
		urls = append(urls, model.SitemapURL{
			Loc:        s.baseURL + route.Path,
			LastMod:    today,
			ChangeFreq: route.ChangeFreq,
			Priority:   route.Priority,
		})
	}

	return urls
}

func (s *SitemapService) postURLs() ([]model.SitemapURL, error) {
	posts, err := s.blogService.Posts()
	if err != nil {
		return nil, err
	}

	urls := make([]model.SitemapURL, 0, len(posts))
	for _, post := range posts {
		lastMod := time.Now().Format("2006-01-02")
		if !post.Date.IsZero() {
			lastMod = post.Date.Format("2006-01-02")
		}

		urls = append(urls, model.SitemapURL{
			Loc:        s.baseURL + "/blog/" + post.Slug,
			LastMod:    lastMod,
			ChangeFreq: "weekly",
			Priority:   "0.7",
		})
	}

	tags, err := s.blogService.Tags()
	if err != nil {
		return nil, err
	}
	for _, tc := range tags {
		urls = append(urls, model.SitemapURL{
			// Tags keep their authored text, so they need escaping where
			// slugs do not.
			Loc:        s.baseURL + "/api/tags/" + url.PathEscape(tc.Tag),
			LastMod:    time.Now().Format("2006-01-02"),
			ChangeFreq: "weekly",
			Priority:   "0.5",
		})
	}

	return urls, nil
}
