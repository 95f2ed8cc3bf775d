package handler

import (
	"net/http"

	"github.com/inkpost/inkpost/internal/service"
)

type SEOHandler struct {
	sitemapService *service.SitemapService
	feedService    *service.FeedService
}

func NewSEOHandler(sitemapService *service.SitemapService, feedService *service.FeedService) *SEOHandler {
	return &SEOHandler{
		sitemapService: sitemapService,
		feedService:    feedService,
	}
}

func (h *SEOHandler) Robots(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("User-agent: *\nAllow: /\nSitemap: /sitemap.xml\n"))
}

func (h *SEOHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	sitemap, err := h.sitemapService.GenerateSitemap()
	if err != nil {
		http.Error(w, "failed to generate sitemap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Write(sitemap)
}

func (h *SEOHandler) Feed(w http.ResponseWriter, r *http.Request) {
	rss, err := h.feedService.GenerateRSS()
	if err != nil {
		http.Error(w, "failed to generate feed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	w.Write([]byte(rss))
}
