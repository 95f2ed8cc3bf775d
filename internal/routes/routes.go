package routes

import (
	"net/http"

	"github.com/inkpost/inkpost/internal/app"
	"github.com/inkpost/inkpost/internal/handler"
	"github.com/inkpost/inkpost/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	blog := handler.NewBlogHandler(app.BlogService)
	seo := handler.NewSEOHandler(app.SitemapService, app.FeedService)
	admin := handler.NewAdminHandler(app.IngestService)
	health := handler.NewHealthHandler(app.PostRepository)
	assets := handler.NewAssetHandler(app.AssetService)

	mux := http.NewServeMux()

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)
	mux.HandleFunc("GET /feed.xml", seo.Feed)

	// Content API
	mux.HandleFunc("GET /api/posts", blog.ListPosts)
	mux.HandleFunc("GET /api/posts/{slug}", blog.ShowPost)
	mux.HandleFunc("GET /api/tags", blog.ListTags)
	mux.HandleFunc("GET /api/tags/{tag}", blog.ListByTag)

	// Rendered pages
	mux.HandleFunc("GET /blog/{slug}", blog.PostPage)

	// Assets
	mux.HandleFunc("GET /assets/{path...}", assets.Serve)

	// Admin
	rateLimiter := middleware.RateLimitReindex()
	mux.HandleFunc("POST /api/reindex", rateLimiter(admin.Reindex))

	// Health
	mux.HandleFunc("GET /healthz", health.Health)

	// 404/405 fallback
	mux.HandleFunc("/{path...}", health.Fallback(mux))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.SecurityHeaders,
		middleware.RequestLogging,
	)
}
