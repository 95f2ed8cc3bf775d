package app

import (
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/inkpost/inkpost/internal/cache"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/db"
	"github.com/inkpost/inkpost/internal/repository"
	"github.com/inkpost/inkpost/internal/service"
	"github.com/inkpost/inkpost/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	RenderCache    *cache.RenderCache
	PostRepository repository.PostRepository
	IngestService  *service.IngestService
	BlogService    *service.BlogService
	SitemapService *service.SitemapService
	FeedService    *service.FeedService
	AssetService   *service.AssetService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	renderCache, err := cache.Open(cfg.CachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open render cache: %w", err)
	}

	postRepository := repository.NewPostRepository(database)

	// Asset storage is optional; without it /assets 404s and `assets push`
	// refuses to run.
	var assetStore storage.Storage
	if cfg.S3Bucket != "" {
		assetStore, err = storage.New(storage.S3Config{
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Endpoint:      cfg.S3Endpoint,
			PathStyle:     cfg.S3PathStyle,
			PresignExpiry: cfg.S3PresignExpiry,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize asset storage: %w", err)
		}
	} else {
		slog.Info("asset storage not configured, /assets disabled")
	}

	ingestService := service.NewIngestService(cfg.ContentPath, postRepository, renderCache)
	blogService := service.NewBlogService(postRepository)
	sitemapService := service.NewSitemapService(blogService, cfg.AppURL)
	feedService := service.NewFeedService(blogService, cfg.AppURL, cfg.AppName, cfg.AppTagline)
	assetService := service.NewAssetService(assetStore, cfg.ContentPath)

	return &App{
		Cfg:            cfg,
		DB:             database,
		RenderCache:    renderCache,
		PostRepository: postRepository,
		IngestService:  ingestService,
		BlogService:    blogService,
		SitemapService: sitemapService,
		FeedService:    feedService,
		AssetService:   assetService,
	}, nil
}

func (a *App) Close() error {
	if a.RenderCache != nil {
		err := a.RenderCache.Close()
		if err != nil {
			slog.Error("failed to close render cache", "error", err)
		}
	}
	return db.Close(a.DB)
}
