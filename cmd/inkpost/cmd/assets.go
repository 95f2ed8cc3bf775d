package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/logger"
	"github.com/inkpost/inkpost/internal/service"
	"github.com/inkpost/inkpost/internal/storage"
)

func AssetsCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "assets",
		Short: "Manage post assets in the S3 bucket",
	}

	push := &cobra.Command{
		Use:   "push",
		Short: "Upload content/assets to the asset bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.IsDevelopment(), "")

			if cfg.S3Bucket == "" {
				return errors.New("asset storage not configured (set S3_BUCKET)")
			}

			store, err := storage.New(storage.S3Config{
				Region:        cfg.S3Region,
				Bucket:        cfg.S3Bucket,
				AccessKey:     cfg.S3AccessKey,
				SecretKey:     cfg.S3SecretKey,
				Endpoint:      cfg.S3Endpoint,
				PathStyle:     cfg.S3PathStyle,
				PresignExpiry: cfg.S3PresignExpiry,
			})
			if err != nil {
				return err
			}

			assets := service.NewAssetService(store, cfg.ContentPath)
			n, err := assets.Push(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Printf("pushed %d assets\n", n)
			return nil
		},
	}

	root.AddCommand(push)
	return root
}
