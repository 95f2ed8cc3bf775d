package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/app"
	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/logger"
)

func IndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the post index from the content directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			logger.Init(cfg.IsDevelopment(), "")

			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			n, err := a.IngestService.Reindex()
			if err != nil {
				return err
			}

			fmt.Printf("indexed %d posts\n", n)
			return nil
		},
	}
}
