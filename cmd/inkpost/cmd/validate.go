package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/service"
)

func ValidateCmd() *cobra.Command {
	var contentPath string

	c := &cobra.Command{
		Use:   "validate",
		Short: "Check every post for metadata and markup problems",
		RunE: func(cmd *cobra.Command, args []string) error {
			if contentPath == "" {
				contentPath = config.Load().ContentPath
			}

			// No repository or cache: validation never writes anything.
			ingest := service.NewIngestService(contentPath, nil, nil)

			posts, violations, err := ingest.Load()
			if err != nil {
				return err
			}

			for _, v := range violations {
				fmt.Println(v.String())
			}
			if len(violations) > 0 {
				return fmt.Errorf("%d problems in %s", len(violations), contentPath)
			}

			fmt.Printf("%d posts OK\n", len(posts))
			return nil
		},
	}

	c.Flags().StringVar(&contentPath, "content", "", "content directory (default: CONTENT_PATH)")
	return c
}
