package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkpost/inkpost/internal/config"
	"github.com/inkpost/inkpost/internal/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

func NewCmd() *cobra.Command {
	var author string
	var tags []string

	c := &cobra.Command{
		Use:   "new <slug>",
		Short: "Scaffold a post file with a frontmatter header",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slug := args[0]

			meta := validation.Meta{
				Slug:   slug,
				Title:  titleFromSlug(slug),
				Date:   time.Now(),
				Author: author,
				Tags:   tags,
			}
			if msgs := validation.ValidateMeta(meta); len(msgs) > 0 {
				return fmt.Errorf("invalid post: %s", strings.Join(msgs, "; "))
			}

			header, err := validation.EncodeMeta(meta)
			if err != nil {
				return err
			}

			cfg := config.Load()
			path := filepath.Join(cfg.ContentPath, "blog", slug+".md")
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}

			body := fmt.Sprintf("---\n%s---\n\nWrite the post here.\n", header)
			err = os.WriteFile(path, []byte(body), 0644)
			if err != nil {
				return err
			}

			fmt.Println("created", path)
			return nil
		},
	}

	c.Flags().StringVar(&author, "author", "", "author identifier")
	c.Flags().StringSliceVar(&tags, "tag", nil, "topic tags (repeatable)")
	return c
}

func titleFromSlug(slug string) string {
	words := strings.ReplaceAll(slug, "-", " ")
	return cases.Title(language.English).String(words)
}
