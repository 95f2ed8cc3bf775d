package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/feeds"
)

const feedItemLimit = 20

// FeedService builds the RSS feed from the newest posts.
type FeedService struct {
	blogService *BlogService
	baseURL     string
	siteName    string
	tagline     string
}

func NewFeedService(blogService *BlogService, baseURL, siteName, tagline string) *FeedService {
	return &FeedService{
		blogService: blogService,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		siteName:    siteName,
		tagline:     tagline,
	}
}

func (s *FeedService) GenerateRSS() (string, error) {
	posts, err := s.blogService.Posts()
	if err != nil {
		return "", fmt.Errorf("failed to list posts for feed: %w", err)
	}

	feed := &feeds.Feed{
		Title:       s.siteName,
		Link:        &feeds.Link{Href: s.baseURL},
		Description: s.tagline,
		Updated:     time.Now(),
	}
	if len(posts) > 0 {
		feed.Updated = posts[0].Date
	}

	for i, post := range posts {
		if i >= feedItemLimit {
			break
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          s.baseURL + "/blog/" + post.Slug,
			Title:       post.Title,
			Link:        &feeds.Link{Href: s.baseURL + "/blog/" + post.Slug},
			Description: post.Description,
			Author:      &feeds.Author{Name: post.Author},
			Created:     post.Date,
			Content:     post.HTMLContent,
		})
	}

	return feed.ToRss()
}
