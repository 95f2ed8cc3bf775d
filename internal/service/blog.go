package service

import (
	"github.com/inkpost/inkpost/internal/markdown"
	"github.com/inkpost/inkpost/internal/model"
	"github.com/inkpost/inkpost/internal/repository"
)

// BlogService is the read side of the engine, backed by the post index.
type BlogService struct {
	repo   repository.PostRepository
	parser *markdown.Parser
}

func NewBlogService(repo repository.PostRepository) *BlogService {
	return &BlogService{
		repo:   repo,
		parser: markdown.NewParser(),
	}
}

func (s *BlogService) Posts() ([]*model.Post, error) {
	return s.repo.List()
}

// Post returns a single post with its extracted code blocks. The index stores
// the raw source, so block extraction happens on read.
func (s *BlogService) Post(slug string) (*model.Post, error) {
	post, err := s.repo.BySlug(slug)
	if err != nil {
		return nil, err
	}

	blocks, err := s.parser.CodeBlocks([]byte(post.Content))
	if err != nil {
		return nil, err
	}
	post.CodeBlocks = blocks

	return post, nil
}

func (s *BlogService) PostsByTag(tag string) ([]*model.Post, error) {
	return s.repo.ByTag(tag)
}

func (s *BlogService) Tags() ([]model.TagCount, error) {
	return s.repo.TagCounts()
}
