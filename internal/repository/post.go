package repository

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/inkpost/inkpost/internal/model"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

type PostRepository interface {
	// ReplaceAll swaps the whole index for the given posts in one
	// transaction. The content directory is the source of truth; the index
	// is always rebuilt wholesale.
	ReplaceAll(posts []*model.Post) error
	BySlug(slug string) (*model.Post, error)
	List() ([]*model.Post, error)
	ByTag(tag string) ([]*model.Post, error)
	TagCounts() ([]model.TagCount, error)
	Count() (int, error)
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) ReplaceAll(posts []*model.Post) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM post_tags`)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`DELETE FROM posts`)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, post := range posts {
		post.IndexedAt = now

		_, err = tx.Exec(`INSERT INTO posts (slug, title, date, author, description, hero_image, content, html_content, read_time, checksum, path, indexed_at)
		                  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
			post.Slug,
			post.Title,
			post.Date,
			post.Author,
			post.Description,
			post.HeroImage,
			post.Content,
			post.HTMLContent,
			post.ReadTime,
			post.Checksum,
			post.Path,
			post.IndexedAt,
		)
		if err != nil {
			return err
		}

		for _, tag := range post.Tags {
			_, err = tx.Exec(`INSERT INTO post_tags (slug, tag) VALUES ($1, $2)`, post.Slug, tag)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func (r *postRepository) BySlug(slug string) (*model.Post, error) {
	post := &model.Post{}
	err := r.db.Get(post, `SELECT * FROM posts WHERE slug = $1`, slug)
	if err == sql.ErrNoRows {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	err = r.db.Select(&post.Tags, `SELECT tag FROM post_tags WHERE slug = $1 ORDER BY tag`, slug)
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *postRepository) List() ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.Select(&posts, `SELECT * FROM posts ORDER BY date DESC, slug ASC`)
	if err != nil {
		return nil, err
	}

	err = r.attachTags(posts)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) ByTag(tag string) ([]*model.Post, error) {
	var posts []*model.Post
	query := `SELECT p.* FROM posts p
	          JOIN post_tags t ON t.slug = p.slug
	          WHERE LOWER(t.tag) = LOWER($1)
	          ORDER BY p.date DESC, p.slug ASC`

	err := r.db.Select(&posts, query, tag)
	if err != nil {
		return nil, err
	}

	err = r.attachTags(posts)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) TagCounts() ([]model.TagCount, error) {
	var counts []model.TagCount
	query := `SELECT tag, COUNT(*) AS count FROM post_tags
	          GROUP BY tag
	          ORDER BY count DESC, tag ASC`

	err := r.db.Select(&counts, query)
	if err != nil {
		return nil, err
	}

	return counts, nil
}

func (r *postRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count)
	return count, err
}

func (r *postRepository) attachTags(posts []*model.Post) error {
	bySlug := make(map[string]*model.Post, len(posts))
	for _, post := range posts {
		bySlug[post.Slug] = post
	}

	rows, err := r.db.Queryx(`SELECT slug, tag FROM post_tags ORDER BY tag`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var slug, tag string
		err = rows.Scan(&slug, &tag)
		if err != nil {
			return err
		}
		if post, ok := bySlug[slug]; ok {
			post.Tags = append(post.Tags, tag)
		}
	}

	return rows.Err()
}
