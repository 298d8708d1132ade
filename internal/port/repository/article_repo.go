package repository

import (
	"context"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
)

type ArticleRepository interface {
	Create(ctx context.Context, article *entity.Article) error
	GetBySlug(ctx context.Context, slug string) (*entity.Article, error)
	Update(ctx context.Context, article *entity.Article) error
	Delete(ctx context.Context, slug string) error
	List(ctx context.Context, publishedOnly bool) ([]*entity.Article, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*entity.Article, error)
	ListBySlugs(ctx context.Context, slugs []string) ([]*entity.Article, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	// IncrementCounter applies an atomic $inc to a numeric field of the
	// article document (likes, views, comments_count) and returns the new
	// value. Read-modify-write is not an acceptable implementation.
	IncrementCounter(ctx context.Context, slug, field string, by int64) (int64, error)
}
