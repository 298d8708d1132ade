package repository

import (
	"context"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
)

// BookmarkRepository stores the bookmark membership denormalized both ways:
// by article (is this bookmarked by user X) and by user (all my slugs), so
// both lookups stay single-query.
type BookmarkRepository interface {
	Add(ctx context.Context, bookmark *entity.Bookmark) error
	Remove(ctx context.Context, slug, userID string) error
	Exists(ctx context.Context, slug, userID string) (bool, error)
	SlugsByUser(ctx context.Context, userID string) ([]string, error)
	DeleteByArticle(ctx context.Context, slug string) (int64, error)
}
