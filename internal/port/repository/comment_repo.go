package repository

import (
	"context"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	ListByArticle(ctx context.Context, slug string) ([]*entity.Comment, error)
	CountByArticle(ctx context.Context, slug string) (int64, error)
	DeleteByArticle(ctx context.Context, slug string) (int64, error)
}
