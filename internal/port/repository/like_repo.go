package repository

import "context"

type LikeRepository interface {
	AddLike(ctx context.Context, slug, userID string) error
	RemoveLike(ctx context.Context, slug, userID string) error
	HasLiked(ctx context.Context, slug, userID string) (bool, error)
	CountByArticle(ctx context.Context, slug string) (int64, error)
	DeleteByArticle(ctx context.Context, slug string) (int64, error)
}
