package repository

import (
	"context"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
)

type SubscriptionRepository interface {
	Add(ctx context.Context, sub *entity.Subscription) error
	Remove(ctx context.Context, authorID, userID string) error
	Exists(ctx context.Context, authorID, userID string) (bool, error)
	CountByAuthor(ctx context.Context, authorID string) (int64, error)
	AuthorsByUser(ctx context.Context, userID string) ([]string, error)
	SubscribersByAuthor(ctx context.Context, authorID string) ([]*entity.Subscription, error)
}
