package events

import (
	"context"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
)

type Publisher interface {
	PublishArticleCreated(ctx context.Context, article *entity.Article) error
	PublishArticleUpdated(ctx context.Context, article *entity.Article) error
	PublishArticleDeleted(ctx context.Context, slug string) error
	PublishInteractionToggled(ctx context.Context, kind, subjectID, userID string, value bool) error
	PublishInteractionIncremented(ctx context.Context, kind, subjectID string, total int64) error
}
