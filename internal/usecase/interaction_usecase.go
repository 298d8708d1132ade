package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
	"github.com/dev-bsvit/blog-gpt5/internal/port/events"
	"github.com/dev-bsvit/blog-gpt5/internal/port/repository"
	"go.uber.org/zap"
)

const (
	InteractionKindLike         = "like"
	InteractionKindBookmark     = "bookmark"
	InteractionKindSubscription = "subscription"
)

// InteractionUseCase owns the three social interactions: likes (membership
// plus a denormalized clap counter), bookmarks and author subscriptions.
type InteractionUseCase struct {
	articleRepo  repository.ArticleRepository
	likeRepo     repository.LikeRepository
	bookmarkRepo repository.BookmarkRepository
	subRepo      repository.SubscriptionRepository
	publisher    events.Publisher
	logger       *zap.Logger
}

func NewInteractionUseCase(
	ar repository.ArticleRepository,
	lr repository.LikeRepository,
	br repository.BookmarkRepository,
	sr repository.SubscriptionRepository,
	pub events.Publisher,
	log *zap.Logger,
) *InteractionUseCase {
	return &InteractionUseCase{
		articleRepo:  ar,
		likeRepo:     lr,
		bookmarkRepo: br,
		subRepo:      sr,
		publisher:    pub,
		logger:       log,
	}
}

// LikeState reports the clap total and, for an authenticated viewer, whether
// they have a like record. userID may be empty; anonymous viewers get
// liked=false, never an error.
func (uc *InteractionUseCase) LikeState(ctx context.Context, slug, userID string) (*entity.LikeState, error) {
	article, err := uc.articleRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	likes := article.Likes
	if likes == 0 {
		// Denormalized counter absent or never written: fall back to
		// counting membership records.
		count, countErr := uc.likeRepo.CountByArticle(ctx, slug)
		if countErr != nil {
			uc.logger.Warn("Failed to count likes fallback", zap.Error(countErr), zap.String("slug", slug))
		} else {
			likes = count
		}
	}

	liked := false
	if userID != "" {
		liked, err = uc.likeRepo.HasLiked(ctx, slug, userID)
		if err != nil {
			uc.logger.Warn("Failed to check like membership", zap.Error(err), zap.String("slug", slug))
			liked = false
		}
	}

	return &entity.LikeState{Likes: likes, Liked: liked}, nil
}

// ToggleLike flips the caller's like record and keeps the clap counter in
// step with an atomic increment. A second call in a row flips back.
func (uc *InteractionUseCase) ToggleLike(ctx context.Context, slug, userID string) (*entity.LikeState, error) {
	if _, err := uc.articleRepo.GetBySlug(ctx, slug); err != nil {
		return nil, err
	}

	liked, err := uc.likeRepo.HasLiked(ctx, slug, userID)
	if err != nil {
		return nil, fmt.Errorf("InteractionUseCase.ToggleLike: %w", err)
	}

	var delta int64
	if liked {
		if err := uc.likeRepo.RemoveLike(ctx, slug, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("InteractionUseCase.ToggleLike: %w", err)
		}
		delta = -1
	} else {
		if err := uc.likeRepo.AddLike(ctx, slug, userID); err != nil {
			return nil, fmt.Errorf("InteractionUseCase.ToggleLike: %w", err)
		}
		delta = 1
	}

	total, err := uc.articleRepo.IncrementCounter(ctx, slug, "likes", delta)
	if err != nil {
		uc.logger.Warn("Failed to adjust likes counter", zap.Error(err), zap.String("slug", slug))
	}

	uc.publishToggle(ctx, InteractionKindLike, slug, userID, !liked)
	return &entity.LikeState{Likes: total, Liked: !liked}, nil
}

// IncrementLikes is the clap path: unauthenticated, unbounded, atomic.
func (uc *InteractionUseCase) IncrementLikes(ctx context.Context, slug string) (int64, error) {
	if _, err := uc.articleRepo.GetBySlug(ctx, slug); err != nil {
		return 0, err
	}

	total, err := uc.articleRepo.IncrementCounter(ctx, slug, "likes", 1)
	if err != nil {
		uc.logger.Error("Failed to increment likes", zap.Error(err), zap.String("slug", slug))
		return 0, fmt.Errorf("InteractionUseCase.IncrementLikes: %w", err)
	}

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishInteractionIncremented(ctx, InteractionKindLike, slug, total); errPub != nil {
			uc.logger.Warn("Failed to publish interaction.incremented event", zap.Error(errPub), zap.String("slug", slug))
		}
	}
	return total, nil
}

// BookmarkState is usable anonymously: no user means not bookmarked.
func (uc *InteractionUseCase) BookmarkState(ctx context.Context, slug, userID string) (bool, error) {
	if _, err := uc.articleRepo.GetBySlug(ctx, slug); err != nil {
		return false, err
	}
	if userID == "" {
		return false, nil
	}

	bookmarked, err := uc.bookmarkRepo.Exists(ctx, slug, userID)
	if err != nil {
		return false, fmt.Errorf("InteractionUseCase.BookmarkState: %w", err)
	}
	return bookmarked, nil
}

func (uc *InteractionUseCase) ToggleBookmark(ctx context.Context, slug, userID string) (bool, error) {
	if _, err := uc.articleRepo.GetBySlug(ctx, slug); err != nil {
		return false, err
	}

	exists, err := uc.bookmarkRepo.Exists(ctx, slug, userID)
	if err != nil {
		return false, fmt.Errorf("InteractionUseCase.ToggleBookmark: %w", err)
	}

	if exists {
		if err := uc.bookmarkRepo.Remove(ctx, slug, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return false, fmt.Errorf("InteractionUseCase.ToggleBookmark: %w", err)
		}
	} else {
		bookmark := &entity.Bookmark{
			UserID:      userID,
			ArticleSlug: slug,
			CreatedAt:   time.Now().UTC(),
		}
		if err := uc.bookmarkRepo.Add(ctx, bookmark); err != nil {
			return false, fmt.Errorf("InteractionUseCase.ToggleBookmark: %w", err)
		}
	}

	uc.publishToggle(ctx, InteractionKindBookmark, slug, userID, !exists)
	return !exists, nil
}

func (uc *InteractionUseCase) BookmarkSlugs(ctx context.Context, userID string) ([]string, error) {
	slugs, err := uc.bookmarkRepo.SlugsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("InteractionUseCase.BookmarkSlugs: %w", err)
	}
	if slugs == nil {
		slugs = []string{}
	}
	return slugs, nil
}

// SubscriptionState never requires auth; the count is public and subscribed
// defaults to false for anonymous viewers.
func (uc *InteractionUseCase) SubscriptionState(ctx context.Context, authorID, userID string) (bool, int64, error) {
	count, err := uc.subRepo.CountByAuthor(ctx, authorID)
	if err != nil {
		return false, 0, fmt.Errorf("InteractionUseCase.SubscriptionState: %w", err)
	}

	subscribed := false
	if userID != "" {
		subscribed, err = uc.subRepo.Exists(ctx, authorID, userID)
		if err != nil {
			uc.logger.Warn("Failed to check subscription membership", zap.Error(err), zap.String("author_id", authorID))
			subscribed = false
		}
	}
	return subscribed, count, nil
}

func (uc *InteractionUseCase) ToggleSubscription(ctx context.Context, authorID, userID string) (bool, int64, error) {
	exists, err := uc.subRepo.Exists(ctx, authorID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("InteractionUseCase.ToggleSubscription: %w", err)
	}

	if exists {
		if err := uc.subRepo.Remove(ctx, authorID, userID); err != nil && !errors.Is(err, repository.ErrNotFound) {
			return false, 0, fmt.Errorf("InteractionUseCase.ToggleSubscription: %w", err)
		}
	} else {
		sub := &entity.Subscription{
			UserID:    userID,
			AuthorID:  authorID,
			CreatedAt: time.Now().UTC(),
		}
		if err := uc.subRepo.Add(ctx, sub); err != nil {
			return false, 0, fmt.Errorf("InteractionUseCase.ToggleSubscription: %w", err)
		}
	}

	count, err := uc.subRepo.CountByAuthor(ctx, authorID)
	if err != nil {
		uc.logger.Warn("Failed to count subscriptions after toggle", zap.Error(err), zap.String("author_id", authorID))
	}

	uc.publishToggle(ctx, InteractionKindSubscription, authorID, userID, !exists)
	return !exists, count, nil
}

func (uc *InteractionUseCase) SubscribedAuthors(ctx context.Context, userID string) ([]string, error) {
	authors, err := uc.subRepo.AuthorsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("InteractionUseCase.SubscribedAuthors: %w", err)
	}
	if authors == nil {
		authors = []string{}
	}
	return authors, nil
}

func (uc *InteractionUseCase) publishToggle(ctx context.Context, kind, subjectID, userID string, value bool) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishInteractionToggled(ctx, kind, subjectID, userID, value); err != nil {
		uc.logger.Warn("Failed to publish interaction.toggled event",
			zap.Error(err),
			zap.String("kind", kind),
			zap.String("subject_id", subjectID),
		)
	}
}
