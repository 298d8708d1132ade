package usecase

import (
	"context"
	"testing"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
	"github.com/dev-bsvit/blog-gpt5/internal/port/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func newInteractionFixture() (*InteractionUseCase, *MockArticleRepository, *MockLikeRepository, *MockBookmarkRepository, *MockSubscriptionRepository, *MockPublisher) {
	logger, _ := zap.NewDevelopment()
	articleRepo := new(MockArticleRepository)
	likeRepo := new(MockLikeRepository)
	bookmarkRepo := new(MockBookmarkRepository)
	subRepo := new(MockSubscriptionRepository)
	pub := new(MockPublisher)
	uc := NewInteractionUseCase(articleRepo, likeRepo, bookmarkRepo, subRepo, pub, logger)
	return uc, articleRepo, likeRepo, bookmarkRepo, subRepo, pub
}

func TestInteractionUseCase_LikeState(t *testing.T) {
	ctx := context.Background()
	article := &entity.Article{Slug: "go-generics", Likes: 12}

	t.Run("AnonymousViewer", func(t *testing.T) {
		uc, articleRepo, likeRepo, _, _, _ := newInteractionFixture()
		articleRepo.On("GetBySlug", ctx, "go-generics").Return(article, nil).Once()

		state, err := uc.LikeState(ctx, "go-generics", "")

		assert.NoError(t, err)
		assert.Equal(t, int64(12), state.Likes)
		assert.False(t, state.Liked)
		likeRepo.AssertNotCalled(t, "HasLiked", mock.Anything, mock.Anything, mock.Anything)
		articleRepo.AssertExpectations(t)
	})

	t.Run("AuthenticatedViewer", func(t *testing.T) {
		uc, articleRepo, likeRepo, _, _, _ := newInteractionFixture()
		articleRepo.On("GetBySlug", ctx, "go-generics").Return(article, nil).Once()
		likeRepo.On("HasLiked", ctx, "go-generics", "user-1").Return(true, nil).Once()

		state, err := uc.LikeState(ctx, "go-generics", "user-1")

		assert.NoError(t, err)
		assert.True(t, state.Liked)
		likeRepo.AssertExpectations(t)
	})

	t.Run("ZeroCounterFallsBackToMembershipCount", func(t *testing.T) {
		uc, articleRepo, likeRepo, _, _, _ := newInteractionFixture()
		articleRepo.On("GetBySlug", ctx, "fresh-slug").Return(&entity.Article{Slug: "fresh-slug"}, nil).Once()
		likeRepo.On("CountByArticle", ctx, "fresh-slug").Return(int64(3), nil).Once()

		state, err := uc.LikeState(ctx, "fresh-slug", "")

		assert.NoError(t, err)
		assert.Equal(t, int64(3), state.Likes)
		likeRepo.AssertExpectations(t)
	})

	t.Run("UnknownArticle", func(t *testing.T) {
		uc, articleRepo, _, _, _, _ := newInteractionFixture()
		articleRepo.On("GetBySlug", ctx, "missing").Return(nil, repository.ErrNotFound).Once()

		_, err := uc.LikeState(ctx, "missing", "")

		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestInteractionUseCase_ToggleLike(t *testing.T) {
	ctx := context.Background()
	article := &entity.Article{Slug: "go-generics", Likes: 5}

	t.Run("LikeAddsMembershipAndIncrements", func(t *testing.T) {
		uc, articleRepo, likeRepo, _, _, pub := newInteractionFixture()
		articleRepo.On("GetBySlug", ctx, "go-generics").Return(article, nil).Once()
		likeRepo.On("HasLiked", ctx, "go-generics", "user-1").Return(false, nil).Once()
		likeRepo.On("AddLike", ctx, "go-generics", "user-1").Return(nil).Once()
		articleRepo.On("IncrementCounter", ctx, "go-generics", "likes", int64(1)).Return(int64(6), nil).Once()
		pub.On("PublishInteractionToggled", ctx, InteractionKindLike, "go-generics", "user-1", true).Return(nil).Once()

		state, err := uc.ToggleLike(ctx, "go-generics", "user-1")

		assert.NoError(t, err)
		assert.True(t, state.Liked)
		assert.Equal(t, int64(6), state.Likes)
		likeRepo.AssertExpectations(t)
		articleRepo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("SecondToggleRemovesAndDecrements", func(t *testing.T) {
		uc, articleRepo, likeRepo, _, _, pub := newInteractionFixture()
		articleRepo.On("GetBySlug", ctx, "go-generics").Return(article, nil).Once()
		likeRepo.On("HasLiked", ctx, "go-generics", "user-1").Return(true, nil).Once()
		likeRepo.On("RemoveLike", ctx, "go-generics", "user-1").Return(nil).Once()
		articleRepo.On("IncrementCounter", ctx, "go-generics", "likes", int64(-1)).Return(int64(5), nil).Once()
		pub.On("PublishInteractionToggled", ctx, InteractionKindLike, "go-generics", "user-1", false).Return(nil).Once()

		state, err := uc.ToggleLike(ctx, "go-generics", "user-1")

		assert.NoError(t, err)
		assert.False(t, state.Liked)
		assert.Equal(t, int64(5), state.Likes)
		likeRepo.AssertExpectations(t)
	})
}

func TestInteractionUseCase_IncrementLikes(t *testing.T) {
	ctx := context.Background()

	t.Run("AtomicIncrement", func(t *testing.T) {
		uc, articleRepo, _, _, _, pub := newInteractionFixture()
		articleRepo.On("GetBySlug", ctx, "go-generics").Return(&entity.Article{Slug: "go-generics"}, nil).Once()
		articleRepo.On("IncrementCounter", ctx, "go-generics", "likes", int64(1)).Return(int64(43), nil).Once()
		pub.On("PublishInteractionIncremented", ctx, InteractionKindLike, "go-generics", int64(43)).Return(nil).Once()

		total, err := uc.IncrementLikes(ctx, "go-generics")

		assert.NoError(t, err)
		assert.Equal(t, int64(43), total)
		articleRepo.AssertExpectations(t)
		pub.AssertExpectations(t)
	})

	t.Run("UnknownArticle", func(t *testing.T) {
		uc, articleRepo, _, _, _, _ := newInteractionFixture()
		articleRepo.On("GetBySlug", ctx, "missing").Return(nil, repository.ErrNotFound).Once()

		_, err := uc.IncrementLikes(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		articleRepo.AssertNotCalled(t, "IncrementCounter", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestInteractionUseCase_ToggleBookmark(t *testing.T) {
	ctx := context.Background()
	article := &entity.Article{Slug: "go-generics"}

	t.Run("AddWhenAbsent", func(t *testing.T) {
		uc, articleRepo, _, bookmarkRepo, _, pub := newInteractionFixture()
		articleRepo.On("GetBySlug", ctx, "go-generics").Return(article, nil).Once()
		bookmarkRepo.On("Exists", ctx, "go-generics", "user-1").Return(false, nil).Once()
		bookmarkRepo.On("Add", ctx, mock.AnythingOfType("*entity.Bookmark")).Return(nil).Once()
		pub.On("PublishInteractionToggled", ctx, InteractionKindBookmark, "go-generics", "user-1", true).Return(nil).Once()

		bookmarked, err := uc.ToggleBookmark(ctx, "go-generics", "user-1")

		assert.NoError(t, err)
		assert.True(t, bookmarked)
		bookmarkRepo.AssertExpectations(t)
	})

	t.Run("RemoveWhenPresent", func(t *testing.T) {
		uc, articleRepo, _, bookmarkRepo, _, pub := newInteractionFixture()
		articleRepo.On("GetBySlug", ctx, "go-generics").Return(article, nil).Once()
		bookmarkRepo.On("Exists", ctx, "go-generics", "user-1").Return(true, nil).Once()
		bookmarkRepo.On("Remove", ctx, "go-generics", "user-1").Return(nil).Once()
		pub.On("PublishInteractionToggled", ctx, InteractionKindBookmark, "go-generics", "user-1", false).Return(nil).Once()

		bookmarked, err := uc.ToggleBookmark(ctx, "go-generics", "user-1")

		assert.NoError(t, err)
		assert.False(t, bookmarked)
		bookmarkRepo.AssertExpectations(t)
	})
}

func TestInteractionUseCase_BookmarkSlugs(t *testing.T) {
	ctx := context.Background()

	t.Run("EmptyListIsNotNil", func(t *testing.T) {
		uc, _, _, bookmarkRepo, _, _ := newInteractionFixture()
		bookmarkRepo.On("SlugsByUser", ctx, "user-1").Return(nil, nil).Once()

		slugs, err := uc.BookmarkSlugs(ctx, "user-1")

		assert.NoError(t, err)
		assert.NotNil(t, slugs)
		assert.Empty(t, slugs)
	})
}

func TestInteractionUseCase_ToggleSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("SubscribeReturnsFreshCount", func(t *testing.T) {
		uc, _, _, _, subRepo, pub := newInteractionFixture()
		subRepo.On("Exists", ctx, "author-1", "user-1").Return(false, nil).Once()
		subRepo.On("Add", ctx, mock.AnythingOfType("*entity.Subscription")).Return(nil).Once()
		subRepo.On("CountByAuthor", ctx, "author-1").Return(int64(8), nil).Once()
		pub.On("PublishInteractionToggled", ctx, InteractionKindSubscription, "author-1", "user-1", true).Return(nil).Once()

		subscribed, count, err := uc.ToggleSubscription(ctx, "author-1", "user-1")

		assert.NoError(t, err)
		assert.True(t, subscribed)
		assert.Equal(t, int64(8), count)
		subRepo.AssertExpectations(t)
	})

	t.Run("UnsubscribeIsIdempotentOnMissingRecord", func(t *testing.T) {
		uc, _, _, _, subRepo, pub := newInteractionFixture()
		subRepo.On("Exists", ctx, "author-1", "user-1").Return(true, nil).Once()
		subRepo.On("Remove", ctx, "author-1", "user-1").Return(repository.ErrNotFound).Once()
		subRepo.On("CountByAuthor", ctx, "author-1").Return(int64(7), nil).Once()
		pub.On("PublishInteractionToggled", ctx, InteractionKindSubscription, "author-1", "user-1", false).Return(nil).Once()

		subscribed, count, err := uc.ToggleSubscription(ctx, "author-1", "user-1")

		assert.NoError(t, err)
		assert.False(t, subscribed)
		assert.Equal(t, int64(7), count)
	})
}

func TestInteractionUseCase_SubscriptionState(t *testing.T) {
	ctx := context.Background()

	t.Run("AnonymousGetsPublicCount", func(t *testing.T) {
		uc, _, _, _, subRepo, _ := newInteractionFixture()
		subRepo.On("CountByAuthor", ctx, "author-1").Return(int64(20), nil).Once()

		subscribed, count, err := uc.SubscriptionState(ctx, "author-1", "")

		assert.NoError(t, err)
		assert.False(t, subscribed)
		assert.Equal(t, int64(20), count)
		subRepo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything)
	})
}
