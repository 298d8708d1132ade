package usecase

import (
	"context"
	"time"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
	"github.com/stretchr/testify/mock"
)

type MockArticleRepository struct{ mock.Mock }

func (m *MockArticleRepository) Create(ctx context.Context, article *entity.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}
func (m *MockArticleRepository) GetBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Article), args.Error(1)
}
func (m *MockArticleRepository) Update(ctx context.Context, article *entity.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}
func (m *MockArticleRepository) Delete(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}
func (m *MockArticleRepository) List(ctx context.Context, publishedOnly bool) ([]*entity.Article, error) {
	args := m.Called(ctx, publishedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Article), args.Error(1)
}
func (m *MockArticleRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Article, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Article), args.Error(1)
}
func (m *MockArticleRepository) ListBySlugs(ctx context.Context, slugs []string) ([]*entity.Article, error) {
	args := m.Called(ctx, slugs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Article), args.Error(1)
}
func (m *MockArticleRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}
func (m *MockArticleRepository) IncrementCounter(ctx context.Context, slug, field string, by int64) (int64, error) {
	args := m.Called(ctx, slug, field, by)
	return args.Get(0).(int64), args.Error(1)
}

type MockCommentRepository struct{ mock.Mock }

func (m *MockCommentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}
func (m *MockCommentRepository) ListByArticle(ctx context.Context, slug string) ([]*entity.Comment, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Comment), args.Error(1)
}
func (m *MockCommentRepository) CountByArticle(ctx context.Context, slug string) (int64, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockCommentRepository) DeleteByArticle(ctx context.Context, slug string) (int64, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(int64), args.Error(1)
}

type MockLikeRepository struct{ mock.Mock }

func (m *MockLikeRepository) AddLike(ctx context.Context, slug, userID string) error {
	args := m.Called(ctx, slug, userID)
	return args.Error(0)
}
func (m *MockLikeRepository) RemoveLike(ctx context.Context, slug, userID string) error {
	args := m.Called(ctx, slug, userID)
	return args.Error(0)
}
func (m *MockLikeRepository) HasLiked(ctx context.Context, slug, userID string) (bool, error) {
	args := m.Called(ctx, slug, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockLikeRepository) CountByArticle(ctx context.Context, slug string) (int64, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockLikeRepository) DeleteByArticle(ctx context.Context, slug string) (int64, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(int64), args.Error(1)
}

type MockBookmarkRepository struct{ mock.Mock }

func (m *MockBookmarkRepository) Add(ctx context.Context, bookmark *entity.Bookmark) error {
	args := m.Called(ctx, bookmark)
	return args.Error(0)
}
func (m *MockBookmarkRepository) Remove(ctx context.Context, slug, userID string) error {
	args := m.Called(ctx, slug, userID)
	return args.Error(0)
}
func (m *MockBookmarkRepository) Exists(ctx context.Context, slug, userID string) (bool, error) {
	args := m.Called(ctx, slug, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookmarkRepository) SlugsByUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockBookmarkRepository) DeleteByArticle(ctx context.Context, slug string) (int64, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(int64), args.Error(1)
}

type MockSubscriptionRepository struct{ mock.Mock }

func (m *MockSubscriptionRepository) Add(ctx context.Context, sub *entity.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}
func (m *MockSubscriptionRepository) Remove(ctx context.Context, authorID, userID string) error {
	args := m.Called(ctx, authorID, userID)
	return args.Error(0)
}
func (m *MockSubscriptionRepository) Exists(ctx context.Context, authorID, userID string) (bool, error) {
	args := m.Called(ctx, authorID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockSubscriptionRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	args := m.Called(ctx, authorID)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockSubscriptionRepository) AuthorsByUser(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
func (m *MockSubscriptionRepository) SubscribersByAuthor(ctx context.Context, authorID string) ([]*entity.Subscription, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Subscription), args.Error(1)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishArticleCreated(ctx context.Context, article *entity.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}
func (m *MockPublisher) PublishArticleUpdated(ctx context.Context, article *entity.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}
func (m *MockPublisher) PublishArticleDeleted(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}
func (m *MockPublisher) PublishInteractionToggled(ctx context.Context, kind, subjectID, userID string, value bool) error {
	args := m.Called(ctx, kind, subjectID, userID, value)
	return args.Error(0)
}
func (m *MockPublisher) PublishInteractionIncremented(ctx context.Context, kind, subjectID string, total int64) error {
	args := m.Called(ctx, kind, subjectID, total)
	return args.Error(0)
}

type MockEmailSender struct{ mock.Mock }

func (m *MockEmailSender) SendEmail(to []string, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}
