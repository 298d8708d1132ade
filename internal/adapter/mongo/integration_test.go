package mongo

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
	"github.com/dev-bsvit/blog-gpt5/internal/port/repository"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const testDBName = "blog_test"

var testClient *mongo.Client

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "5.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}

	uri := fmt.Sprintf("mongodb://%s/%s", resource.GetHostPort("27017/tcp"), testDBName)
	if err := pool.Retry(func() error {
		var errRetry error
		testClient, errRetry = mongo.Connect(context.Background(), options.Client().ApplyURI(uri))
		if errRetry != nil {
			return errRetry
		}
		return testClient.Ping(context.Background(), nil)
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}

	if err := EnsureIndexes(context.Background(), testClient, testDBName); err != nil {
		log.Fatalf("Could not create indexes: %s", err)
	}

	code := m.Run()

	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func clearCollections(t *testing.T) {
	t.Helper()
	db := testClient.Database(testDBName)
	for _, coll := range []string{articlesCollectionName, commentsCollectionName, likesCollectionName, bookmarksCollectionName, subscriptionsCollectionName} {
		_, err := db.Collection(coll).DeleteMany(context.Background(), bson.M{})
		require.NoError(t, err)
	}
}

func skipShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test requires Docker")
	}
}

func seedTestArticle(t *testing.T, repo *ArticleMongoRepository, slug string) *entity.Article {
	t.Helper()
	article := &entity.Article{
		Slug:        slug,
		Title:       "Seeded " + slug,
		Content:     "content",
		IsPublished: true,
		CreatedBy:   "author-1",
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
		UpdatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	require.NoError(t, repo.Create(context.Background(), article))
	return article
}

func TestArticleRepository_CreateAndGet(t *testing.T) {
	skipShort(t)
	clearCollections(t)
	repo := NewArticleMongoRepository(testClient, testDBName)
	ctx := context.Background()

	seedTestArticle(t, repo, "go-generics")

	got, err := repo.GetBySlug(ctx, "go-generics")
	require.NoError(t, err)
	assert.Equal(t, "go-generics", got.Slug)
	assert.Equal(t, "Seeded go-generics", got.Title)

	_, err = repo.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestArticleRepository_DuplicateSlugRejected(t *testing.T) {
	skipShort(t)
	clearCollections(t)
	repo := NewArticleMongoRepository(testClient, testDBName)
	ctx := context.Background()

	seedTestArticle(t, repo, "go-generics")

	err := repo.Create(ctx, &entity.Article{Slug: "go-generics", Title: "Dup"})
	assert.Error(t, err, "slug doubles as _id, so a duplicate insert must fail")
}

// Fifty concurrent claps must produce exactly fifty: the counter path has to
// be a server-side $inc, not read-modify-write.
func TestArticleRepository_IncrementCounterIsAtomic(t *testing.T) {
	skipShort(t)
	clearCollections(t)
	repo := NewArticleMongoRepository(testClient, testDBName)
	ctx := context.Background()

	seedTestArticle(t, repo, "go-generics")

	const workers = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.IncrementCounter(ctx, "go-generics", "likes", 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := repo.GetBySlug(ctx, "go-generics")
	require.NoError(t, err)
	assert.Equal(t, int64(workers), got.Likes)
}

func TestArticleRepository_IncrementCounterReturnsNewValue(t *testing.T) {
	skipShort(t)
	clearCollections(t)
	repo := NewArticleMongoRepository(testClient, testDBName)
	ctx := context.Background()

	seedTestArticle(t, repo, "go-generics")

	total, err := repo.IncrementCounter(ctx, "go-generics", "views", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	total, err = repo.IncrementCounter(ctx, "go-generics", "views", -1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)

	_, err = repo.IncrementCounter(ctx, "missing", "views", 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLikeRepository_AddIsIdempotent(t *testing.T) {
	skipShort(t)
	clearCollections(t)
	repo := NewLikeMongoRepository(testClient, testDBName)
	ctx := context.Background()

	require.NoError(t, repo.AddLike(ctx, "go-generics", "user-1"))
	require.NoError(t, repo.AddLike(ctx, "go-generics", "user-1"))

	count, err := repo.CountByArticle(ctx, "go-generics")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "unique index keeps one membership record per pair")

	liked, err := repo.HasLiked(ctx, "go-generics", "user-1")
	require.NoError(t, err)
	assert.True(t, liked)

	require.NoError(t, repo.RemoveLike(ctx, "go-generics", "user-1"))
	liked, err = repo.HasLiked(ctx, "go-generics", "user-1")
	require.NoError(t, err)
	assert.False(t, liked)
}

func TestBookmarkRepository_DuplicateAndSlugs(t *testing.T) {
	skipShort(t)
	clearCollections(t)
	repo := NewBookmarkMongoRepository(testClient, testDBName)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &entity.Bookmark{UserID: "user-1", ArticleSlug: "a", CreatedAt: time.Now().UTC()}))
	require.NoError(t, repo.Add(ctx, &entity.Bookmark{UserID: "user-1", ArticleSlug: "b", CreatedAt: time.Now().UTC()}))

	err := repo.Add(ctx, &entity.Bookmark{UserID: "user-1", ArticleSlug: "a", CreatedAt: time.Now().UTC()})
	assert.ErrorIs(t, err, ErrBookmarkAlreadyExists)

	slugs, err := repo.SlugsByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, slugs)

	exists, err := repo.Exists(ctx, "a", "user-1")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, repo.Remove(ctx, "a", "user-1"))
	exists, err = repo.Exists(ctx, "a", "user-1")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSubscriptionRepository_Flow(t *testing.T) {
	skipShort(t)
	clearCollections(t)
	repo := NewSubscriptionMongoRepository(testClient, testDBName)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, &entity.Subscription{UserID: "user-1", AuthorID: "author-1", CreatedAt: time.Now().UTC()}))
	require.NoError(t, repo.Add(ctx, &entity.Subscription{UserID: "user-2", AuthorID: "author-1", CreatedAt: time.Now().UTC()}))

	count, err := repo.CountByAuthor(ctx, "author-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	authors, err := repo.AuthorsByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"author-1"}, authors)

	subs, err := repo.SubscribersByAuthor(ctx, "author-1")
	require.NoError(t, err)
	assert.Len(t, subs, 2)

	require.NoError(t, repo.Remove(ctx, "author-1", "user-1"))
	count, err = repo.CountByAuthor(ctx, "author-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCommentRepository_CascadeDelete(t *testing.T) {
	skipShort(t)
	clearCollections(t)
	repo := NewCommentMongoRepository(testClient, testDBName)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &entity.Comment{
			ID:          fmt.Sprintf("c%d", i),
			ArticleSlug: "go-generics",
			UserID:      "user-1",
			Author:      "Alice",
			Text:        "text",
			CreatedAt:   time.Now().UTC(),
		}))
	}
	require.NoError(t, repo.Create(ctx, &entity.Comment{
		ID: "other", ArticleSlug: "other-post", UserID: "user-1", Author: "Alice", Text: "t", CreatedAt: time.Now().UTC(),
	}))

	count, err := repo.CountByArticle(ctx, "go-generics")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	deleted, err := repo.DeleteByArticle(ctx, "go-generics")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	count, err = repo.CountByArticle(ctx, "other-post")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestArticleRepository_ListBySlugs(t *testing.T) {
	skipShort(t)
	clearCollections(t)
	repo := NewArticleMongoRepository(testClient, testDBName)
	ctx := context.Background()

	seedTestArticle(t, repo, "a")
	seedTestArticle(t, repo, "b")
	seedTestArticle(t, repo, "c")

	articles, err := repo.ListBySlugs(ctx, []string{"a", "c", "missing"})
	require.NoError(t, err)
	assert.Len(t, articles, 2)

	articles, err = repo.ListBySlugs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, articles)
}
