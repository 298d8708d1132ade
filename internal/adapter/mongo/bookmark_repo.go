package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
	"github.com/dev-bsvit/blog-gpt5/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bookmarksCollectionName = "bookmarks"

var ErrBookmarkAlreadyExists = errors.New("bookmark already exists for this user and article")

type BookmarkMongoRepository struct {
	collection *mongo.Collection
}

func NewBookmarkMongoRepository(client *mongo.Client, dbName string) repository.BookmarkRepository {
	return &BookmarkMongoRepository{
		collection: client.Database(dbName).Collection(bookmarksCollectionName),
	}
}

type bookmarkDocument struct {
	UserID      string             `bson:"user_id"`
	ArticleSlug string             `bson:"article_slug"`
	CreatedAt   primitive.DateTime `bson:"created_at"`
}

func (r *BookmarkMongoRepository) Add(ctx context.Context, bookmark *entity.Bookmark) error {
	doc := bookmarkDocument{
		UserID:      bookmark.UserID,
		ArticleSlug: bookmark.ArticleSlug,
		CreatedAt:   primitive.NewDateTimeFromTime(bookmark.CreatedAt),
	}

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		// Relies on the unique (article_slug, user_id) index.
		if mongo.IsDuplicateKeyError(err) {
			return ErrBookmarkAlreadyExists
		}
		return fmt.Errorf("failed to add bookmark in mongo: %w", err)
	}
	return nil
}

func (r *BookmarkMongoRepository) Remove(ctx context.Context, slug, userID string) error {
	filter := bson.M{"article_slug": slug, "user_id": userID}
	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BookmarkMongoRepository) Exists(ctx context.Context, slug, userID string) (bool, error) {
	filter := bson.M{"article_slug": slug, "user_id": userID}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check bookmark existence in mongo: %w", err)
	}
	return count > 0, nil
}

func (r *BookmarkMongoRepository) SlugsByUser(ctx context.Context, userID string) ([]string, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []bookmarkDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bookmark list from mongo: %w", err)
	}

	slugs := make([]string, len(docs))
	for i := range docs {
		slugs[i] = docs[i].ArticleSlug
	}
	return slugs, nil
}

func (r *BookmarkMongoRepository) DeleteByArticle(ctx context.Context, slug string) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"article_slug": slug})
	if err != nil {
		return 0, fmt.Errorf("failed to delete bookmarks by article from mongo: %w", err)
	}
	return res.DeletedCount, nil
}
