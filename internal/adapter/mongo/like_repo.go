package mongo

import (
	"context"
	"fmt"

	"github.com/dev-bsvit/blog-gpt5/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const likesCollectionName = "likes"

type LikeMongoRepository struct {
	db *mongo.Database
}

func NewLikeMongoRepository(client *mongo.Client, dbName string) repository.LikeRepository {
	return &LikeMongoRepository{
		db: client.Database(dbName),
	}
}

type likeDocument struct {
	ArticleSlug string `bson:"article_slug"`
	UserID      string `bson:"user_id"`
}

func (r *LikeMongoRepository) AddLike(ctx context.Context, slug, userID string) error {
	doc := likeDocument{
		ArticleSlug: slug,
		UserID:      userID,
	}

	filter := bson.M{
		"article_slug": doc.ArticleSlug,
		"user_id":      doc.UserID,
	}

	opts := options.Update().SetUpsert(true)
	_, err := r.db.Collection(likesCollectionName).UpdateOne(ctx, filter, bson.M{"$setOnInsert": doc}, opts)
	if err != nil {
		return fmt.Errorf("failed to add like in mongo: %w", err)
	}
	return nil
}

func (r *LikeMongoRepository) RemoveLike(ctx context.Context, slug, userID string) error {
	filter := bson.M{
		"article_slug": slug,
		"user_id":      userID,
	}
	res, err := r.db.Collection(likesCollectionName).DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove like from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *LikeMongoRepository) HasLiked(ctx context.Context, slug, userID string) (bool, error) {
	filter := bson.M{
		"article_slug": slug,
		"user_id":      userID,
	}
	count, err := r.db.Collection(likesCollectionName).CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check if liked from mongo: %w", err)
	}
	return count > 0, nil
}

func (r *LikeMongoRepository) CountByArticle(ctx context.Context, slug string) (int64, error) {
	count, err := r.db.Collection(likesCollectionName).CountDocuments(ctx, bson.M{"article_slug": slug})
	if err != nil {
		return 0, fmt.Errorf("failed to get likes count from mongo: %w", err)
	}
	return count, nil
}

func (r *LikeMongoRepository) DeleteByArticle(ctx context.Context, slug string) (int64, error) {
	res, err := r.db.Collection(likesCollectionName).DeleteMany(ctx, bson.M{"article_slug": slug})
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes by article from mongo: %w", err)
	}
	return res.DeletedCount, nil
}
