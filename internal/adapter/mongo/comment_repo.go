package mongo

import (
	"context"
	"fmt"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const commentsCollectionName = "comments"

type CommentMongoRepository struct {
	db *mongo.Database
}

func NewCommentMongoRepository(client *mongo.Client, dbName string) *CommentMongoRepository {
	return &CommentMongoRepository{
		db: client.Database(dbName),
	}
}

type commentDocument struct {
	ID          string             `bson:"_id"`
	ArticleSlug string             `bson:"article_slug"`
	UserID      string             `bson:"user_id"`
	Author      string             `bson:"author"`
	Text        string             `bson:"text"`
	CreatedAt   primitive.DateTime `bson:"created_at"`
}

func toCommentEntity(doc *commentDocument) *entity.Comment {
	return &entity.Comment{
		ID:          doc.ID,
		ArticleSlug: doc.ArticleSlug,
		UserID:      doc.UserID,
		Author:      doc.Author,
		Text:        doc.Text,
		CreatedAt:   doc.CreatedAt.Time(),
	}
}

func (r *CommentMongoRepository) Create(ctx context.Context, comment *entity.Comment) error {
	doc := commentDocument{
		ID:          comment.ID,
		ArticleSlug: comment.ArticleSlug,
		UserID:      comment.UserID,
		Author:      comment.Author,
		Text:        comment.Text,
		CreatedAt:   primitive.NewDateTimeFromTime(comment.CreatedAt),
	}
	_, err := r.db.Collection(commentsCollectionName).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create comment in mongo: %w", err)
	}
	return nil
}

func (r *CommentMongoRepository) ListByArticle(ctx context.Context, slug string) ([]*entity.Comment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(commentsCollectionName).Find(ctx, bson.M{"article_slug": slug}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []commentDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode comment list from mongo: %w", err)
	}

	comments := make([]*entity.Comment, len(docs))
	for i := range docs {
		comments[i] = toCommentEntity(&docs[i])
	}
	return comments, nil
}

func (r *CommentMongoRepository) CountByArticle(ctx context.Context, slug string) (int64, error) {
	count, err := r.db.Collection(commentsCollectionName).CountDocuments(ctx, bson.M{"article_slug": slug})
	if err != nil {
		return 0, fmt.Errorf("failed to count comments in mongo: %w", err)
	}
	return count, nil
}

func (r *CommentMongoRepository) DeleteByArticle(ctx context.Context, slug string) (int64, error) {
	res, err := r.db.Collection(commentsCollectionName).DeleteMany(ctx, bson.M{"article_slug": slug})
	if err != nil {
		return 0, fmt.Errorf("failed to delete comments by article from mongo: %w", err)
	}
	return res.DeletedCount, nil
}
