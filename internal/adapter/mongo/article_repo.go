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

const articlesCollectionName = "articles"

type ArticleMongoRepository struct {
	db *mongo.Database
}

func NewArticleMongoRepository(client *mongo.Client, dbName string) *ArticleMongoRepository {
	return &ArticleMongoRepository{
		db: client.Database(dbName),
	}
}

// Articles are keyed by slug, not ObjectID: the slug is the externally owned
// subject identifier everything else (likes, bookmarks, comments) refers to.
type articleDocument struct {
	Slug               string             `bson:"_id"`
	Title              string             `bson:"title"`
	Subtitle           string             `bson:"subtitle,omitempty"`
	Content            string             `bson:"content"`
	IsPublished        bool               `bson:"is_published"`
	Likes              int64              `bson:"likes"`
	Views              int64              `bson:"views"`
	CommentsCount      int64              `bson:"comments_count"`
	Tags               []string           `bson:"tags,omitempty"`
	Category           string             `bson:"category,omitempty"`
	ReadingTimeMinutes int                `bson:"reading_time_minutes"`
	CreatedBy          string             `bson:"created_by"`
	CreatedByName      string             `bson:"created_by_name,omitempty"`
	CreatedByEmail     string             `bson:"created_by_email,omitempty"`
	CreatedByPhoto     string             `bson:"created_by_photo,omitempty"`
	CreatedAt          primitive.DateTime `bson:"created_at"`
	UpdatedAt          primitive.DateTime `bson:"updated_at"`
}

func toArticleDocument(a *entity.Article) *articleDocument {
	return &articleDocument{
		Slug:               a.Slug,
		Title:              a.Title,
		Subtitle:           a.Subtitle,
		Content:            a.Content,
		IsPublished:        a.IsPublished,
		Likes:              a.Likes,
		Views:              a.Views,
		CommentsCount:      a.CommentsCount,
		Tags:               a.Tags,
		Category:           a.Category,
		ReadingTimeMinutes: a.ReadingTimeMinutes,
		CreatedBy:          a.CreatedBy,
		CreatedByName:      a.CreatedByName,
		CreatedByEmail:     a.CreatedByEmail,
		CreatedByPhoto:     a.CreatedByPhoto,
		CreatedAt:          primitive.NewDateTimeFromTime(a.CreatedAt),
		UpdatedAt:          primitive.NewDateTimeFromTime(a.UpdatedAt),
	}
}

func toArticleEntity(doc *articleDocument) *entity.Article {
	return &entity.Article{
		Slug:               doc.Slug,
		Title:              doc.Title,
		Subtitle:           doc.Subtitle,
		Content:            doc.Content,
		IsPublished:        doc.IsPublished,
		Likes:              doc.Likes,
		Views:              doc.Views,
		CommentsCount:      doc.CommentsCount,
		Tags:               doc.Tags,
		Category:           doc.Category,
		ReadingTimeMinutes: doc.ReadingTimeMinutes,
		CreatedBy:          doc.CreatedBy,
		CreatedByName:      doc.CreatedByName,
		CreatedByEmail:     doc.CreatedByEmail,
		CreatedByPhoto:     doc.CreatedByPhoto,
		CreatedAt:          doc.CreatedAt.Time(),
		UpdatedAt:          doc.UpdatedAt.Time(),
	}
}

func (r *ArticleMongoRepository) Create(ctx context.Context, article *entity.Article) error {
	doc := toArticleDocument(article)
	_, err := r.db.Collection(articlesCollectionName).InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("failed to create article in mongo: %w", err)
	}
	return nil
}

func (r *ArticleMongoRepository) GetBySlug(ctx context.Context, slug string) (*entity.Article, error) {
	var doc articleDocument
	err := r.db.Collection(articlesCollectionName).FindOne(ctx, bson.M{"_id": slug}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get article by slug from mongo: %w", err)
	}
	return toArticleEntity(&doc), nil
}

func (r *ArticleMongoRepository) Update(ctx context.Context, article *entity.Article) error {
	doc := toArticleDocument(article)

	// Counters are mutated only via IncrementCounter, so a full-document
	// update must not touch them.
	updateFields := bson.M{
		"$set": bson.M{
			"title":                doc.Title,
			"subtitle":             doc.Subtitle,
			"content":              doc.Content,
			"is_published":         doc.IsPublished,
			"tags":                 doc.Tags,
			"category":             doc.Category,
			"reading_time_minutes": doc.ReadingTimeMinutes,
			"updated_at":           doc.UpdatedAt,
		},
	}

	res, err := r.db.Collection(articlesCollectionName).UpdateOne(ctx, bson.M{"_id": doc.Slug}, updateFields)
	if err != nil {
		return fmt.Errorf("failed to update article in mongo: %w", err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ArticleMongoRepository) Delete(ctx context.Context, slug string) error {
	res, err := r.db.Collection(articlesCollectionName).DeleteOne(ctx, bson.M{"_id": slug})
	if err != nil {
		return fmt.Errorf("failed to delete article from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *ArticleMongoRepository) List(ctx context.Context, publishedOnly bool) ([]*entity.Article, error) {
	filter := bson.M{}
	if publishedOnly {
		filter["is_published"] = true
	}
	return r.find(ctx, filter)
}

func (r *ArticleMongoRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entity.Article, error) {
	return r.find(ctx, bson.M{"created_by": authorID})
}

func (r *ArticleMongoRepository) ListBySlugs(ctx context.Context, slugs []string) ([]*entity.Article, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": slugs}})
}

func (r *ArticleMongoRepository) find(ctx context.Context, filter bson.M) ([]*entity.Article, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.db.Collection(articlesCollectionName).Find(ctx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []articleDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode article list from mongo: %w", err)
	}

	articles := make([]*entity.Article, len(docs))
	for i := range docs {
		articles[i] = toArticleEntity(&docs[i])
	}
	return articles, nil
}

func (r *ArticleMongoRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	count, err := r.db.Collection(articlesCollectionName).CountDocuments(ctx, bson.M{"_id": slug})
	if err != nil {
		return false, fmt.Errorf("failed to check slug existence in mongo: %w", err)
	}
	return count > 0, nil
}

// IncrementCounter is the only write path for counter fields. $inc keeps
// concurrent clappers from losing updates.
func (r *ArticleMongoRepository) IncrementCounter(ctx context.Context, slug, field string, by int64) (int64, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc bson.M
	err := r.db.Collection(articlesCollectionName).FindOneAndUpdate(
		ctx,
		bson.M{"_id": slug},
		bson.M{"$inc": bson.M{field: by}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("failed to increment %s in mongo: %w", field, err)
	}

	switch v := doc[field].(type) {
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case float64:
		return int64(v), nil
	default:
		return 0, fmt.Errorf("unexpected type for counter field %s: %T", field, doc[field])
	}
}
