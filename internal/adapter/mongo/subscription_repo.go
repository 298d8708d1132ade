package mongo

import (
	"context"
	"fmt"

	"github.com/dev-bsvit/blog-gpt5/internal/entity"
	"github.com/dev-bsvit/blog-gpt5/internal/port/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const subscriptionsCollectionName = "subscriptions"

type SubscriptionMongoRepository struct {
	collection *mongo.Collection
}

func NewSubscriptionMongoRepository(client *mongo.Client, dbName string) repository.SubscriptionRepository {
	return &SubscriptionMongoRepository{
		collection: client.Database(dbName).Collection(subscriptionsCollectionName),
	}
}

type subscriptionDocument struct {
	AuthorID  string             `bson:"author_id"`
	UserID    string             `bson:"user_id"`
	CreatedAt primitive.DateTime `bson:"created_at"`
}

func (r *SubscriptionMongoRepository) Add(ctx context.Context, sub *entity.Subscription) error {
	doc := subscriptionDocument{
		AuthorID:  sub.AuthorID,
		UserID:    sub.UserID,
		CreatedAt: primitive.NewDateTimeFromTime(sub.CreatedAt),
	}

	filter := bson.M{"author_id": doc.AuthorID, "user_id": doc.UserID}
	opts := options.Update().SetUpsert(true)
	_, err := r.collection.UpdateOne(ctx, filter, bson.M{"$setOnInsert": doc}, opts)
	if err != nil {
		return fmt.Errorf("failed to add subscription in mongo: %w", err)
	}
	return nil
}

func (r *SubscriptionMongoRepository) Remove(ctx context.Context, authorID, userID string) error {
	filter := bson.M{"author_id": authorID, "user_id": userID}
	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to remove subscription from mongo: %w", err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *SubscriptionMongoRepository) Exists(ctx context.Context, authorID, userID string) (bool, error) {
	filter := bson.M{"author_id": authorID, "user_id": userID}
	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check subscription existence in mongo: %w", err)
	}
	return count > 0, nil
}

func (r *SubscriptionMongoRepository) CountByAuthor(ctx context.Context, authorID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"author_id": authorID})
	if err != nil {
		return 0, fmt.Errorf("failed to count subscriptions in mongo: %w", err)
	}
	return count, nil
}

func (r *SubscriptionMongoRepository) AuthorsByUser(ctx context.Context, userID string) ([]string, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []subscriptionDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode subscription list from mongo: %w", err)
	}

	authors := make([]string, len(docs))
	for i := range docs {
		authors[i] = docs[i].AuthorID
	}
	return authors, nil
}

func (r *SubscriptionMongoRepository) SubscribersByAuthor(ctx context.Context, authorID string) ([]*entity.Subscription, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"author_id": authorID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers from mongo: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []subscriptionDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode subscriber list from mongo: %w", err)
	}

	subs := make([]*entity.Subscription, len(docs))
	for i := range docs {
		subs[i] = &entity.Subscription{
			AuthorID:  docs[i].AuthorID,
			UserID:    docs[i].UserID,
			CreatedAt: docs[i].CreatedAt.Time(),
		}
	}
	return subs, nil
}
