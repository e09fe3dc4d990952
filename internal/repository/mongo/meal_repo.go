// internal/repository/mongo/meal_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/tritrack/internal/domain"
	"alcyxob/tritrack/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const MealCollectionName = "meals"

type mongoMealRepository struct {
	collection *mongo.Collection
}

func NewMongoMealRepository(db *mongo.Database) repository.MealRepository {
	return &mongoMealRepository{
		collection: db.Collection(MealCollectionName),
	}
}

func (r *mongoMealRepository) Create(ctx context.Context, meal *domain.Meal) (primitive.ObjectID, error) {
	if meal.UserID == "" || meal.Description == "" {
		return primitive.NilObjectID, errors.New("meal requires userId and description")
	}
	meal.ID = primitive.NewObjectID()
	meal.CreatedAt = time.Now().UTC()
	if meal.LoggedAt.IsZero() {
		meal.LoggedAt = meal.CreatedAt
	}

	if _, err := r.collection.InsertOne(ctx, meal); err != nil {
		return primitive.NilObjectID, err
	}
	return meal.ID, nil
}

// List returns the user's meals, most recent first.
func (r *mongoMealRepository) List(ctx context.Context, userID string, dr repository.DateRange) ([]domain.Meal, error) {
	meals := []domain.Meal{}
	filter := userTimeRangeFilter(userID, "loggedAt", dr)
	findOptions := options.Find().SetSort(bson.D{{Key: "loggedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &meals); err != nil {
		return nil, err
	}
	return meals, nil
}

func (r *mongoMealRepository) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func EnsureMealIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "loggedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
