// internal/repository/mongo/actual_workout_repo.go
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

const ActualWorkoutCollectionName = "actual_workouts"

// mongoActualWorkoutRepository implements repository.ActualWorkoutRepository
type mongoActualWorkoutRepository struct {
	collection *mongo.Collection
}

func NewMongoActualWorkoutRepository(db *mongo.Database) repository.ActualWorkoutRepository {
	return &mongoActualWorkoutRepository{
		collection: db.Collection(ActualWorkoutCollectionName),
	}
}

func (r *mongoActualWorkoutRepository) Create(ctx context.Context, workout *domain.ActualWorkout) (primitive.ObjectID, error) {
	if workout.UserID == "" || workout.Discipline == "" {
		return primitive.NilObjectID, errors.New("workout requires userId and discipline")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	if workout.CompletedAt.IsZero() {
		workout.CompletedAt = now
	}
	workout.CreatedAt = now
	workout.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		return primitive.NilObjectID, err
	}
	return workout.ID, nil
}

func (r *mongoActualWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID, userID string) (*domain.ActualWorkout, error) {
	var workout domain.ActualWorkout
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// List returns the user's completed workouts, most recent first.
func (r *mongoActualWorkoutRepository) List(ctx context.Context, userID string, dr repository.DateRange) ([]domain.ActualWorkout, error) {
	workouts := []domain.ActualWorkout{}
	filter := userTimeRangeFilter(userID, "completedAt", dr)
	findOptions := options.Find().SetSort(bson.D{{Key: "completedAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *mongoActualWorkoutRepository) Update(ctx context.Context, workout *domain.ActualWorkout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for update")
	}

	filter := bson.M{"_id": workout.ID, "userId": workout.UserID}
	workout.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"plannedWorkoutId": workout.PlannedWorkoutID,
			"completedAt":      workout.CompletedAt,
			"discipline":       workout.Discipline,
			"title":            workout.Title,
			"durationMinutes":  workout.DurationMinutes,
			"distanceKm":       workout.DistanceKm,
			"avgHeartRate":     workout.AvgHeartRate,
			"perceivedEffort":  workout.PerceivedEffort,
			"notes":            workout.Notes,
			"updatedAt":        workout.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoActualWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureActualWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureActualWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "completedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
