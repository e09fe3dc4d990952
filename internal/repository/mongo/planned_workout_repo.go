// internal/repository/mongo/planned_workout_repo.go
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

const PlannedWorkoutCollectionName = "planned_workouts"

// mongoPlannedWorkoutRepository implements repository.PlannedWorkoutRepository
type mongoPlannedWorkoutRepository struct {
	collection *mongo.Collection
}

func NewMongoPlannedWorkoutRepository(db *mongo.Database) repository.PlannedWorkoutRepository {
	return &mongoPlannedWorkoutRepository{
		collection: db.Collection(PlannedWorkoutCollectionName),
	}
}

func (r *mongoPlannedWorkoutRepository) Create(ctx context.Context, workout *domain.PlannedWorkout) (primitive.ObjectID, error) {
	if workout.UserID == "" || workout.ScheduledDate == "" || workout.Discipline == "" {
		return primitive.NilObjectID, errors.New("planned workout requires userId, scheduledDate and discipline")
	}
	workout.ID = primitive.NewObjectID()
	workout.CreatedAt = time.Now().UTC()

	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		return primitive.NilObjectID, err
	}
	return workout.ID, nil
}

// CreateMany inserts all workouts in one ordered batch. The ids are assigned in place.
func (r *mongoPlannedWorkoutRepository) CreateMany(ctx context.Context, workouts []domain.PlannedWorkout) ([]primitive.ObjectID, error) {
	if len(workouts) == 0 {
		return []primitive.ObjectID{}, nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, len(workouts))
	ids := make([]primitive.ObjectID, len(workouts))
	for i := range workouts {
		if workouts[i].UserID == "" {
			return nil, errors.New("planned workout requires userId")
		}
		workouts[i].ID = primitive.NewObjectID()
		workouts[i].CreatedAt = now
		docs[i] = workouts[i]
		ids[i] = workouts[i].ID
	}

	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	return ids, nil
}

// List returns the user's planned workouts ordered by scheduled date.
func (r *mongoPlannedWorkoutRepository) List(ctx context.Context, userID string, dr repository.DateRange) ([]domain.PlannedWorkout, error) {
	filter := userDateRangeFilter(userID, "scheduledDate", dr)
	return r.find(ctx, filter)
}

func (r *mongoPlannedWorkoutRepository) ListByPlan(ctx context.Context, planID primitive.ObjectID, userID string) ([]domain.PlannedWorkout, error) {
	return r.find(ctx, bson.M{"planId": planID, "userId": userID})
}

func (r *mongoPlannedWorkoutRepository) find(ctx context.Context, filter bson.M) ([]domain.PlannedWorkout, error) {
	workouts := []domain.PlannedWorkout{}
	// _id breaks ties so batch-inserted workouts keep their merge order
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}, {Key: "_id", Value: 1}})

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

func (r *mongoPlannedWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID, userID string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByPlan removes every planned workout of a plan and reports how many were removed.
func (r *mongoPlannedWorkoutRepository) DeleteByPlan(ctx context.Context, planID primitive.ObjectID, userID string) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"planId": planID, "userId": userID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsurePlannedWorkoutIndexes creates necessary indexes. Call during startup.
func EnsurePlannedWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "scheduledDate", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "planId", Value: 1}},
			Options: options.Index().SetSparse(true), // manual workouts carry no plan
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
