// internal/repository/mongo/coaching_session_repo.go
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

const CoachingSessionCollectionName = "coaching_sessions"

type mongoCoachingSessionRepository struct {
	collection *mongo.Collection
}

func NewMongoCoachingSessionRepository(db *mongo.Database) repository.CoachingSessionRepository {
	return &mongoCoachingSessionRepository{
		collection: db.Collection(CoachingSessionCollectionName),
	}
}

func (r *mongoCoachingSessionRepository) GetOrCreate(ctx context.Context, userID string) (*domain.CoachingSession, error) {
	if userID == "" {
		return nil, errors.New("coaching session requires a user id")
	}

	var session domain.CoachingSession
	findOptions := options.FindOne().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, findOptions).Decode(&session)
	if err == nil {
		return &session, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now().UTC()
	session = domain.CoachingSession{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Messages:  []domain.ChatMessage{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		return nil, err
	}
	return &session, nil
}

// AddMessages appends messages atomically with $push and returns the updated session.
func (r *mongoCoachingSessionRepository) AddMessages(ctx context.Context, sessionID primitive.ObjectID, messages ...domain.ChatMessage) (*domain.CoachingSession, error) {
	update := bson.M{
		"$push": bson.M{"messages": bson.M{"$each": messages}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findAndUpdate(ctx, sessionID, update)
}

func (r *mongoCoachingSessionRepository) ClearMessages(ctx context.Context, sessionID primitive.ObjectID) (*domain.CoachingSession, error) {
	update := bson.M{
		"$set": bson.M{"messages": []domain.ChatMessage{}, "updatedAt": time.Now().UTC()},
	}
	return r.findAndUpdate(ctx, sessionID, update)
}

func (r *mongoCoachingSessionRepository) findAndUpdate(ctx context.Context, sessionID primitive.ObjectID, update bson.M) (*domain.CoachingSession, error) {
	var session domain.CoachingSession
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": sessionID}, update, opts).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func EnsureCoachingSessionIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "updatedAt", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
