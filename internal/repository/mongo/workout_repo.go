package mongo

import (
	"alcyxob/fitness-tracker/internal/domain"
	"alcyxob/fitness-tracker/internal/repository"
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.UserID == primitive.NilObjectID || workout.Date == "" {
		return primitive.NilObjectID, errors.New("workout requires userId and date")
	}
	workout.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByUserID retrieves all workouts of a user, ordered by day.
func (r *mongoWorkoutRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) ([]domain.Workout, error) {
	filter := bson.M{"userId": userID}
	// _id breaks ties between duplicate day numbers
	findOptions := options.Find().SetSort(bson.D{{Key: "day", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	workouts := []domain.Workout{}
	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// Update applies a partial update to a workout owned by userID.
func (r *mongoWorkoutRepository) Update(ctx context.Context, id, userID primitive.ObjectID, patch domain.WorkoutPatch) error {
	if id == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("workout ID and user ID are required for update")
	}

	filter := bson.M{"_id": id, "userId": userID}
	result, err := r.collection.UpdateOne(ctx, filter, buildUpdateDoc(patch, time.Now().UTC()))
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout owned by userID.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id, userID primitive.ObjectID) error {
	if id == primitive.NilObjectID || userID == primitive.NilObjectID {
		return errors.New("workout ID and user ID are required for deletion")
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		// Workout not found OR not owned by this user.
		return repository.ErrNotFound
	}
	return nil
}

func buildUpdateDoc(patch domain.WorkoutPatch, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	unset := bson.M{}

	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	if patch.ClearNotes {
		unset["notes"] = ""
	} else if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if patch.ClearScheduledTime {
		unset["scheduledTime"] = ""
	} else if patch.ScheduledTime != nil {
		set["scheduledTime"] = *patch.ScheduledTime
	}

	doc := bson.M{"$set": set}
	if len(unset) > 0 {
		doc["$unset"] = unset
	}
	return doc
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Listing a user's workouts in day order
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		log.Warnf("failed to create indexes for collection %s: %s", collection.Name(), err)
	}
}
