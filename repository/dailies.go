package repository

import (
	"context"
	"errors"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type DailiesRepo struct {
	MongoCollection *mongo.Collection
}

func NewDailiesRepo(db *mongo.Database) *DailiesRepo {
	return &DailiesRepo{
		MongoCollection: db.Collection("dailies"),
	}
}

// Add a new daily task into the database
func (r *DailiesRepo) CreateDaily(ctx context.Context, daily *model.Daily) error {
	timer := utils.TrackDBOperation("insert", "dailies")
	defer timer.ObserveDuration()

	if daily.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, daily)
	if err != nil {
		utils.TrackError("database", "daily_creation_failed")
		return err
	}
	return nil
}

// Retrieves a daily scoped to its owner
func (r *DailiesRepo) FindDailyByID(ctx context.Context, userID, dailyID string) (*model.Daily, error) {
	timer := utils.TrackDBOperation("find", "dailies")
	defer timer.ObserveDuration()

	var daily model.Daily
	filter := bson.M{
		"_id":     dailyID,
		"user_id": userID,
	}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&daily)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "daily_fetch_failed")
		return nil, err
	}
	return &daily, nil
}

// Retrieves all dailies for a user
func (r *DailiesRepo) FindDailiesByUserID(ctx context.Context, userID string) ([]*model.Daily, error) {
	timer := utils.TrackDBOperation("find", "dailies")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "daily_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var dailies []*model.Daily
	if err = cursor.All(ctx, &dailies); err != nil {
		utils.TrackError("database", "daily_decode_failed")
		return nil, err
	}
	return dailies, nil
}

// Persists edits and the last-completed marker
func (r *DailiesRepo) UpdateDaily(ctx context.Context, daily *model.Daily) error {
	timer := utils.TrackDBOperation("update", "dailies")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     daily.DailyID,
		"user_id": daily.UserID,
	}
	update := bson.M{
		"$set": bson.M{
			"title":               daily.Title,
			"description":         daily.Description,
			"rule":                daily.Rule,
			"priority":            daily.Priority,
			"tags":                daily.Tags,
			"start_date":          daily.StartDate,
			"last_completed_date": daily.LastCompletedDate,
			"is_archived":         daily.IsArchived,
			"updated_at":          time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "daily_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "daily_not_found")
		return ErrNotFound
	}
	return nil
}

// Soft-archives a daily instead of deleting it
func (r *DailiesRepo) ArchiveDaily(ctx context.Context, userID, dailyID string) error {
	timer := utils.TrackDBOperation("update", "dailies")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     dailyID,
		"user_id": userID,
	}
	update := bson.M{
		"$set": bson.M{
			"is_archived": true,
			"updated_at":  time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "daily_archive_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Removes a daily permanently
func (r *DailiesRepo) DeleteDaily(ctx context.Context, userID, dailyID string) error {
	timer := utils.TrackDBOperation("delete", "dailies")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     dailyID,
		"user_id": userID,
	}

	result, err := r.MongoCollection.DeleteOne(ctx, filter)
	if err != nil {
		utils.TrackError("database", "daily_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
