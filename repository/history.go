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

// HistoryRepo is the mongo-backed CompletionLogStore. Entries are written
// once per period close and never updated.
type HistoryRepo struct {
	MongoCollection *mongo.Collection
}

func NewHistoryRepo(db *mongo.Database) *HistoryRepo {
	return &HistoryRepo{
		MongoCollection: db.Collection("completion_logs"),
	}
}

// Appends one outcome record for a closed period
func (r *HistoryRepo) Create(ctx context.Context, entry *model.CompletionLog) error {
	timer := utils.TrackDBOperation("insert", "completion_logs")
	defer timer.ObserveDuration()

	if entry.EntityID == "" || entry.PeriodID == "" {
		utils.TrackError("database", "invalid_log_entry")
		return errors.New("completion log requires entity and period ids")
	}

	_, err := r.MongoCollection.InsertOne(ctx, entry)
	if err != nil {
		utils.TrackError("database", "log_creation_failed")
		return err
	}
	return nil
}

// All outcomes for an entity, newest first
func (r *HistoryRepo) FindByEntityID(ctx context.Context, entityID string) ([]*model.CompletionLog, error) {
	timer := utils.TrackDBOperation("find", "completion_logs")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"entity_id": entityID}, opts)
	if err != nil {
		utils.TrackError("database", "log_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.CompletionLog
	if err = cursor.All(ctx, &entries); err != nil {
		utils.TrackError("database", "log_decode_failed")
		return nil, err
	}
	return entries, nil
}

// All outcomes for a user across entities, newest first
func (r *HistoryRepo) FindByUserID(ctx context.Context, userID string) ([]*model.CompletionLog, error) {
	timer := utils.TrackDBOperation("find", "completion_logs")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "log_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.CompletionLog
	if err = cursor.All(ctx, &entries); err != nil {
		utils.TrackError("database", "log_decode_failed")
		return nil, err
	}
	return entries, nil
}

// Timestamp of the most recent outcome for an entity; ErrNotFound when the
// entity has no history yet
func (r *HistoryRepo) LastLogDate(ctx context.Context, entityID string) (time.Time, error) {
	timer := utils.TrackDBOperation("find", "completion_logs")
	defer timer.ObserveDuration()

	opts := options.FindOne().SetSort(bson.D{{Key: "completed_at", Value: -1}})
	var entry model.CompletionLog
	err := r.MongoCollection.FindOne(ctx, bson.M{"entity_id": entityID}, opts).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return time.Time{}, ErrNotFound
		}
		utils.TrackError("database", "last_log_fetch_failed")
		return time.Time{}, err
	}
	return entry.CompletedAt, nil
}
