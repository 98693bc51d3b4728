package repository

import (
	"context"
	"time"

	"main/model"
	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PeriodsRepo is the mongo-backed PeriodStore. One instance is wired per
// recurring-entity type (daily_periods, habit_periods).
type PeriodsRepo struct {
	MongoCollection *mongo.Collection
	collectionName  string
}

func NewPeriodsRepo(db *mongo.Database, collection string) *PeriodsRepo {
	return &PeriodsRepo{
		MongoCollection: db.Collection(collection),
		collectionName:  collection,
	}
}

// Finds the single active period for an entity
func (r *PeriodsRepo) FindActiveByEntityID(ctx context.Context, entityID string) (*model.Period, error) {
	timer := utils.TrackDBOperation("find", r.collectionName)
	defer timer.ObserveDuration()

	var period model.Period
	filter := bson.M{
		"entity_id": entityID,
		"is_active": true,
	}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&period)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "period_fetch_failed")
		return nil, err
	}
	return &period, nil
}

// Full period history for an entity, newest first
func (r *PeriodsRepo) FindByEntityID(ctx context.Context, entityID string) ([]*model.Period, error) {
	timer := utils.TrackDBOperation("find", r.collectionName)
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "start_date", Value: -1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"entity_id": entityID}, opts)
	if err != nil {
		utils.TrackError("database", "period_history_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var periods []*model.Period
	if err = cursor.All(ctx, &periods); err != nil {
		utils.TrackError("database", "period_decode_failed")
		return nil, err
	}
	return periods, nil
}

// Inserts a new period; the unique partial index on (entity_id, is_active)
// rejects a second active period for the same entity
func (r *PeriodsRepo) Create(ctx context.Context, period *model.Period) error {
	timer := utils.TrackDBOperation("insert", r.collectionName)
	defer timer.ObserveDuration()

	now := time.Now()
	if period.CreatedAt.IsZero() {
		period.CreatedAt = now
	}
	period.UpdatedAt = now

	_, err := r.MongoCollection.InsertOne(ctx, period)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.TrackError("database", "duplicate_active_period")
			return ErrConflict
		}
		utils.TrackError("database", "period_creation_failed")
		return err
	}
	return nil
}

// Closes the active period. The is_active filter doubles as the optimistic
// concurrency check: a competing finalize sees zero matches.
func (r *PeriodsRepo) Finalize(ctx context.Context, periodID string, endDate time.Time) (*model.Period, error) {
	timer := utils.TrackDBOperation("update", r.collectionName)
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":       periodID,
		"is_active": true,
	}
	update := bson.M{
		"$set": bson.M{
			"is_completed": true,
			"is_active":    false,
			"end_date":     endDate,
			"updated_at":   time.Now(),
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var period model.Period
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&period)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.TrackError("database", "period_finalize_conflict")
			return nil, ErrConflict
		}
		utils.TrackError("database", "period_finalize_failed")
		return nil, err
	}
	return &period, nil
}

// Bumps the running count on an active habit period
func (r *PeriodsRepo) IncrementCount(ctx context.Context, periodID string, by int) (*model.Period, error) {
	timer := utils.TrackDBOperation("update", r.collectionName)
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":       periodID,
		"is_active": true,
	}
	update := bson.M{
		"$inc": bson.M{"count": by},
		"$set": bson.M{"updated_at": time.Now()},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var period model.Period
	err := r.MongoCollection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&period)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrConflict
		}
		utils.TrackError("database", "period_count_update_failed")
		return nil, err
	}
	return &period, nil
}
