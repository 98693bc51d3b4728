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

type HabitsRepo struct {
	MongoCollection *mongo.Collection
}

func NewHabitsRepo(db *mongo.Database) *HabitsRepo {
	return &HabitsRepo{
		MongoCollection: db.Collection("habits"),
	}
}

// Add a new habit into the database
func (r *HabitsRepo) CreateHabit(ctx context.Context, habit *model.Habit) error {
	timer := utils.TrackDBOperation("insert", "habits")
	defer timer.ObserveDuration()

	if habit.UserID == "" {
		utils.TrackError("database", "missing_user_id")
		return errors.New("user ID is required")
	}

	_, err := r.MongoCollection.InsertOne(ctx, habit)
	if err != nil {
		utils.TrackError("database", "habit_creation_failed")
		return err
	}
	return nil
}

// Retrieves a habit scoped to its owner
func (r *HabitsRepo) FindHabitByID(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	var habit model.Habit
	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}

	err := r.MongoCollection.FindOne(ctx, filter).Decode(&habit)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		utils.TrackError("database", "habit_fetch_failed")
		return nil, err
	}
	return &habit, nil
}

// Retrieves all habits for a user
func (r *HabitsRepo) FindHabitsByUserID(ctx context.Context, userID string) ([]*model.Habit, error) {
	timer := utils.TrackDBOperation("find", "habits")
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.MongoCollection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		utils.TrackError("database", "habit_fetch_failed")
		return nil, err
	}
	defer cursor.Close(ctx)

	var habits []*model.Habit
	if err = cursor.All(ctx, &habits); err != nil {
		utils.TrackError("database", "habit_decode_failed")
		return nil, err
	}
	return habits, nil
}

// Persists edits and the last-completed marker
func (r *HabitsRepo) UpdateHabit(ctx context.Context, habit *model.Habit) error {
	timer := utils.TrackDBOperation("update", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habit.HabitID,
		"user_id": habit.UserID,
	}
	update := bson.M{
		"$set": bson.M{
			"title":               habit.Title,
			"description":         habit.Description,
			"rule":                habit.Rule,
			"priority":            habit.Priority,
			"tags":                habit.Tags,
			"target":              habit.Target,
			"start_date":          habit.StartDate,
			"last_completed_date": habit.LastCompletedDate,
			"is_archived":         habit.IsArchived,
			"updated_at":          time.Now(),
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database", "habit_update_failed")
		return err
	}
	if result.MatchedCount == 0 {
		utils.TrackError("database", "habit_not_found")
		return ErrNotFound
	}
	return nil
}

// Soft-archives a habit
func (r *HabitsRepo) ArchiveHabit(ctx context.Context, userID, habitID string) error {
	timer := utils.TrackDBOperation("update", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
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
		utils.TrackError("database", "habit_archive_failed")
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Removes a habit permanently
func (r *HabitsRepo) DeleteHabit(ctx context.Context, userID, habitID string) error {
	timer := utils.TrackDBOperation("delete", "habits")
	defer timer.ObserveDuration()

	filter := bson.M{
		"_id":     habitID,
		"user_id": userID,
	}

	result, err := r.MongoCollection.DeleteOne(ctx, filter)
	if err != nil {
		utils.TrackError("database", "habit_deletion_failed")
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
