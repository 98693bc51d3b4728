package repository

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	todosIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_todos_date").
				SetUnique(false),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_index"),
		},
	}

	recurringIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "is_archived", Value: 1},
			},
			Options: options.Index().
				SetName("user_active_entities"),
		},
	}

	// The unique partial index is what makes "at most one active period
	// per entity" a storage-level guarantee instead of call discipline.
	periodIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "entity_id", Value: 1}},
			Options: options.Index().
				SetName("single_active_period").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "is_active", Value: true}}),
		},
		{
			Keys: bson.D{
				{Key: "entity_id", Value: 1},
				{Key: "start_date", Value: -1},
			},
			Options: options.Index().
				SetName("entity_period_history"),
		},
	}

	logIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "entity_id", Value: 1},
				{Key: "completed_at", Value: -1},
			},
			Options: options.Index().
				SetName("entity_log_history"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "completed_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_log_history"),
		},
	}

	if _, err := db.Collection("todos").Indexes().CreateMany(ctx, todosIndexes); err != nil {
		return fmt.Errorf("failed to create todos indexes: %w", err)
	}

	for _, collection := range []string{"dailies", "habits"} {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, recurringIndexes); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}

	for _, collection := range []string{"daily_periods", "habit_periods"} {
		if _, err := db.Collection(collection).Indexes().CreateMany(ctx, periodIndexes); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", collection, err)
		}
	}

	if _, err := db.Collection("completion_logs").Indexes().CreateMany(ctx, logIndexes); err != nil {
		return fmt.Errorf("failed to create completion_logs indexes: %w", err)
	}

	log.Println("Successfully created all indexes")
	return nil
}
