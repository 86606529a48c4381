package management

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoRepository struct {
	configs *mongo.Collection
	actions *mongo.Collection
}

func NewRepository(db *mongo.Database) Repository {
	return &mongoRepository{
		configs: db.Collection("tenant_configs"),
		actions: db.Collection("action_records"),
	}
}

func (r *mongoRepository) GetTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error) {
	var cfg TenantConfig
	err := r.configs.FindOne(ctx, bson.M{"_id": tenantID}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get tenant config: %w", err)
	}

	return &cfg, nil
}

func (r *mongoRepository) GetOrCreateTenantConfig(ctx context.Context, tenantID string) (*TenantConfig, error) {
	now := time.Now()

	filter := bson.M{"_id": tenantID}
	update := bson.M{
		"$setOnInsert": bson.M{
			"log_channel_id": "",
			"events":         []string{},
			"created_at":     now,
		},
		"$set": bson.M{"updated_at": now},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var cfg TenantConfig
	if err := r.configs.FindOneAndUpdate(ctx, filter, update, opts).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to get or create tenant config: %w", err)
	}

	return &cfg, nil
}

func (r *mongoRepository) SetLogChannel(ctx context.Context, tenantID, channelID string) error {
	now := time.Now()

	filter := bson.M{"_id": tenantID}
	update := bson.M{
		"$set": bson.M{
			"log_channel_id": channelID,
			"updated_at":     now,
		},
		"$setOnInsert": bson.M{
			"events":     []string{},
			"created_at": now,
		},
	}

	_, err := r.configs.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set log channel: %w", err)
	}

	return nil
}

func (r *mongoRepository) AddEnabledEvents(ctx context.Context, tenantID string, events []string) error {
	now := time.Now()

	filter := bson.M{"_id": tenantID}
	update := bson.M{
		"$addToSet": bson.M{"events": bson.M{"$each": events}},
		"$set":      bson.M{"updated_at": now},
		"$setOnInsert": bson.M{
			"log_channel_id": "",
			"created_at":     now,
		},
	}

	_, err := r.configs.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to add enabled events: %w", err)
	}

	return nil
}

func (r *mongoRepository) RemoveEnabledEvents(ctx context.Context, tenantID string, events []string) error {
	filter := bson.M{"_id": tenantID}
	update := bson.M{
		"$pull": bson.M{"events": bson.M{"$in": events}},
		"$set":  bson.M{"updated_at": time.Now()},
	}

	_, err := r.configs.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove enabled events: %w", err)
	}

	return nil
}

func (r *mongoRepository) CreateActionRecord(ctx context.Context, record *ActionRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	_, err := r.actions.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to create action record: %w", err)
	}

	return nil
}

func (r *mongoRepository) GetActionRecords(ctx context.Context, tenantID, eventName string) ([]ActionRecord, error) {
	filter := bson.M{"tenant_id": tenantID, "event": eventName}

	cursor, err := r.actions.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get action records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []ActionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode action records: %w", err)
	}

	return records, nil
}

func (r *mongoRepository) ListActionRecords(ctx context.Context, tenantID string) ([]ActionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.actions.Find(ctx, bson.M{"tenant_id": tenantID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list action records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []ActionRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode action records: %w", err)
	}

	return records, nil
}

func (r *mongoRepository) DeleteActionRecord(ctx context.Context, tenantID, id string) error {
	filter := bson.M{"_id": id, "tenant_id": tenantID}

	result, err := r.actions.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete action record: %w", err)
	}

	if result.DeletedCount == 0 {
		return fmt.Errorf("action record not found")
	}

	return nil
}
