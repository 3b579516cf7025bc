package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureOrderIndexes creates the unique orderNumber index (the backstop for
// the in-transaction collision probe) and the tenant listing index.
func EnsureOrderIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("orders").Indexes()

	numberIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "orderNumber", Value: 1}},
		Options: options.Index().
			SetName("orderNumber_unique").
			SetUnique(true),
	}
	listIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "tenantId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("tenant_createdAt"),
	}

	log.Println("EnsureOrderIndexes: creating orderNumber_unique, tenant_createdAt")
	_, err := indexes.CreateMany(ctx, []mongo.IndexModel{numberIndex, listIndex})
	if err != nil {
		log.Println("EnsureOrderIndexes: index error:", err)
		return err
	}
	return nil
}

// EnsureVariantIndexes supports the validator's tenant-scoped reads.
func EnsureVariantIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("variants").Indexes()

	tenantIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "tenantId", Value: 1},
			{Key: "isActive", Value: 1},
		},
		Options: options.Index().SetName("tenant_active"),
	}

	log.Println("EnsureVariantIndexes: creating tenant_active")
	_, err := indexes.CreateOne(ctx, tenantIndex)
	if err != nil {
		log.Println("EnsureVariantIndexes: index error:", err)
		return err
	}
	return nil
}
