package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VariantOption is one selected configuration axis, e.g. {Label: "Size", Value: "M"}.
type VariantOption struct {
	Label string `bson:"label" json:"label"`
	Value string `bson:"value" json:"value"`
}

// Variant is the smallest sellable unit: one product configuration carrying
// its own price and stock pool. Stock is only ever decremented through the
// order store's conditional update.
type Variant struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TenantID    primitive.ObjectID `bson:"tenantId" json:"tenantId"`
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName string             `bson:"productName" json:"productName"`
	Options     []VariantOption    `bson:"options,omitempty" json:"options,omitempty"`
	PriceCents  int64              `bson:"priceCents" json:"priceCents"`
	Stock       int                `bson:"stock" json:"stock"`
	IsActive    bool               `bson:"isActive" json:"isActive"`
	IsDeleted   bool               `bson:"isDeleted" json:"isDeleted,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
