package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is the purchase-time snapshot of one sellable unit. The
// denormalized fields (name, options, price) are a receipt: they stay
// readable even after the variant is edited or deleted, and are never
// rewritten after creation.
type OrderItem struct {
	VariantID      primitive.ObjectID `bson:"variantId" json:"variantId"`
	ProductID      primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName    string             `bson:"productName" json:"productName"`
	Options        []VariantOption    `bson:"options,omitempty" json:"options,omitempty"`
	UnitPriceCents int64              `bson:"unitPriceCents" json:"unitPriceCents"`
	Quantity       int                `bson:"quantity" json:"quantity"`
}

// OrderBuyer captures the unauthenticated buyer's contact details. All
// fields are optional.
type OrderBuyer struct {
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
	Note  string `bson:"note,omitempty" json:"note,omitempty"`
}

// OrderAddress is the optional delivery address.
type OrderAddress struct {
	Line string `bson:"line,omitempty" json:"line,omitempty"`
	City string `bson:"city,omitempty" json:"city,omitempty"`
}

// Order is the persisted order document. Items are embedded and written once
// with the order; TotalCents and ItemCount are derived from the items at
// creation and never independently mutated. Status is the only field updated
// after creation, and orders are never deleted in normal flow.
type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderNumber string             `bson:"orderNumber" json:"orderNumber"`
	TenantID    primitive.ObjectID `bson:"tenantId" json:"tenantId"`
	Buyer       OrderBuyer         `bson:"buyer" json:"buyer"`
	Address     OrderAddress       `bson:"address,omitempty" json:"address"`
	Items       []OrderItem        `bson:"items" json:"items"`
	TotalCents  int64              `bson:"totalCents" json:"totalCents"`
	ItemCount   int                `bson:"itemCount" json:"itemCount"`
	Message     string             `bson:"message,omitempty" json:"message,omitempty"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
