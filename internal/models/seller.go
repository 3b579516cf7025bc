package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Seller is a tenant account. Credentials and token issuance are handled by
// the auth service; this backend only verifies the seller JWT.
type Seller struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ShopName  string             `bson:"shopName" json:"shopName"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	IsActive  bool               `bson:"isActive" json:"isActive"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
