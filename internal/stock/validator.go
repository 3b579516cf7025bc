package stock

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chatstore/internal/models"
)

// Request is one cart line to check: the variant, the display name the buyer
// saw, and the quantity they want.
type Request struct {
	VariantID primitive.ObjectID
	Name      string
	Quantity  int
}

// Shortfall names one item that cannot be fulfilled at current stock.
type Shortfall struct {
	VariantID primitive.ObjectID `json:"variantId"`
	Name      string             `json:"name"`
	Requested int                `json:"requested"`
	Available int                `json:"available"`
}

type Result struct {
	Valid      bool        `json:"valid"`
	Shortfalls []Shortfall `json:"shortfalls,omitempty"`
}

type Validator struct {
	DB *mongo.Database
}

// Check is an advisory read: stock can still change between this check and
// the transactional decrement, so a clean verdict does not guarantee the
// checkout succeeds. It never mutates stock. A variant that is missing,
// inactive or soft-deleted counts as zero available.
func (v *Validator) Check(ctx context.Context, tenantID primitive.ObjectID, requests []Request) (Result, error) {
	result := Result{Valid: true}
	for _, req := range requests {
		var variant models.Variant
		err := v.DB.Collection("variants").FindOne(ctx, bson.M{
			"_id":       req.VariantID,
			"tenantId":  tenantID,
			"isActive":  true,
			"isDeleted": bson.M{"$ne": true},
		}).Decode(&variant)

		available := 0
		switch {
		case err == nil:
			available = variant.Stock
		case errors.Is(err, mongo.ErrNoDocuments):
			// gone or inactive: zero stock
		default:
			return Result{}, err
		}

		if short := Evaluate(req, available); short != nil {
			result.Valid = false
			result.Shortfalls = append(result.Shortfalls, *short)
		}
	}
	return result, nil
}

// Evaluate compares one request against an availability figure and returns a
// shortfall record when the request cannot be met.
func Evaluate(req Request, available int) *Shortfall {
	if available >= req.Quantity {
		return nil
	}
	return &Shortfall{
		VariantID: req.VariantID,
		Name:      req.Name,
		Requested: req.Quantity,
		Available: available,
	}
}
