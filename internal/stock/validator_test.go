package stock

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEvaluateSufficientStock(t *testing.T) {
	req := Request{VariantID: primitive.NewObjectID(), Name: "Tote Bag / Black", Quantity: 2}
	if short := Evaluate(req, 2); short != nil {
		t.Fatalf("expected no shortfall when available == requested, got %+v", short)
	}
	if short := Evaluate(req, 10); short != nil {
		t.Fatalf("expected no shortfall when available > requested, got %+v", short)
	}
}

func TestEvaluateInsufficientStock(t *testing.T) {
	id := primitive.NewObjectID()
	req := Request{VariantID: id, Name: "Tote Bag / Black", Quantity: 5}

	short := Evaluate(req, 3)
	if short == nil {
		t.Fatal("expected a shortfall when available < requested")
	}
	if short.VariantID != id {
		t.Fatalf("shortfall variant id mismatch: %s", short.VariantID.Hex())
	}
	if short.Name != "Tote Bag / Black" {
		t.Fatalf("shortfall should carry the display name, got %q", short.Name)
	}
	if short.Requested != 5 || short.Available != 3 {
		t.Fatalf("expected requested=5 available=3, got %+v", short)
	}
}

// Missing or inactive variants are reported as zero available, not as a
// separate error, so the UI can show them alongside ordinary shortfalls.
func TestEvaluateMissingVariantCountsAsZero(t *testing.T) {
	req := Request{VariantID: primitive.NewObjectID(), Name: "Discontinued", Quantity: 1}
	short := Evaluate(req, 0)
	if short == nil {
		t.Fatal("expected a shortfall for a zero-stock item")
	}
	if short.Available != 0 {
		t.Fatalf("expected available=0, got %d", short.Available)
	}
}
