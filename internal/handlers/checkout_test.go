package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildNewOrderRejectsEmptyCart(t *testing.T) {
	_, err := buildNewOrder(primitive.NewObjectID(), checkoutRequest{})
	if err == nil {
		t.Fatal("expected error for empty cart")
	}
}

func TestBuildNewOrderRejectsInvalidVariantID(t *testing.T) {
	req := checkoutRequest{
		Items: []checkoutItemRequest{{VariantID: "not-a-hex-id", Quantity: 1}},
	}
	_, err := buildNewOrder(primitive.NewObjectID(), req)
	if err == nil {
		t.Fatal("expected error for invalid variant id")
	}
}

func TestBuildNewOrderRejectsNonPositiveQuantity(t *testing.T) {
	variantID := primitive.NewObjectID().Hex()
	for _, qty := range []int{0, -1} {
		req := checkoutRequest{
			Items: []checkoutItemRequest{{VariantID: variantID, Quantity: qty}},
		}
		if _, err := buildNewOrder(primitive.NewObjectID(), req); err == nil {
			t.Fatalf("expected error for quantity %d", qty)
		}
	}
}

// The client-supplied total never makes it into the order input: totals are
// recomputed from the catalog inside the transaction.
func TestBuildNewOrderIgnoresClientTotal(t *testing.T) {
	tenantID := primitive.NewObjectID()
	variantID := primitive.NewObjectID()
	req := checkoutRequest{
		Items:      []checkoutItemRequest{{VariantID: variantID.Hex(), Quantity: 2}},
		TotalCents: 1, // bogus on purpose
		Message:    "please wrap as a gift",
	}

	in, err := buildNewOrder(tenantID, req)
	if err != nil {
		t.Fatalf("buildNewOrder returned error: %v", err)
	}
	if len(in.Items) != 1 || in.Items[0].VariantID != variantID || in.Items[0].Quantity != 2 {
		t.Fatalf("unexpected items: %+v", in.Items)
	}
	if in.TenantID != tenantID {
		t.Fatalf("expected tenant id %s, got %s", tenantID.Hex(), in.TenantID.Hex())
	}
	if in.Message != "please wrap as a gift" {
		t.Fatalf("expected message to pass through, got %q", in.Message)
	}
}

func TestBuildNewOrderTrimsBuyerFields(t *testing.T) {
	req := checkoutRequest{
		Items: []checkoutItemRequest{{VariantID: primitive.NewObjectID().Hex(), Quantity: 1}},
		Buyer: checkoutBuyerRequest{Name: "  Ayşe  ", Phone: " 05551231234 "},
	}
	in, err := buildNewOrder(primitive.NewObjectID(), req)
	if err != nil {
		t.Fatalf("buildNewOrder returned error: %v", err)
	}
	if in.Buyer.Name != "Ayşe" || in.Buyer.Phone != "05551231234" {
		t.Fatalf("expected trimmed buyer fields, got %+v", in.Buyer)
	}
}

func TestBuildStockRequests(t *testing.T) {
	variantID := primitive.NewObjectID()
	req := stockCheckRequest{
		Items: []stockCheckItemRequest{{VariantID: variantID.Hex(), Name: "Mug / Blue", Quantity: 3}},
	}
	requests, err := buildStockRequests(req)
	if err != nil {
		t.Fatalf("buildStockRequests returned error: %v", err)
	}
	if len(requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(requests))
	}
	if requests[0].VariantID != variantID || requests[0].Name != "Mug / Blue" || requests[0].Quantity != 3 {
		t.Fatalf("unexpected request: %+v", requests[0])
	}

	if _, err := buildStockRequests(stockCheckRequest{}); err == nil {
		t.Fatal("expected error for empty item list")
	}
}
