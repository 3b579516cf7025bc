package orders

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chatstore/internal/stock"
)

// ErrNotFound covers both a missing order and an order owned by another
// tenant, so a caller cannot probe for foreign order ids.
var ErrNotFound = errors.New("order not found")

// InsufficientStockError aborts a checkout transaction. Shortfalls lists
// every short item found in the failing pass, not only the first.
type InsufficientStockError struct {
	Shortfalls []stock.Shortfall
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %d item(s)", len(e.Shortfalls))
}

// VariantNotFoundError is returned when a cart references a variant that does
// not exist (or is inactive) for the tenant.
type VariantNotFoundError struct {
	VariantID primitive.ObjectID
}

func (e VariantNotFoundError) Error() string {
	return "variant not found: " + e.VariantID.Hex()
}
