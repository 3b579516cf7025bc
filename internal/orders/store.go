package orders

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chatstore/internal/models"
	"chatstore/internal/ordernum"
	"chatstore/internal/stock"
)

// NewItem is one validated cart line entering the transaction.
type NewItem struct {
	VariantID primitive.ObjectID
	Quantity  int
}

// NewOrder carries everything the engine needs to create an order. Totals
// are computed here from the catalog; a client-supplied total is never used.
type NewOrder struct {
	TenantID primitive.ObjectID
	Buyer    models.OrderBuyer
	Address  models.OrderAddress
	Message  string
	Items    []NewItem
}

// Store is the order engine and query layer. All stock mutation in the
// system goes through Create's conditional decrement.
type Store struct {
	DB     *mongo.Database
	Prefix string
	Now    func() time.Time // nil means time.Now
}

func (s *Store) clock() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Create runs the whole checkout as one transaction: the catalog snapshot
// reads, the stock decrements and the order insert either all commit or none
// do. The decrement filter requires stock >= quantity, so two checkouts
// racing for the last unit cannot both commit; the loser gets
// InsufficientStockError and its transaction rolls back with no effect.
func (s *Store) Create(ctx context.Context, in NewOrder) (*models.Order, error) {
	session, err := s.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(ctx)

	createdAt := s.clock()

	var order models.Order
	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
		variants := s.DB.Collection("variants")

		items := make([]models.OrderItem, 0, len(in.Items))
		var shortfalls []stock.Shortfall
		for _, line := range in.Items {
			var variant models.Variant
			err := variants.FindOne(sessCtx, bson.M{
				"_id":       line.VariantID,
				"tenantId":  in.TenantID,
				"isActive":  true,
				"isDeleted": bson.M{"$ne": true},
			}).Decode(&variant)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, VariantNotFoundError{VariantID: line.VariantID}
			}
			if err != nil {
				return nil, err
			}

			res, err := variants.UpdateOne(sessCtx,
				decrementFilter(line.VariantID, in.TenantID, line.Quantity),
				decrementUpdate(line.Quantity),
			)
			if err != nil {
				return nil, err
			}
			if res.MatchedCount == 0 {
				shortfalls = append(shortfalls, stock.Shortfall{
					VariantID: line.VariantID,
					Name:      variant.ProductName,
					Requested: line.Quantity,
					Available: variant.Stock,
				})
				// keep scanning so the error names every short item;
				// the transaction is aborted below either way
				continue
			}

			items = append(items, models.OrderItem{
				VariantID:      variant.ID,
				ProductID:      variant.ProductID,
				ProductName:    variant.ProductName,
				Options:        variant.Options,
				UnitPriceCents: variant.PriceCents,
				Quantity:       line.Quantity,
			})
		}
		if len(shortfalls) > 0 {
			return nil, InsufficientStockError{Shortfalls: shortfalls}
		}

		total, count := Totals(items)

		alloc := &ordernum.Allocator{
			Prefix: s.Prefix,
			Now:    func() time.Time { return createdAt },
			Exists: func(ctx context.Context, number string) (bool, error) {
				err := s.DB.Collection("orders").FindOne(ctx, bson.M{"orderNumber": number}).Err()
				if errors.Is(err, mongo.ErrNoDocuments) {
					return false, nil
				}
				if err != nil {
					return true, err
				}
				return true, nil
			},
		}
		number, err := alloc.Allocate(sessCtx)
		if err != nil {
			return nil, err
		}

		order = models.Order{
			OrderNumber: number,
			TenantID:    in.TenantID,
			Buyer:       in.Buyer,
			Address:     in.Address,
			Items:       items,
			TotalCents:  total,
			ItemCount:   count,
			Message:     strings.TrimSpace(in.Message),
			Status:      string(StatusPending),
			CreatedAt:   createdAt,
			UpdatedAt:   createdAt,
		}
		res, err := s.DB.Collection("orders").InsertOne(sessCtx, order)
		if err != nil {
			return nil, err
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves a tenant's order to target if the lifecycle allows it,
// returning the updated order and the status it moved from. A
// single-document update; it mutates no other entity, so no transaction.
func (s *Store) UpdateStatus(ctx context.Context, tenantID, orderID primitive.ObjectID, target Status) (*models.Order, Status, error) {
	var order models.Order
	err := s.DB.Collection("orders").FindOne(ctx, bson.M{
		"_id":      orderID,
		"tenantId": tenantID,
	}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", ErrNotFound
	}
	if err != nil {
		return nil, "", err
	}

	current := Status(order.Status)
	if !CanTransition(current, target) {
		return nil, "", IllegalTransitionError{From: current, To: target}
	}

	now := s.clock()
	_, err = s.DB.Collection("orders").UpdateOne(ctx,
		bson.M{"_id": orderID, "tenantId": tenantID},
		bson.M{"$set": bson.M{"status": string(target), "updatedAt": now}},
	)
	if err != nil {
		return nil, "", err
	}

	order.Status = string(target)
	order.UpdatedAt = now
	return &order, current, nil
}

// ListFilter narrows a tenant's order listing.
type ListFilter struct {
	Status Status
	Cursor primitive.ObjectID // zero means first page
	Limit  int64
}

const defaultListLimit = 20

// List returns a tenant's orders newest-first. The returned cursor is the id
// of the last order on the page; pass it back for the next page. A zero
// cursor return means the listing is exhausted.
func (s *Store) List(ctx context.Context, tenantID primitive.ObjectID, f ListFilter) ([]models.Order, primitive.ObjectID, error) {
	filter := bson.M{"tenantId": tenantID}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if !f.Cursor.IsZero() {
		filter["_id"] = bson.M{"$lt": f.Cursor}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.DB.Collection("orders").Find(ctx, filter, opts)
	if err != nil {
		return nil, primitive.NilObjectID, err
	}
	defer cursor.Close(ctx)

	var out []models.Order
	if err := cursor.All(ctx, &out); err != nil {
		return nil, primitive.NilObjectID, err
	}

	next := primitive.NilObjectID
	if int64(len(out)) == limit {
		next = out[len(out)-1].ID
	}
	return out, next, nil
}

// GetByID is tenant-scoped; a foreign order id reads the same as a missing
// one.
func (s *Store) GetByID(ctx context.Context, tenantID, orderID primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.DB.Collection("orders").FindOne(ctx, bson.M{
		"_id":      orderID,
		"tenantId": tenantID,
	}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByNumber is the public tracking read: no tenant scope, and the buyer
// phone is masked before the order leaves the store.
func (s *Store) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	var order models.Order
	err := s.DB.Collection("orders").FindOne(ctx, bson.M{"orderNumber": number}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	order.Buyer.Phone = MaskPhone(order.Buyer.Phone)
	return &order, nil
}

// Totals sums the line items server-side.
func Totals(items []models.OrderItem) (totalCents int64, itemCount int) {
	for _, it := range items {
		totalCents += it.UnitPriceCents * int64(it.Quantity)
		itemCount += it.Quantity
	}
	return totalCents, itemCount
}

// decrementFilter only matches while enough stock remains. This floor is
// what keeps concurrent checkouts from driving stock below zero: when two
// orders race for the last unit, at most one update matches.
func decrementFilter(variantID, tenantID primitive.ObjectID, qty int) bson.M {
	return bson.M{
		"_id":       variantID,
		"tenantId":  tenantID,
		"isActive":  true,
		"isDeleted": bson.M{"$ne": true},
		"stock":     bson.M{"$gte": qty},
	}
}

func decrementUpdate(qty int) bson.M {
	return bson.M{"$inc": bson.M{"stock": -qty}}
}

// MaskPhone keeps only the last four digits: "05551234" becomes "***1234".
// Values of four characters or fewer are fully masked.
func MaskPhone(phone string) string {
	if phone == "" {
		return ""
	}
	if len(phone) <= 4 {
		return "***"
	}
	return "***" + phone[len(phone)-4:]
}
