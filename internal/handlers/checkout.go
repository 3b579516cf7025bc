package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chatstore/internal/events"
	"chatstore/internal/models"
	"chatstore/internal/ordernum"
	"chatstore/internal/orders"
)

/* =========================
   REQUEST DTOs
========================= */

type checkoutItemRequest struct {
	VariantID string `json:"variantId" binding:"required"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type checkoutBuyerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Note  string `json:"note"`
}

type checkoutAddressRequest struct {
	Line string `json:"line"`
	City string `json:"city"`
}

type checkoutRequest struct {
	Items   []checkoutItemRequest  `json:"items" binding:"required"`
	Buyer   checkoutBuyerRequest   `json:"buyer"`
	Address checkoutAddressRequest `json:"address"`
	Message string                 `json:"message"`
	// TotalCents is accepted from older clients and ignored; the server
	// recomputes the total from the catalog inside the transaction.
	TotalCents int64 `json:"totalCents"`
}

/* =========================
   CHECKOUT
========================= */

// Checkout is the public buyer-facing order creation endpoint. The order
// insert and stock decrements commit as one transaction inside the store;
// the event handoff happens strictly after that commit.
func Checkout(db *mongo.Database, store *orders.Store, publisher *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/shops/:shopId/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		tenantID, err := primitive.ObjectIDFromHex(c.Param("shopId"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid shop id")
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		in, err := buildNewOrder(tenantID, req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		order, err := store.Create(ctx, in)
		if err != nil {
			var stockErr orders.InsufficientStockError
			if errors.As(err, &stockErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":      "insufficient stock",
					"shortfalls": stockErr.Shortfalls,
				})
				return
			}
			var missingErr orders.VariantNotFoundError
			if errors.As(err, &missingErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "variant not found",
					"variantId": missingErr.VariantID.Hex(),
				})
				return
			}
			if errors.Is(err, ordernum.ErrExhausted) {
				respondWithError(c, http.StatusServiceUnavailable, route, "could not allocate order number, please retry checkout")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		publishOrderCreated(publisher, order)

		log.Printf("[%s] order %s created for shop %s", route, order.OrderNumber, tenantID.Hex())
		c.JSON(http.StatusCreated, order)
	}
}

func buildNewOrder(tenantID primitive.ObjectID, req checkoutRequest) (orders.NewOrder, error) {
	if len(req.Items) == 0 {
		return orders.NewOrder{}, errors.New("at least one item is required")
	}

	items := make([]orders.NewItem, 0, len(req.Items))
	for _, item := range req.Items {
		variantID, err := primitive.ObjectIDFromHex(item.VariantID)
		if err != nil {
			return orders.NewOrder{}, errors.New("invalid variantId")
		}
		if item.Quantity <= 0 {
			return orders.NewOrder{}, errors.New("quantity must be greater than zero")
		}
		items = append(items, orders.NewItem{VariantID: variantID, Quantity: item.Quantity})
	}

	return orders.NewOrder{
		TenantID: tenantID,
		Buyer: models.OrderBuyer{
			Name:  strings.TrimSpace(req.Buyer.Name),
			Phone: strings.TrimSpace(req.Buyer.Phone),
			Note:  strings.TrimSpace(req.Buyer.Note),
		},
		Address: models.OrderAddress{
			Line: strings.TrimSpace(req.Address.Line),
			City: strings.TrimSpace(req.Address.City),
		},
		Message: req.Message,
		Items:   items,
	}, nil
}

func publishOrderCreated(publisher *events.Publisher, order *models.Order) {
	env, err := events.NewEnvelope(events.TypeOrderCreated, "chatstore", events.OrderCreatedPayload{
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		TenantID:    order.TenantID.Hex(),
		TotalCents:  order.TotalCents,
		ItemCount:   order.ItemCount,
		Message:     order.Message,
	})
	if err != nil {
		log.Println("[EVENTS] order created envelope failed:", err)
		return
	}
	publisher.Publish(order.ID.Hex(), env)
}
