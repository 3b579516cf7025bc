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
	"chatstore/internal/middleware"
	"chatstore/internal/models"
	"chatstore/internal/orders"
)

func tenantFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	value, ok := c.Get(middleware.ContextTenantID)
	if !ok {
		return primitive.NilObjectID, false
	}
	tenantID, ok := value.(primitive.ObjectID)
	return tenantID, ok
}

// ListOrders serves the seller dashboard: newest-first, optional status
// filter, cursor-paginated.
func ListOrders(db *mongo.Database, store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/api/orders"
		defer handlePanic(c, route)

		tenantID, ok := tenantFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		filter := orders.ListFilter{}
		if status := strings.TrimSpace(c.Query("status")); status != "" {
			s := orders.Status(status)
			if !orders.IsValid(s) {
				respondWithError(c, http.StatusBadRequest, route, "unknown status")
				return
			}
			filter.Status = s
		}
		if cursor := strings.TrimSpace(c.Query("cursor")); cursor != "" {
			id, err := primitive.ObjectIDFromHex(cursor)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid cursor")
				return
			}
			filter.Cursor = id
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		list, next, err := store.List(ctx, tenantID, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		resp := gin.H{"orders": list}
		if !next.IsZero() {
			resp["nextCursor"] = next.Hex()
		}
		c.JSON(http.StatusOK, resp)
	}
}

func GetOrder(db *mongo.Database, store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /seller/api/orders/:id"
		defer handlePanic(c, route)

		tenantID, ok := tenantFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := store.GetByID(ctx, tenantID, orderID)
		if errors.Is(err, orders.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

type statusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateOrderStatus moves an order through its lifecycle. Refused
// transitions come back as 409 naming both states.
func UpdateOrderStatus(db *mongo.Database, store *orders.Store, publisher *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /seller/api/orders/:id/status"
		defer handlePanic(c, route)

		tenantID, ok := tenantFromContext(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req statusUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}
		target := orders.Status(req.Status)
		if !orders.IsValid(target) {
			respondWithError(c, http.StatusBadRequest, route, "unknown status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, previous, err := store.UpdateStatus(ctx, tenantID, orderID, target)
		if err != nil {
			var illegal orders.IllegalTransitionError
			if errors.As(err, &illegal) {
				c.JSON(http.StatusConflict, gin.H{
					"error":     "illegal transition",
					"current":   string(illegal.From),
					"attempted": string(illegal.To),
				})
				return
			}
			if errors.Is(err, orders.ErrNotFound) {
				respondWithError(c, http.StatusNotFound, route, "order not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		publishStatusChanged(publisher, order, previous, target)

		log.Printf("[%s] order %s moved to %s", route, order.OrderNumber, target)
		c.JSON(http.StatusOK, order)
	}
}

func publishStatusChanged(publisher *events.Publisher, order *models.Order, previous, target orders.Status) {
	env, err := events.NewEnvelope(events.TypeOrderStatusChanged, "chatstore", events.OrderStatusChangedPayload{
		OrderID:     order.ID.Hex(),
		OrderNumber: order.OrderNumber,
		TenantID:    order.TenantID.Hex(),
		From:        string(previous),
		To:          string(target),
	})
	if err != nil {
		log.Println("[EVENTS] status changed envelope failed:", err)
		return
	}
	publisher.Publish(order.ID.Hex(), env)
}
