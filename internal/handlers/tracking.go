package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"

	"chatstore/internal/orders"
)

// TrackOrder is the public, unauthenticated tracking read. The order number
// is the only credential; the buyer phone comes back masked to its last four
// digits.
func TrackOrder(db *mongo.Database, store *orders.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/track/:orderNumber"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		number := strings.TrimSpace(c.Param("orderNumber"))
		if number == "" {
			respondWithError(c, http.StatusBadRequest, route, "order number is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		order, err := store.GetByNumber(ctx, number)
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
