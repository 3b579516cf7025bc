package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"chatstore/internal/stock"
)

type stockCheckItemRequest struct {
	VariantID string `json:"variantId" binding:"required"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type stockCheckRequest struct {
	Items []stockCheckItemRequest `json:"items" binding:"required"`
}

// CheckStock is the advisory pre-check the storefront runs before showing
// the checkout button. It names every short item, not just the first, and
// never mutates stock.
func CheckStock(db *mongo.Database, validator *stock.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/shops/:shopId/stock-check"
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

		var req stockCheckRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		requests, err := buildStockRequests(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := validator.Check(ctx, tenantID, requests)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

func buildStockRequests(req stockCheckRequest) ([]stock.Request, error) {
	if len(req.Items) == 0 {
		return nil, errors.New("at least one item is required")
	}
	requests := make([]stock.Request, 0, len(req.Items))
	for _, item := range req.Items {
		variantID, err := primitive.ObjectIDFromHex(item.VariantID)
		if err != nil {
			return nil, errors.New("invalid variantId")
		}
		if item.Quantity <= 0 {
			return nil, errors.New("quantity must be greater than zero")
		}
		requests = append(requests, stock.Request{
			VariantID: variantID,
			Name:      item.Name,
			Quantity:  item.Quantity,
		})
	}
	return requests, nil
}
