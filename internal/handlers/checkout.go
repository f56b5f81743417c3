package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/order"
	"storefront/internal/payment"
	"storefront/internal/repository"
)

/* =========================
   REQUEST DTOs
========================= */

type checkoutItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

type checkoutAddressRequest struct {
	Title  string `json:"title" binding:"required"`
	Detail string `json:"detail" binding:"required"`
	Note   string `json:"note"`
}

type checkoutRequest struct {
	Items   []checkoutItemRequest  `json:"items" binding:"required"`
	Address checkoutAddressRequest `json:"address" binding:"required"`
}

/* =========================
   CREATE ORDER
========================= */

// Checkout creates a pending order from the submitted cart. Prices are
// captured server-side from the live catalog; the client-sent cart is never
// trusted for money amounts. No stock is reserved yet.
func Checkout(svc *order.Service, pricing payment.Pricing, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		userID, err := userIDFromHeader(c.GetHeader("Authorization"), jwtSecret)
		if err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		items := make([]order.ItemRequest, 0, len(req.Items))
		for _, item := range req.Items {
			productID, err := primitive.ObjectIDFromHex(item.ProductID)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid productId")
				return
			}
			items = append(items, order.ItemRequest{ProductID: productID, Quantity: item.Quantity})
		}

		ord, err := svc.Create(c.Request.Context(), userID, items, models.OrderAddress(req.Address))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				respondWithError(c, http.StatusBadRequest, route, "product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "order could not be created")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"orderId": ord.ID.Hex(),
			"status":  ord.Status,
			"total":   ord.TotalPrice,
			"quote":   pricing.QuoteFor(ord.TotalPrice),
		})
	}
}

/* =========================
   GET OWN ORDERS
========================= */

func GetMyOrders(repo *repository.OrderRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := c.MustGet("userId").(primitive.ObjectID)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orders, err := repo.ListByUser(c.Request.Context(), userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "orders could not be fetched"})
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

/* =========================
   TOKEN HELPER
========================= */

// userIDFromHeader resolves the optional bearer token into a user id. Guest
// checkout is allowed: an empty header yields a nil user, a malformed or
// invalid token is an error.
func userIDFromHeader(header, secret string) (*primitive.ObjectID, error) {
	raw := strings.TrimSpace(header)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid token format")
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userIDValue, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userIDValue) == "" {
		return nil, errors.New("userId claim missing")
	}

	userID, err := primitive.ObjectIDFromHex(userIDValue)
	if err != nil {
		return nil, errors.New("invalid userId")
	}

	return &userID, nil
}
