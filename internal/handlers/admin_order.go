package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/order"
	"storefront/internal/payment"
	"storefront/internal/repository"
)

type updateOrderStatusRequest struct {
	Status         string `json:"status" binding:"required"`
	TrackingNumber string `json:"trackingNumber"`
}

func GetAllOrders(repo *repository.OrderRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination params"})
			return
		}

		orders, total, err := repo.ListAll(c.Request.Context(), page, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "orders could not be fetched"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data": orders,
			"pagination": gin.H{
				"page":  page,
				"limit": limit,
				"total": total,
			},
		})
	}
}

// UpdateOrderStatus drives admin transitions (processing, shipped, delivered,
// cancelled). The underlying write is conditional on the status the admin
// saw, so two simultaneous conflicting actions cannot both win.
func UpdateOrderStatus(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /admin/api/orders/:id/status"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ord, err := svc.Transition(c.Request.Context(), orderID, req.Status, req.TrackingNumber)
		if err != nil {
			var transitionErr order.InvalidTransitionError
			switch {
			case errors.As(err, &transitionErr):
				c.JSON(http.StatusConflict, gin.H{
					"error": transitionErr.Error(),
					"from":  transitionErr.From,
					"to":    transitionErr.To,
				})
			case errors.Is(err, repository.ErrConflict):
				c.JSON(http.StatusConflict, gin.H{"error": "order was changed concurrently, reload and retry"})
			case errors.Is(err, repository.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			default:
				respondWithError(c, http.StatusInternalServerError, route, "status could not be updated")
			}
			return
		}

		c.JSON(http.StatusOK, ord)
	}
}

// RefundOrder reverses the charge and restores stock. Partial stock-restore
// failures do not fail the refund; they come back as warnings in the
// response so the back office can follow up.
func RefundOrder(wf *payment.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /admin/api/orders/:id/refund"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ord, warnings, err := wf.Refund(c.Request.Context(), orderID)
		if err != nil {
			switch {
			case errors.Is(err, order.ErrAlreadyRefunded):
				c.JSON(http.StatusConflict, gin.H{"error": "order is already refunded"})
			case errors.Is(err, order.ErrInvalidState):
				c.JSON(http.StatusConflict, gin.H{"error": "order cannot be refunded in its current state"})
			case errors.Is(err, repository.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			case errors.Is(err, payment.ErrGateway):
				c.JSON(http.StatusBadGateway, gin.H{"error": "charge could not be reversed, order unchanged"})
			default:
				respondWithError(c, http.StatusInternalServerError, route, "refund failed")
			}
			return
		}

		warningMessages := make([]string, 0, len(warnings))
		for _, w := range warnings {
			warningMessages = append(warningMessages, w.Error())
		}

		c.JSON(http.StatusOK, gin.H{
			"orderId":  ord.ID.Hex(),
			"status":   ord.Status,
			"warnings": warningMessages,
		})
	}
}
