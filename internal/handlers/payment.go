package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/order"
	"storefront/internal/payment"
	"storefront/internal/repository"
)

/* =========================
   INITIATE PAYMENT
========================= */

// InitiatePayment creates the gateway charge for a pending order and returns
// the client handle. The three failure classes stay distinguishable for the
// buyer: state conflicts (409), declined payments (402), unreachable
// processor (502).
func InitiatePayment(wf *payment.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/:id/pay"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		charge, quote, err := wf.Initiate(c.Request.Context(), orderID)
		switch {
		case err == nil:
		case errors.Is(err, payment.ErrAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{"error": "order is already paid"})
			return
		case errors.Is(err, order.ErrInvalidState):
			c.JSON(http.StatusConflict, gin.H{"error": "order cannot be paid in its current state"})
			return
		case errors.Is(err, repository.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		case errors.Is(err, payment.ErrGateway):
			log.Printf("[%s] gateway failure: %v", route, err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "we couldn't reach the payment processor, please retry later"})
			return
		default:
			respondWithError(c, http.StatusInternalServerError, route, "payment could not be initiated")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"clientHandle": charge.ClientHandle,
			"quote":        quote,
		})
	}
}

/* =========================
   CONFIRM PAYMENT
========================= */

// ConfirmPayment processes the gateway's authorization event. On an
// insufficient-stock failure the charge is reversed best-effort and the
// response names the product that ran out, so the client can show an
// actionable "your cart changed" message instead of a generic error.
func ConfirmPayment(wf *payment.Workflow) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders/:id/confirm"
		defer handlePanic(c, route)

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var event payment.Event
		if err := c.ShouldBindJSON(&event); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		ord, err := wf.Confirm(c.Request.Context(), orderID, event)
		if err != nil {
			var stockErr repository.InsufficientStockError
			switch {
			case errors.As(err, &stockErr):
				if reverseErr := wf.ReverseCharge(c.Request.Context(), event.Reference); reverseErr != nil {
					log.Printf("[%s] compensating reversal failed for %s: %v", route, event.Reference, reverseErr)
				}
				c.JSON(http.StatusConflict, gin.H{
					"error":     "stock ran out while you were checking out",
					"productId": stockErr.ProductID.Hex(),
					"available": stockErr.Available,
					"requested": stockErr.Requested,
				})
			case errors.Is(err, payment.ErrNotAuthorized):
				c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment failed, please try again"})
			case errors.Is(err, payment.ErrEventMismatch):
				c.JSON(http.StatusBadRequest, gin.H{"error": "event does not match order"})
			case errors.Is(err, repository.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			case errors.Is(err, order.ErrInvalidState):
				c.JSON(http.StatusConflict, gin.H{"error": "order cannot be confirmed in its current state"})
			case errors.Is(err, payment.ErrGateway):
				log.Printf("[%s] gateway failure: %v", route, err)
				c.JSON(http.StatusBadGateway, gin.H{"error": "we couldn't reach the payment processor, please retry later"})
			default:
				respondWithError(c, http.StatusInternalServerError, route, "payment could not be confirmed")
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"orderId": ord.ID.Hex(),
			"status":  ord.Status,
		})
	}
}
