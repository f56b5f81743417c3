package payment

import (
	"context"
	"errors"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/order"
	"storefront/internal/repository"
)

var (
	// ErrAlreadyPaid guards Initiate against duplicate charges.
	ErrAlreadyPaid = errors.New("order already has a payment reference")

	// ErrNotAuthorized is returned when the gateway event reports a declined
	// charge.
	ErrNotAuthorized = errors.New("charge was not authorized")

	// ErrEventMismatch is returned when a gateway event does not match the
	// order's stored payment reference.
	ErrEventMismatch = errors.New("gateway event does not match order payment reference")
)

// Workflow orchestrates the gateway-facing half of payment and refund. It
// holds no locks across gateway calls: external I/O happens first, local
// state mutation after, so a timed-out gateway call leaves the order exactly
// as it was.
type Workflow struct {
	Orders   order.Repo
	Products order.ProductRepo
	Machine  *order.Service
	Gateway  Gateway
	Pricing  Pricing
	Currency string
}

func NewWorkflow(orders order.Repo, products order.ProductRepo, machine *order.Service, gateway Gateway, pricing Pricing, currency string) *Workflow {
	return &Workflow{
		Orders:   orders,
		Products: products,
		Machine:  machine,
		Gateway:  gateway,
		Pricing:  pricing,
		Currency: currency,
	}
}

// Initiate creates a gateway charge for a pending, unpaid order and persists
// the gateway reference. Calling it twice fails with ErrAlreadyPaid rather
// than charging twice; two racing calls are serialized by the conditional
// reference write, and the loser's dangling charge is reversed.
func (w *Workflow) Initiate(ctx context.Context, orderID primitive.ObjectID) (Charge, Quote, error) {
	ord, err := w.Orders.FindByID(ctx, orderID)
	if err != nil {
		return Charge{}, Quote{}, err
	}

	if ord.Paid() {
		return Charge{}, Quote{}, ErrAlreadyPaid
	}
	if ord.Status != models.OrderPending {
		return Charge{}, Quote{}, order.ErrInvalidState
	}

	quote := w.Pricing.QuoteFor(ord.TotalPrice)

	charge, err := w.Gateway.CreateCharge(ctx, quote.Total, w.Currency, map[string]string{
		"orderId": orderID.Hex(),
	})
	if err != nil {
		return Charge{}, Quote{}, gatewayErr("create charge", err)
	}

	if err := w.Orders.SetPaymentRef(ctx, orderID, charge.Reference); err != nil {
		// The order changed under us, most likely a concurrent Initiate that
		// won the reference write. Undo our charge so no money is held twice.
		if reverseErr := w.Gateway.ReverseCharge(ctx, charge.Reference); reverseErr != nil {
			log.Printf("[PAYMENT] [ERROR] orphaned charge %s could not be reversed: %v", charge.Reference, reverseErr)
		}
		if errors.Is(err, repository.ErrConflict) {
			return Charge{}, Quote{}, ErrAlreadyPaid
		}
		return Charge{}, Quote{}, err
	}

	log.Printf("[PAYMENT] [INFO] charge %s initiated for order %s (%.2f %s)",
		charge.Reference, orderID.Hex(), quote.Total, w.Currency)
	return charge, quote, nil
}

// Confirm handles the gateway's authorization event. This is the reservation
// point: stock is durably decremented per item, then the order moves from
// pending to processing.
//
// If any item's stock no longer covers the order, already-taken decrements
// are compensated, the order stays pending and the caller gets the typed
// insufficient-stock error so it can reverse the charge and tell the buyer
// which item ran out.
func (w *Workflow) Confirm(ctx context.Context, orderID primitive.ObjectID, event Event) (models.Order, error) {
	ord, err := w.Orders.FindByID(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}

	if !ord.Paid() || ord.PaymentRef != event.Reference {
		return models.Order{}, ErrEventMismatch
	}

	// Webhook deliveries can repeat; a confirm replay on an already
	// processing order is a no-op success.
	if ord.Status == models.OrderProcessing {
		return ord, nil
	}
	if ord.Status != models.OrderPending {
		return models.Order{}, order.ErrInvalidState
	}

	if !event.Authorized {
		return models.Order{}, ErrNotAuthorized
	}

	taken := make([]models.OrderItem, 0, len(ord.Items))
	for _, item := range ord.Items {
		if err := w.Products.AdjustStock(ctx, item.ProductID, -item.Quantity); err != nil {
			w.compensateStock(ctx, taken)
			return models.Order{}, err
		}
		taken = append(taken, item)
	}

	confirmed, err := w.Machine.Transition(ctx, orderID, models.OrderProcessing, "")
	if err != nil {
		w.compensateStock(ctx, taken)
		return models.Order{}, err
	}

	log.Printf("[PAYMENT] [INFO] order %s confirmed, stock reserved for %d items",
		orderID.Hex(), len(ord.Items))
	return confirmed, nil
}

// compensateStock re-increments decrements applied before a confirm failure.
// Best effort: a failing re-increment is logged and the loop continues.
func (w *Workflow) compensateStock(ctx context.Context, taken []models.OrderItem) {
	for _, item := range taken {
		if err := w.Products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("[PAYMENT] [ERROR] stock compensation failed for product %s (+%d): %v",
				item.ProductID.Hex(), item.Quantity, err)
		}
	}
}

// Refund reverses the gateway charge, then delegates status flip and stock
// restoration to the state machine. Gateway failure aborts before any state
// changes. The returned warnings list per-item stock restorations that failed
// after the refund itself succeeded.
func (w *Workflow) Refund(ctx context.Context, orderID primitive.ObjectID) (models.Order, []error, error) {
	ord, err := w.Orders.FindByID(ctx, orderID)
	if err != nil {
		return models.Order{}, nil, err
	}

	if ord.Status == models.OrderRefunded {
		return models.Order{}, nil, order.ErrAlreadyRefunded
	}
	// Refund is only reachable from non-terminal states; a delivered or
	// cancelled order cannot be refunded.
	if !order.CanTransition(ord.Status, models.OrderRefunded) {
		return models.Order{}, nil, order.ErrInvalidState
	}
	if !ord.Paid() {
		return models.Order{}, nil, order.ErrInvalidState
	}

	if err := w.Gateway.ReverseCharge(ctx, ord.PaymentRef); err != nil {
		return models.Order{}, nil, gatewayErr("reverse charge", err)
	}

	warnings, err := w.Machine.MarkRefunded(ctx, ord)
	if err != nil {
		return models.Order{}, nil, err
	}

	ord.Status = models.OrderRefunded
	log.Printf("[PAYMENT] [INFO] order %s refunded (%d restore warnings)", orderID.Hex(), len(warnings))
	return ord, warnings, nil
}

// ReverseCharge exposes charge reversal for compensating flows, like a
// confirm that failed on stock after the buyer already paid.
func (w *Workflow) ReverseCharge(ctx context.Context, reference string) error {
	if err := w.Gateway.ReverseCharge(ctx, reference); err != nil {
		return gatewayErr("reverse charge", err)
	}
	return nil
}
