package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/repository"
)

var (
	// ErrAlreadyRefunded signals a second refund attempt on the same order.
	ErrAlreadyRefunded = errors.New("order already refunded")

	// ErrInvalidState signals an operation on an order whose status does not
	// allow it (for example refunding a cancelled order).
	ErrInvalidState = errors.New("order state does not allow this operation")
)

// Repo is the slice of order persistence the state machine needs.
type Repo interface {
	Create(ctx context.Context, order models.Order) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, expected, next, tracking string) error
	SetPaymentRef(ctx context.Context, id primitive.ObjectID, ref string) error
}

// ProductRepo provides product lookups and atomic stock adjustment.
type ProductRepo interface {
	FindForSale(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	AdjustStock(ctx context.Context, id primitive.ObjectID, delta int) error
}

// UserRepo resolves notification recipients.
type UserRepo interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
}

// Notifier delivers best-effort status notifications. Failures are logged by
// the service and never surfaced to the caller.
type Notifier interface {
	SendShippingUpdate(ctx context.Context, recipient, orderID, status, tracking string) error
}

// ItemRequest is one checkout line: which product and how many units.
type ItemRequest struct {
	ProductID primitive.ObjectID
	Quantity  int
}

// Service owns order status and the transitions between statuses. All status
// writes go through conditional updates so concurrent admin actions cannot
// both succeed.
type Service struct {
	Orders   Repo
	Products ProductRepo
	Users    UserRepo
	Notify   Notifier
	Now      func() time.Time
}

func NewService(orders Repo, products ProductRepo, users UserRepo, notify Notifier) *Service {
	return &Service{
		Orders:   orders,
		Products: products,
		Users:    users,
		Notify:   notify,
		Now:      time.Now,
	}
}

// Create builds a pending order. The unit price of every line is captured
// from the product's effective price at this moment and never recomputed.
// Stock is NOT decremented here: reservation happens at payment confirmation,
// so abandoned checkouts never hold stock.
func (s *Service) Create(ctx context.Context, userID *primitive.ObjectID, items []ItemRequest, address models.OrderAddress) (models.Order, error) {
	if len(items) == 0 {
		return models.Order{}, errors.New("at least one item is required")
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	total := 0.0

	for _, item := range items {
		if item.Quantity <= 0 {
			return models.Order{}, fmt.Errorf("quantity must be greater than zero for product %s", item.ProductID.Hex())
		}

		product, err := s.Products.FindForSale(ctx, item.ProductID)
		if err != nil {
			return models.Order{}, err
		}

		unitPrice := product.EffectivePrice()
		orderItems = append(orderItems, models.OrderItem{
			ProductID: item.ProductID,
			Name:      product.Name,
			Price:     unitPrice,
			Quantity:  item.Quantity,
		})
		total += unitPrice * float64(item.Quantity)
	}

	now := s.Now()
	order := models.Order{
		UserID:     userID,
		Items:      orderItems,
		TotalPrice: total,
		Address:    address,
		Status:     models.OrderPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	id, err := s.Orders.Create(ctx, order)
	if err != nil {
		return models.Order{}, err
	}
	order.ID = id
	return order, nil
}

// Transition moves an order to next. The repository write is conditional on
// the status the caller observed, so a concurrent transition makes this one
// fail with ErrConflict instead of silently overwriting it.
//
// Moving to shipped attaches the tracking number and dispatches a shipping
// notification. Notification delivery is outside the consistency boundary: a
// send failure is logged and the transition still succeeds.
func (s *Service) Transition(ctx context.Context, orderID primitive.ObjectID, next, tracking string) (models.Order, error) {
	if !ValidStatus(next) {
		return models.Order{}, InvalidTransitionError{From: "?", To: next}
	}

	ord, err := s.Orders.FindByID(ctx, orderID)
	if err != nil {
		return models.Order{}, err
	}

	if !CanTransition(ord.Status, next) {
		return models.Order{}, InvalidTransitionError{From: ord.Status, To: next}
	}

	if next != models.OrderShipped {
		tracking = ""
	}

	if err := s.Orders.UpdateStatus(ctx, orderID, ord.Status, next, tracking); err != nil {
		return models.Order{}, err
	}

	ord.Status = next
	if tracking != "" {
		ord.TrackingNumber = tracking
	}
	ord.UpdatedAt = s.Now()

	if next == models.OrderShipped {
		s.notifyShipped(ctx, ord)
	}

	return ord, nil
}

// notifyShipped sends the shipping update to the order's owner. Guest orders
// have no recipient and are skipped.
func (s *Service) notifyShipped(ctx context.Context, ord models.Order) {
	if s.Notify == nil || ord.UserID == nil {
		return
	}

	user, err := s.Users.FindByID(ctx, *ord.UserID)
	if err != nil {
		log.Printf("[ORDER] [WARN] shipping notification skipped, user lookup failed: %v", err)
		return
	}

	if err := s.Notify.SendShippingUpdate(ctx, user.Email, ord.ID.Hex(), ord.Status, ord.TrackingNumber); err != nil {
		log.Printf("[ORDER] [WARN] shipping notification failed for order %s: %v", ord.ID.Hex(), err)
	}
}

// MarkRefunded performs the order-side half of a refund: flip the status with
// a conditional update, then put every item's quantity back into stock.
//
// Restoration is deliberately not transactional across items. A failing item
// is recorded and the loop continues, so one bad repository call can neither
// abort the refund nor roll back increments already applied. The collected
// failures come back as warnings alongside overall success.
func (s *Service) MarkRefunded(ctx context.Context, ord models.Order) ([]error, error) {
	if ord.Status == models.OrderRefunded {
		return nil, ErrAlreadyRefunded
	}
	// Terminal states (cancelled, delivered) have no path into refunded.
	if !CanTransition(ord.Status, models.OrderRefunded) {
		return nil, ErrInvalidState
	}

	if err := s.Orders.UpdateStatus(ctx, ord.ID, ord.Status, models.OrderRefunded, ""); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Another writer moved the order first. If that writer was a
			// concurrent refund, report it as such so stock is not restored
			// twice.
			current, findErr := s.Orders.FindByID(ctx, ord.ID)
			if findErr == nil && current.Status == models.OrderRefunded {
				return nil, ErrAlreadyRefunded
			}
			return nil, ErrInvalidState
		}
		return nil, err
	}

	var warnings []error
	for _, item := range ord.Items {
		if err := s.Products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			log.Printf("[ORDER] [WARN] stock restore failed for product %s (+%d): %v",
				item.ProductID.Hex(), item.Quantity, err)
			warnings = append(warnings, fmt.Errorf("restore %s: %w", item.ProductID.Hex(), err))
		}
	}

	return warnings, nil
}
