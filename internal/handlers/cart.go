package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/repository"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func cartOwner(c *gin.Context) (string, bool) {
	userID, ok := c.MustGet("userId").(primitive.ObjectID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return "", false
	}
	return userID.Hex(), true
}

func cartResponse(items []models.CartItem, signal cart.Signal) gin.H {
	return gin.H{
		"items":      items,
		"totalPrice": cart.TotalPrice(items),
		"totalItems": cart.TotalItems(items),
		"signal":     signal,
	}
}

// GetCart rehydrates the saved cart. The client must render the cart only
// after this call completes, so a not-yet-loaded cart is never mistaken for
// an empty one.
func GetCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		owner, ok := cartOwner(c)
		if !ok {
			return
		}

		items, err := store.Load(c.Request.Context(), owner)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "cart could not be loaded")
			return
		}

		c.JSON(http.StatusOK, cartResponse(items, cart.SignalNone))
	}
}

// AddCartItem adds one unit of a product, snapshotting its current price and
// stock into the line. The snapshot only bounds later quantity edits;
// authoritative stock is re-checked at payment confirmation.
func AddCartItem(store *cart.Store, products *repository.ProductRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		owner, ok := cartOwner(c)
		if !ok {
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		product, err := products.FindForSale(c.Request.Context(), productID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				respondWithError(c, http.StatusNotFound, route, "product not found")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		items, err := store.Load(c.Request.Context(), owner)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "cart could not be loaded")
			return
		}

		items, signal := cart.AddItem(items, models.CartItem{
			ProductID: product.ID.Hex(),
			Name:      product.Name,
			Price:     product.EffectivePrice(),
			Image:     product.ImagePath,
			Stock:     product.Stock,
		})

		if err := store.Save(c.Request.Context(), owner, items); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "cart could not be saved")
			return
		}

		c.JSON(http.StatusOK, cartResponse(items, signal))
	}
}

// UpdateCartItem sets a line's quantity, clamped to the stock snapshot. The
// snapshot is refreshed from the catalog first so the clamp tracks the latest
// known stock, not the value from when the line was added.
func UpdateCartItem(store *cart.Store, products *repository.ProductRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /cart/items/:productId"
		defer handlePanic(c, route)

		owner, ok := cartOwner(c)
		if !ok {
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		items, err := store.Load(c.Request.Context(), owner)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "cart could not be loaded")
			return
		}

		refreshStockSnapshot(c, products, items, c.Param("productId"))

		items, signal := cart.UpdateQuantity(items, c.Param("productId"), req.Quantity)

		if err := store.Save(c.Request.Context(), owner, items); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "cart could not be saved")
			return
		}

		c.JSON(http.StatusOK, cartResponse(items, signal))
	}
}

// refreshStockSnapshot re-reads a line's stock from the catalog. Best effort:
// on any failure the line keeps the snapshot it already has.
func refreshStockSnapshot(c *gin.Context, products *repository.ProductRepo, items []models.CartItem, productID string) {
	id, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return
	}
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		if stock, err := products.GetStock(c.Request.Context(), id); err == nil {
			items[i].Stock = stock
		}
		return
	}
}

// RemoveCartItem deletes a line from the cart.
func RemoveCartItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:productId"
		defer handlePanic(c, route)

		owner, ok := cartOwner(c)
		if !ok {
			return
		}

		items, err := store.Load(c.Request.Context(), owner)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "cart could not be loaded")
			return
		}

		items, signal := cart.RemoveItem(items, c.Param("productId"))

		if err := store.Save(c.Request.Context(), owner, items); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "cart could not be saved")
			return
		}

		c.JSON(http.StatusOK, cartResponse(items, signal))
	}
}
