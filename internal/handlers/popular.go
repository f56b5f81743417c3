package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/querycache"
	"storefront/internal/repository"
)

const defaultPopularLimit = 10

// GetPopularProducts serves the top-selling-products aggregation through the
// read-through cache. The X-Cache header exposes hit/miss for observability.
func GetPopularProducts(repo *repository.OrderRepo, cache *querycache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/popular"
		defer handlePanic(c, route)

		limit := defaultPopularLimit
		if raw := c.Query("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 || parsed > 100 {
				respondWithError(c, http.StatusBadRequest, route, "invalid limit")
				return
			}
			limit = parsed
		}

		key := querycache.Key("popular-products", limit)
		value, hit, err := cache.Lookup(c.Request.Context(), key, func(ctx context.Context) (interface{}, error) {
			return repo.TopSellingProducts(ctx, limit)
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "aggregation failed")
			return
		}

		if hit {
			c.Header("X-Cache", "HIT")
		} else {
			c.Header("X-Cache", "MISS")
		}

		products, _ := value.([]models.PopularProduct)
		c.JSON(http.StatusOK, products)
	}
}
