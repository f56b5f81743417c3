package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"

	"storefront/internal/cart"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/kv"
	"storefront/internal/middleware"
	"storefront/internal/notify"
	"storefront/internal/order"
	"storefront/internal/payment"
	"storefront/internal/querycache"
	"storefront/internal/ratelimit"
	"storefront/internal/repository"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)
	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}

	redisClient := rd.NewClient(&rd.Options{
		Addr: config.AppEnv.RedisAddr,
		DB:   config.AppEnv.RedisDB,
	})

	orderRepo := repository.NewOrderRepo(db)
	productRepo := repository.NewProductRepo(db)
	userRepo := repository.NewUserRepo(db)

	orderService := order.NewService(orderRepo, productRepo, userRepo, notify.NewLogSender())

	pricing := payment.Pricing{
		ShippingFee: config.AppEnv.ShippingFee,
		TaxRate:     config.AppEnv.TaxRate,
	}
	paymentWorkflow := payment.NewWorkflow(
		orderRepo,
		productRepo,
		orderService,
		payment.NewSandboxGateway(),
		pricing,
		config.AppEnv.Currency,
	)

	cartStore := cart.NewStore(kv.NewRedisStore(redisClient))
	catalogLimiter := ratelimit.New(config.AppEnv.RateLimit, config.AppEnv.RateLimitWindow)
	popularCache := querycache.New(config.AppEnv.PopularCacheTTL)

	r := gin.Default()

	r.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.POST("/auth/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))

	catalog := r.Group("/products")
	catalog.Use(middleware.RateLimit(catalogLimiter))
	{
		catalog.GET("", handlers.GetProducts(db))
		catalog.GET("/popular", handlers.GetPopularProducts(orderRepo, popularCache))
	}

	r.POST("/orders", handlers.Checkout(orderService, pricing, config.AppEnv.JWTSecret))
	r.POST("/orders/:id/pay", handlers.InitiatePayment(paymentWorkflow))
	r.POST("/orders/:id/confirm", handlers.ConfirmPayment(paymentWorkflow))

	user := r.Group("/user")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/orders", handlers.GetMyOrders(orderRepo))
		user.GET("/addresses", handlers.GetUserAddresses(db))
		user.POST("/addresses", handlers.CreateUserAddress(db))
		user.DELETE("/addresses/:id", handlers.DeleteUserAddress(db))

		user.GET("/cart", handlers.GetCart(cartStore))
		user.POST("/cart/items", handlers.AddCartItem(cartStore, productRepo))
		user.PATCH("/cart/items/:productId", handlers.UpdateCartItem(cartStore, productRepo))
		user.DELETE("/cart/items/:productId", handlers.RemoveCartItem(cartStore))
	}

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/orders", handlers.GetAllOrders(orderRepo))
		admin.PATCH("/orders/:id/status", handlers.UpdateOrderStatus(orderService))
		admin.POST("/orders/:id/refund", handlers.RefundOrder(paymentWorkflow))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
