package main

import (
	"context"
	"net/http"

	"agrostore/internal/handler"
	mid "agrostore/internal/middleware"
	"agrostore/internal/service"
	"agrostore/internal/store"
	"agrostore/pkg/config"
	"agrostore/pkg/database"
	"agrostore/pkg/jwtutil"
	"agrostore/pkg/logger"
	"agrostore/pkg/objstore"
	"agrostore/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	// Load configuration (reads .env when present)
	appConfig, err := config.Load("agrostore")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(appConfig)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("Starting agrostore",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.Open(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Initialize object store gateway
	images, err := objstore.NewS3Gateway(context.Background(), &appConfig.S3)
	if err != nil {
		log.Fatal("Failed to initialize object store", zap.Error(err))
	}
	log.Info("Object store gateway initialized",
		zap.String("bucket", appConfig.S3.Bucket),
		zap.String("region", appConfig.S3.Region))

	// Stores
	categoryStore := store.NewCategoryStore(db)
	productStore := store.NewProductStore(db)
	customerStore := store.NewCustomerStore(db)
	otpStore := store.NewOTPStore(db)
	cartStore := store.NewCartStore(db)

	// JWT utility
	jwt := jwtutil.New(&appConfig.JWT)

	// Services
	categoryService := service.NewCategoryService(categoryStore, productStore, log)
	productService := service.NewProductService(productStore, categoryStore, images, log)
	authService := service.NewAuthService(customerStore, otpStore, &service.LogSMSSender{Log: log}, jwt, appConfig.OTP, log)
	cartService := service.NewCartService(cartStore, productStore, log)

	// Handlers
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	storefrontHandler := handler.NewStorefrontHandler(productService, categoryService)
	authHandler := handler.NewAuthHandler(authService)
	cartHandler := handler.NewCartHandler(cartService)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestID(log))
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public storefront routes
	e.GET("/api/storefront/products", storefrontHandler.ListProducts)
	e.GET("/api/storefront/categories", storefrontHandler.ListCategories)

	// Authentication routes
	e.POST("/api/auth/otp/request", authHandler.RequestOTP)
	e.POST("/api/auth/otp/verify", authHandler.VerifyOTP)

	auth := mid.Auth(jwt)

	// Category admin API routes
	categoryAPI := e.Group("/api/categories", auth)
	categoryAPI.GET("", categoryHandler.List)
	categoryAPI.POST("", categoryHandler.Create)
	categoryAPI.PUT("/:id", categoryHandler.Rename)
	categoryAPI.DELETE("/:id", categoryHandler.Delete)

	// Product admin API routes
	productAPI := e.Group("/api/products", auth)
	productAPI.GET("", productHandler.List)
	productAPI.GET("/:id", productHandler.Get)
	productAPI.POST("", productHandler.Create)
	productAPI.PUT("/:id", productHandler.Update)
	productAPI.DELETE("/:id", productHandler.Delete)

	// Cart API routes
	cartAPI := e.Group("/api/cart", auth)
	cartAPI.GET("", cartHandler.List)
	cartAPI.POST("", cartHandler.Add)
	cartAPI.PUT("/:id", cartHandler.UpdateQuantity)
	cartAPI.DELETE("/:id", cartHandler.Remove)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
