package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"steam-valuator/internal/api"
	"steam-valuator/internal/cache"
	"steam-valuator/internal/config"
	"steam-valuator/internal/database"
	"steam-valuator/internal/fetch"
	"steam-valuator/internal/services/csfloat"
	"steam-valuator/internal/services/inventory"
	"steam-valuator/internal/services/steammarket"
	"steam-valuator/internal/services/valuation"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	// Initialize configuration
	cfg := config.Load()

	// Initialize the cache store: Redis when configured, SQLite otherwise
	var store cache.Store
	var gormStore *cache.GormStore
	if cfg.RedisAddr != "" {
		store = cache.NewRedisStore(database.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB))
		logrus.WithField("addr", cfg.RedisAddr).Info("Using Redis cache store")
	} else {
		db, err := database.Initialize(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		gormStore = cache.NewGormStore(db)
		store = gormStore
	}

	prices := cache.New(store, "item_prices", cfg.PriceTTL)
	totals := cache.New(store, "inventory_values", cfg.ValueTTL)

	// Initialize services
	fetcher := fetch.New(cfg.FetchAttempts, cfg.FetchDelay, cfg.FetchTimeout)
	inventoryService := inventory.NewService(fetcher)

	// The pricing source is selected once, for the process lifetime, by
	// whether a CSFloat credential is present.
	var source valuation.PriceSource
	if cfg.HasCSFloat() {
		source = csfloat.NewService(cfg.CSFloatAPIKey, fetcher)
	} else {
		source = steammarket.NewService(fetcher)
	}
	logrus.WithField("source", source.Name()).Info("Pricing source selected")

	valuationService := valuation.NewService(inventoryService, source, prices, totals)

	// Reads filter expired rows already; the cron job reclaims space.
	if gormStore != nil {
		c := cron.New()
		_, err := c.AddFunc("@every 10m", func() {
			n, err := gormStore.PurgeExpired(context.Background())
			if err != nil {
				logrus.WithError(err).Warn("cache purge failed")
				return
			}
			if n > 0 {
				logrus.WithField("purged", n).Info("Purged expired cache entries")
			}
		})
		if err != nil {
			log.Fatal("Failed to schedule cache purge:", err)
		}
		c.Start()
	}

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	api.SetupRoutes(r, valuationService)

	// Start server
	logrus.WithField("port", cfg.Port).Info("Server starting")
	log.Fatal(r.Run(":" + cfg.Port))
}
