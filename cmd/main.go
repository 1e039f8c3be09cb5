package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"researchhub/config"
	"researchhub/jobs"
	"researchhub/routes"
	"researchhub/utils"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	// Load .env file with proper path handling (do this BEFORE config.LoadConfig)
	loadEnvFile()

	// Initialize configuration
	config.LoadConfig()
	cfg := config.AppConfig

	utils.InitLogger()

	// Initialize MongoDB client
	ctx, cancel := config.CreateContext(10 * time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	// Create separate context for disconnection
	defer func() {
		disconnectCtx, disconnectCancel := config.CreateContext(5 * time.Second)
		defer disconnectCancel()
		if err = mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Printf("Failed to disconnect MongoDB: %v", err)
		}
	}()

	// Verify MongoDB connection
	if err = mongoClient.Ping(ctx, nil); err != nil {
		log.Fatalf("Failed to ping MongoDB: %v", err)
	}

	log.Println("Connected to MongoDB successfully")

	// Initialize services container
	serviceContainer := routes.NewServiceContainer(
		mongoClient.Database(cfg.DatabaseName),
		cfg.JWTSecret,
		cfg.JWTExpiration,
		cfg.OTPExpiry,
	)

	// Set up Gin router
	router := gin.Default()

	router.Use(corsMiddleware(cfg.AllowedOrigins))

	// Set up API routes
	api := router.Group("/api")
	routes.SetupRoutesWithContainer(api, serviceContainer)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})

	// Start the cron job that purges expired one-time codes
	if cfg.ExpiryCleanupInterval > 0 {
		cleaner := jobs.NewExpiryCleaner(serviceContainer.OTPService, cfg.ExpiryCleanupInterval)
		go cleaner.Start()
		log.Printf("Started expiry cleaner job running every %v", cfg.ExpiryCleanupInterval)
	}

	// Start the server
	log.Printf("Starting ResearchHub server on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// loadEnvFile handles loading .env file from multiple possible locations
func loadEnvFile() {
	pwd, err := os.Getwd()
	if err != nil {
		log.Printf("Could not get working directory: %v", err)
		return
	}

	// Define possible .env file locations
	envPaths := []string{
		".env",
		"../.env",
		"cmd/../.env",
		filepath.Join(pwd, ".env"),
		filepath.Join(filepath.Dir(pwd), ".env"),
	}

	loaded := false
	for _, envPath := range envPaths {
		if _, err := os.Stat(envPath); err == nil {
			if err := godotenv.Load(envPath); err == nil {
				absPath, _ := filepath.Abs(envPath)
				log.Printf("Loaded environment variables from: %s", absPath)
				loaded = true
				break
			}
		}
	}

	if !loaded {
		log.Println("No .env file found in any expected location, using system environment variables")
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestOrigin := c.Request.Header.Get("Origin")

		var allowOrigin string

		// If no allowed origins specified, allow all
		if len(allowedOrigins) == 0 {
			allowOrigin = "*"
		} else {
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" {
					allowOrigin = "*"
					break
				} else if allowedOrigin == requestOrigin {
					allowOrigin = requestOrigin
					break
				}
			}

			if allowOrigin == "" {
				if requestOrigin == "" {
					// No origin header (like from Postman), use first allowed
					allowOrigin = allowedOrigins[0]
				} else {
					allowOrigin = "null"
				}
			}
		}

		// Set CORS headers
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Max-Age", "86400") // Cache preflight for 24 hours

		// Handle preflight requests
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
