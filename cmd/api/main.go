package main

import (
	"database/sql"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"creaturegrove-backend/internal/config"
	"creaturegrove-backend/internal/handlers"
	"creaturegrove-backend/internal/middleware"
	"creaturegrove-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisService.Close()

	jwtService := services.NewJWTService(cfg.JWTSecret)
	wordSigner := services.NewSigner(cfg.WordGameSecret)
	gameSigner := services.NewSigner(cfg.GameSecret)

	membershipService := services.NewMembershipService(db)
	rewardService := services.NewRewardService(db, redisService, gameSigner)
	claimService := services.NewClaimService(db, redisService, membershipService)
	wheelService := services.NewWheelService(db, redisService, membershipService)
	buttonService := services.NewMagicButtonService(db, redisService)
	wordService := services.NewWordService(redisService, rewardService, membershipService, wordSigner)
	snakeService := services.NewSnakeService(rewardService)

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			wordService.Cleanup()
		}
	}()

	userHandler := handlers.NewUserHandler(rewardService, membershipService)
	wordHandler := handlers.NewWordHandler(wordService, rewardService)
	claimHandler := handlers.NewClaimHandler(claimService, rewardService)
	wheelHandler := handlers.NewWheelHandler(wheelService)
	buttonHandler := handlers.NewMagicButtonHandler(buttonService)
	snakeHandler := handlers.NewSnakeHandler(snakeService, jwtService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Session-Signature")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// The snake socket authenticates itself via the first frame.
	router.GET("/ws/snake", snakeHandler.HandleWebSocket)

	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(redisService))
	{
		protected.GET("/me", userHandler.Profile)
		protected.GET("/me/balance", userHandler.Balance)
		protected.GET("/me/membership", userHandler.Membership)

		word := protected.Group("/word")
		{
			word.POST("/new", wordHandler.NewGame)
			word.POST("/guess", wordHandler.Guess)
			word.GET("/refresh", wordHandler.Refresh)
			word.GET("/active", wordHandler.ActiveGame)
			word.GET("/cooldown", wordHandler.CooldownStatus)
			word.GET("/leaderboard", wordHandler.Leaderboard)
			word.GET("/my-stats", wordHandler.MyStats)
		}

		games := protected.Group("/games")
		{
			games.POST("/session", claimHandler.CreateGameSession)
			games.POST("/reward", claimHandler.GameReward)
			games.POST("/scroll-reward", claimHandler.ScrollReward)
		}

		protected.POST("/claim", claimHandler.Claim)
		protected.POST("/claim/reset-streak", claimHandler.ResetStreak)
		protected.GET("/claim/status", claimHandler.Status)

		wheel := protected.Group("/wheel")
		{
			wheel.POST("/spin", wheelHandler.Spin)
			wheel.GET("/cooldown", wheelHandler.Cooldown)
		}

		protected.POST("/magic-button", buttonHandler.Press)
	}

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
