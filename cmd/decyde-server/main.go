package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/ross-mclain-br/decyde/pkg/decyde/auth"
	"github.com/ross-mclain-br/decyde/pkg/decyde/database"
	"github.com/ross-mclain-br/decyde/pkg/decyde/groups"
	"github.com/ross-mclain-br/decyde/pkg/decyde/invites"
	"github.com/ross-mclain-br/decyde/pkg/decyde/models"
	"github.com/ross-mclain-br/decyde/pkg/decyde/movies"
	"github.com/ross-mclain-br/decyde/pkg/decyde/omdb"
	"github.com/ross-mclain-br/decyde/pkg/decyde/votes"
)

// @title Decyde API
// @version 1.0
// @description A group movie-decision backend: form groups, invite members, vote on movies.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

type Config struct {
	Port        string `envconfig:"PORT" default:"8080"`
	DBPath      string `envconfig:"DECYDE_DB_PATH" default:"decyde.db"`
	OMDbAPIKey  string `envconfig:"OMDB_API_KEY"`
	OMDbBaseURL string `envconfig:"OMDB_BASE_URL" default:"https://www.omdbapi.com/"`
}

func main() {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	if err := database.Connect(cfg.DBPath); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "decyde",
			})
		})

		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB())
		authHandler.RegisterRoutes(api.Group("/auth"))

		authRequired := auth.AuthMiddleware()

		// Groups routes
		groupsHandler := groups.NewHandler(database.GetDB())
		groupsGroup := api.Group("/groups")
		groupsGroup.Use(authRequired)
		groupsHandler.RegisterRoutes(groupsGroup)
		groupsHandler.RegisterMemberRoutes(groupsGroup)

		// Invite routes, plus the per-group invite listing
		invitesHandler := invites.NewHandler(database.GetDB())
		invitesHandler.RegisterRoutes(api.Group("/invites", authRequired))
		invitesHandler.RegisterGroupRoutes(groupsGroup)

		// Vote routes, plus the per-group tally
		votesHandler := votes.NewHandler(database.GetDB())
		votesHandler.RegisterRoutes(api.Group("/votes", authRequired))
		votesHandler.RegisterGroupRoutes(groupsGroup)

		// Movie metadata search
		omdbClient := omdb.New(cfg.OMDbAPIKey, cfg.OMDbBaseURL)
		moviesHandler := movies.NewHandler(omdbClient)
		moviesHandler.RegisterRoutes(api.Group("/movies", authRequired))
	}

	log.Printf("Starting Decyde server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
