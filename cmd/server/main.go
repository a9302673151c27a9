package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"restaurant_backend/internal/database"
	"restaurant_backend/internal/router"
	"restaurant_backend/pkg/utils"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	utils.InitLogger()

	dbCfg := database.Config{
		Host:     utils.Getenv("DB_HOST", "localhost"),
		Port:     utils.Getenv("DB_PORT", "5432"),
		User:     utils.Getenv("DB_USER", "restaurant_user"),
		Password: utils.Getenv("DB_PASSWORD", "restaurant_password"),
		Name:     utils.Getenv("DB_NAME", "restaurant_db"),
		SSLMode:  utils.Getenv("DB_SSLMODE", "disable"),
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		utils.LogError(err, "Failed to connect to database")
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	utils.LogInfo("Database connected", map[string]interface{}{"host": dbCfg.Host, "name": dbCfg.Name})

	if schemaPath := utils.Getenv("DB_SCHEMA_PATH", ""); schemaPath != "" {
		if err := database.ApplySchema(db, schemaPath); err != nil {
			utils.LogError(err, "Failed to apply database schema")
			log.Fatalf("Failed to apply database schema: %v", err)
		}
		utils.LogInfo("Database schema applied", map[string]interface{}{"path": schemaPath})
	}

	engine := gin.Default()
	engine.Use(utils.GinLogger())

	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:3001"}
	}

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowCredentials = true
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.Setup(engine, db)

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
