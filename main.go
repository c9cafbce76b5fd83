package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"assetdesk/cmd"
	"assetdesk/internal/container"
	"assetdesk/internal/database"
	"assetdesk/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	appLogger := logger.NewLogger()
	defer appLogger.Sync()

	app := container.NewAppContainer(db, appLogger)

	router := gin.Default()
	app.LoginHandler.RegisterRoutes(router)
	app.AssignmentHandler.RegisterRoutes(router)
	app.ImportHandler.RegisterRoutes(router)
	if app.SheetImportHandler != nil {
		app.SheetImportHandler.RegisterRoutes(router)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		panic(err)
	}
}
