package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️ Warning: .env file not found, using system environment variables")
	}
}

func main() {

	// Load .env variables
	LoadEnv()

	if os.Getenv("JWT_SECRET") == "" {
		log.Println("⚠️ JWT_SECRET is missing — falling back to an insecure default")
	}

	// Connect DB
	InitDB()

	// Uploads directory
	InitUploadDir()

	// Start Gin
	r := gin.Default()

	// CORS
	r.Use(CORSMiddleware())

	// Routes
	SetupRoutes(r)

	// Start server
	port := listenPort()
	log.Println("🚀 Server running on http://localhost:" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
