package main

import (
	"log"
	"os"

	"decisionshub/internal/db"
	"decisionshub/internal/router"
	"decisionshub/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// 初始化异步采纳任务执行器（连 NATS 或降级为进程内执行）
	services.GetAcceptanceRunner()

	// Initialize Gin
	r := gin.Default()

	tokens := services.NewTokenManager()
	router.RegisterRoutes(r, tokens)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("DecisionsHub server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
