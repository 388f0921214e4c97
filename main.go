package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/foyezullahnishan/MovieAPI/cache"
	"github.com/foyezullahnishan/MovieAPI/config"
	"github.com/foyezullahnishan/MovieAPI/database"
	"github.com/foyezullahnishan/MovieAPI/routes"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
	cfg := config.Load()

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Disconnect(client)

	if err := database.EnsureIndexes(client, cfg.DBName); err != nil {
		log.Fatal(err)
	}

	rdb := database.ConnectRedis(cfg.RedisAddr)
	movieCache := cache.New(rdb, 5*time.Minute)

	router := gin.Default()
	routes.Unprotected(router, client, cfg)
	routes.Protected(router, client, cfg, movieCache)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
