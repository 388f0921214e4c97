package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/foyezullahnishan/MovieAPI/config"
	"github.com/foyezullahnishan/MovieAPI/controller"
)

// Unprotected registers the routes reachable without a token.
func Unprotected(router *gin.Engine, client *mongo.Client, cfg config.Config) {
	auth := router.Group("/api/auth")
	auth.POST("/register", controller.RegisterUser(client, cfg.DBName, cfg.JWTSecret))
	auth.POST("/login", controller.LoginUser(client, cfg.DBName, cfg.JWTSecret))
}
