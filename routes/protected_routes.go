package routes

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/foyezullahnishan/MovieAPI/cache"
	"github.com/foyezullahnishan/MovieAPI/config"
	"github.com/foyezullahnishan/MovieAPI/controller"
	mw "github.com/foyezullahnishan/MovieAPI/middlewares"
)

// Protected registers the token-guarded routes. Reads require any
// authenticated user; writes additionally require the admin role, enforced
// before any handler runs.
func Protected(router *gin.Engine, client *mongo.Client, cfg config.Config, movieCache *cache.MovieCache) {
	api := router.Group("/api")
	api.Use(mw.Authenticate(cfg.JWTSecret))

	api.GET("/auth/profile", controller.GetProfile(client, cfg.DBName))

	api.GET("/movies", controller.GetMovies(client, cfg.DBName, movieCache))
	api.GET("/movies/:id", controller.GetMovieByID(client, cfg.DBName))

	api.GET("/directors", controller.GetDirectors(client, cfg.DBName))
	api.GET("/directors/:id", controller.GetDirectorByID(client, cfg.DBName))
	api.GET("/directors/:id/movies", controller.GetDirectorMovies(client, cfg.DBName))

	api.GET("/actors", controller.GetActors(client, cfg.DBName))
	api.GET("/actors/:id", controller.GetActorByID(client, cfg.DBName))
	api.GET("/actors/:id/movies", controller.GetActorMovies(client, cfg.DBName))

	api.GET("/genres", controller.GetGenres(client, cfg.DBName))
	api.GET("/genres/:id", controller.GetGenreByID(client, cfg.DBName))
	api.GET("/genres/:id/movies", controller.GetGenreMovies(client, cfg.DBName))

	admin := api.Group("")
	admin.Use(mw.AdminOnly())

	admin.POST("/movies", controller.CreateMovie(client, cfg.DBName, movieCache))
	admin.PUT("/movies/:id", controller.UpdateMovie(client, cfg.DBName, movieCache))
	admin.DELETE("/movies/:id", controller.DeleteMovie(client, cfg.DBName, movieCache))

	admin.POST("/directors", controller.CreateDirector(client, cfg.DBName))
	admin.PUT("/directors/:id", controller.UpdateDirector(client, cfg.DBName, movieCache))
	admin.DELETE("/directors/:id", controller.DeleteDirector(client, cfg.DBName))

	admin.POST("/actors", controller.CreateActor(client, cfg.DBName))
	admin.PUT("/actors/:id", controller.UpdateActor(client, cfg.DBName, movieCache))
	admin.DELETE("/actors/:id", controller.DeleteActor(client, cfg.DBName))

	admin.POST("/genres", controller.CreateGenre(client, cfg.DBName))
	admin.PUT("/genres/:id", controller.UpdateGenre(client, cfg.DBName, movieCache))
	admin.DELETE("/genres/:id", controller.DeleteGenre(client, cfg.DBName))
}
