package controller

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/foyezullahnishan/MovieAPI/cache"
	"github.com/foyezullahnishan/MovieAPI/models"
)

// GetGenres returns all genres sorted by name.
func GetGenres(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		cursor, err := collection(client, dbName, "genres").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch genres"})
			return
		}
		defer cursor.Close(ctx)

		var genres []models.Genre
		if err := cursor.All(ctx, &genres); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode genres"})
			return
		}
		if genres == nil {
			genres = []models.Genre{}
		}
		c.JSON(http.StatusOK, genres)
	}
}

func GetGenreByID(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Genre not found"})
			return
		}

		var genre models.Genre
		err = collection(client, dbName, "genres").FindOne(ctx, bson.M{"_id": id}).Decode(&genre)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Genre not found"})
			return
		}
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch genre"})
			return
		}
		c.JSON(http.StatusOK, genre)
	}
}

// GetGenreMovies returns the movies tagged with the genre, sorted by release
// year descending.
func GetGenreMovies(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Genre not found"})
			return
		}

		count, err := collection(client, dbName, "genres").CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch genre"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Genre not found"})
			return
		}

		listMoviesFor(ctx, c, client, dbName, bson.M{"genres": id})
	}
}

// CreateGenre rejects a name already held by an existing genre.
func CreateGenre(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var input models.GenreInput
		if err := c.ShouldBindJSON(&input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid genre data"})
			return
		}
		if err := validator.New().Struct(input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid genre data"})
			return
		}

		name := strings.TrimSpace(input.Name)

		genreColl := collection(client, dbName, "genres")
		count, err := genreColl.CountDocuments(ctx, bson.M{"name": name})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create genre"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Genre already exists"})
			return
		}

		now := time.Now()
		genre := models.Genre{
			ID:          bson.NewObjectID(),
			Name:        name,
			Description: input.Description,
			Movies:      []bson.ObjectID{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if _, err := genreColl.InsertOne(ctx, genre); err != nil {
			// a concurrent create can slip past the count above; the unique
			// index on name is what actually holds the invariant
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Genre already exists"})
				return
			}
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create genre"})
			return
		}
		c.JSON(http.StatusCreated, genre)
	}
}

// UpdateGenre rejects a rename to a name held by a different genre. Cached
// movie pages embed the genre's name, so a successful update drops them.
func UpdateGenre(client *mongo.Client, dbName string, movieCache *cache.MovieCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Genre not found"})
			return
		}

		genreColl := collection(client, dbName, "genres")

		var genre models.Genre
		err = genreColl.FindOne(ctx, bson.M{"_id": id}).Decode(&genre)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Genre not found"})
			return
		}
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update genre"})
			return
		}

		var patch models.GenrePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid genre data"})
			return
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name != genre.Name {
				count, err := genreColl.CountDocuments(ctx, bson.M{
					"name": name,
					"_id":  bson.M{"$ne": genre.ID},
				})
				if err != nil {
					log.Println(err)
					c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update genre"})
					return
				}
				if count > 0 {
					c.JSON(http.StatusBadRequest, gin.H{"message": "Genre with that name already exists"})
					return
				}
			}
			genre.Name = name
		}
		if patch.Description != nil {
			genre.Description = *patch.Description
		}
		genre.UpdatedAt = time.Now()

		if _, err := genreColl.ReplaceOne(ctx, bson.M{"_id": genre.ID}, genre); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Genre with that name already exists"})
				return
			}
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update genre"})
			return
		}

		movieCache.Invalidate(ctx)
		c.JSON(http.StatusOK, genre)
	}
}

// DeleteGenre refuses to delete a genre still referenced by any movie.
func DeleteGenre(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Genre not found"})
			return
		}

		referenced, err := collection(client, dbName, "movies").CountDocuments(ctx, bson.M{"genres": id})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete genre"})
			return
		}
		if referenced > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete genre that is associated with movies"})
			return
		}

		result, err := collection(client, dbName, "genres").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete genre"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Genre not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Genre removed"})
	}
}
