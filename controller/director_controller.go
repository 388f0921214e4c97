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

// GetDirectors returns all directors sorted by name.
func GetDirectors(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		cursor, err := collection(client, dbName, "directors").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch directors"})
			return
		}
		defer cursor.Close(ctx)

		var directors []models.Director
		if err := cursor.All(ctx, &directors); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode directors"})
			return
		}
		if directors == nil {
			directors = []models.Director{}
		}
		c.JSON(http.StatusOK, directors)
	}
}

func GetDirectorByID(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Director not found"})
			return
		}

		var director models.Director
		err = collection(client, dbName, "directors").FindOne(ctx, bson.M{"_id": id}).Decode(&director)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Director not found"})
			return
		}
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch director"})
			return
		}
		c.JSON(http.StatusOK, director)
	}
}

// GetDirectorMovies returns the director's movies sorted by release year
// descending, with references resolved to names.
func GetDirectorMovies(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Director not found"})
			return
		}

		count, err := collection(client, dbName, "directors").CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch director"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Director not found"})
			return
		}

		listMoviesFor(ctx, c, client, dbName, bson.M{"director": id})
	}
}

func CreateDirector(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var input models.PersonInput
		if err := c.ShouldBindJSON(&input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid director data"})
			return
		}
		if err := validator.New().Struct(input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid director data"})
			return
		}

		now := time.Now()
		director := models.Director{
			ID:        bson.NewObjectID(),
			Name:      strings.TrimSpace(input.Name),
			BirthYear: input.BirthYear,
			Bio:       input.Bio,
			Movies:    []bson.ObjectID{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := collection(client, dbName, "directors").InsertOne(ctx, director); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create director"})
			return
		}
		c.JSON(http.StatusCreated, director)
	}
}

// UpdateDirector applies a partial update. Cached movie pages embed the
// director's name, so a successful update drops them.
func UpdateDirector(client *mongo.Client, dbName string, movieCache *cache.MovieCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Director not found"})
			return
		}

		directorColl := collection(client, dbName, "directors")

		var director models.Director
		err = directorColl.FindOne(ctx, bson.M{"_id": id}).Decode(&director)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Director not found"})
			return
		}
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update director"})
			return
		}

		var patch models.PersonPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid director data"})
			return
		}

		if patch.Name != nil {
			director.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.BirthYear != nil {
			director.BirthYear = patch.BirthYear
		}
		if patch.Bio != nil {
			director.Bio = *patch.Bio
		}
		director.UpdatedAt = time.Now()

		if _, err := directorColl.ReplaceOne(ctx, bson.M{"_id": director.ID}, director); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update director"})
			return
		}

		movieCache.Invalidate(ctx)
		c.JSON(http.StatusOK, director)
	}
}

// DeleteDirector refuses to delete a director who is still referenced by any
// movie.
func DeleteDirector(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Director not found"})
			return
		}

		referenced, err := collection(client, dbName, "movies").CountDocuments(ctx, bson.M{"director": id})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete director"})
			return
		}
		if referenced > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete director that is associated with movies"})
			return
		}

		result, err := collection(client, dbName, "directors").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete director"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Director not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Director removed"})
	}
}
