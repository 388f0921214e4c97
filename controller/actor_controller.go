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

// GetActors returns all actors sorted by name.
func GetActors(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		cursor, err := collection(client, dbName, "actors").Find(ctx, bson.M{},
			options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch actors"})
			return
		}
		defer cursor.Close(ctx)

		var actors []models.Actor
		if err := cursor.All(ctx, &actors); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode actors"})
			return
		}
		if actors == nil {
			actors = []models.Actor{}
		}
		c.JSON(http.StatusOK, actors)
	}
}

func GetActorByID(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Actor not found"})
			return
		}

		var actor models.Actor
		err = collection(client, dbName, "actors").FindOne(ctx, bson.M{"_id": id}).Decode(&actor)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Actor not found"})
			return
		}
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch actor"})
			return
		}
		c.JSON(http.StatusOK, actor)
	}
}

// GetActorMovies returns the movies whose actor list contains the id,
// sorted by release year descending.
func GetActorMovies(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Actor not found"})
			return
		}

		count, err := collection(client, dbName, "actors").CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch actor"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Actor not found"})
			return
		}

		listMoviesFor(ctx, c, client, dbName, bson.M{"actors": id})
	}
}

func CreateActor(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var input models.PersonInput
		if err := c.ShouldBindJSON(&input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid actor data"})
			return
		}
		if err := validator.New().Struct(input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid actor data"})
			return
		}

		now := time.Now()
		actor := models.Actor{
			ID:        bson.NewObjectID(),
			Name:      strings.TrimSpace(input.Name),
			BirthYear: input.BirthYear,
			Bio:       input.Bio,
			Movies:    []bson.ObjectID{},
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := collection(client, dbName, "actors").InsertOne(ctx, actor); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create actor"})
			return
		}
		c.JSON(http.StatusCreated, actor)
	}
}

// UpdateActor applies a partial update. Cached movie pages embed the actor's
// name, so a successful update drops them.
func UpdateActor(client *mongo.Client, dbName string, movieCache *cache.MovieCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Actor not found"})
			return
		}

		actorColl := collection(client, dbName, "actors")

		var actor models.Actor
		err = actorColl.FindOne(ctx, bson.M{"_id": id}).Decode(&actor)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Actor not found"})
			return
		}
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update actor"})
			return
		}

		var patch models.PersonPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid actor data"})
			return
		}

		if patch.Name != nil {
			actor.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.BirthYear != nil {
			actor.BirthYear = patch.BirthYear
		}
		if patch.Bio != nil {
			actor.Bio = *patch.Bio
		}
		actor.UpdatedAt = time.Now()

		if _, err := actorColl.ReplaceOne(ctx, bson.M{"_id": actor.ID}, actor); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update actor"})
			return
		}

		movieCache.Invalidate(ctx)
		c.JSON(http.StatusOK, actor)
	}
}

// DeleteActor refuses to delete an actor who is still referenced by any
// movie.
func DeleteActor(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Actor not found"})
			return
		}

		referenced, err := collection(client, dbName, "movies").CountDocuments(ctx, bson.M{"actors": id})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete actor"})
			return
		}
		if referenced > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Cannot delete actor that is associated with movies"})
			return
		}

		result, err := collection(client, dbName, "actors").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete actor"})
			return
		}
		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "Actor not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Actor removed"})
	}
}
