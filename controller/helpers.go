package controller

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/foyezullahnishan/MovieAPI/models"
)

const requestTimeout = 20 * time.Second

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

func collection(client *mongo.Client, dbName, name string) *mongo.Collection {
	return client.Database(dbName).Collection(name)
}

// parseObjectIDs converts hex ids from a request body; a single bad id
// invalidates the whole batch.
func parseObjectIDs(hexIDs []string) ([]bson.ObjectID, error) {
	ids := make([]bson.ObjectID, 0, len(hexIDs))
	for _, h := range hexIDs {
		id, err := bson.ObjectIDFromHex(h)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// containsID reports whether id is in ids.
func containsID(ids []bson.ObjectID, id bson.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// listMoviesFor responds with the movies matching filter, sorted by release
// year descending, references resolved to names. Shared by the
// /:id/movies handlers.
func listMoviesFor(ctx context.Context, c *gin.Context, client *mongo.Client, dbName string, filter bson.M) {
	cursor, err := collection(client, dbName, "movies").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "releaseYear", Value: -1}}))
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch movies"})
		return
	}
	defer cursor.Close(ctx)

	var movies []models.Movie
	if err := cursor.All(ctx, &movies); err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to decode movies"})
		return
	}

	summaries, err := buildMovieSummaries(ctx, client, dbName, movies)
	if err != nil {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch movies"})
		return
	}
	c.JSON(http.StatusOK, summaries)
}
