package controller

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
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

const moviePageSize = 10

// GetMovies returns one page of movies sorted by creation time descending,
// references resolved to names. Pages are served from the cache when warm.
func GetMovies(client *mongo.Client, dbName string, movieCache *cache.MovieCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		page, _ := strconv.Atoi(c.Query("page"))
		if page < 1 {
			page = 1
		}

		if body, ok := movieCache.GetPage(ctx, page); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			return
		}

		movieColl := collection(client, dbName, "movies")

		total, err := movieColl.CountDocuments(ctx, bson.M{})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch movies"})
			return
		}

		findOpts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(moviePageSize).
			SetSkip(int64(moviePageSize * (page - 1)))

		cursor, err := movieColl.Find(ctx, bson.M{}, findOpts)
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

		response := models.MoviePage{
			Movies: summaries,
			Page:   page,
			Pages:  int((total + moviePageSize - 1) / moviePageSize),
			Total:  total,
		}

		body, err := json.Marshal(response)
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch movies"})
			return
		}
		movieCache.SetPage(ctx, page, body)
		c.Data(http.StatusOK, "application/json; charset=utf-8", body)
	}
}

// GetMovieByID returns one movie with references resolved to the extended
// display subsets.
func GetMovieByID(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
			return
		}

		var movie models.Movie
		err = collection(client, dbName, "movies").FindOne(ctx, bson.M{"_id": id}).Decode(&movie)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
			return
		}
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch movie"})
			return
		}

		detail, err := buildMovieDetail(ctx, client, dbName, movie)
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch movie"})
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

// CreateMovie inserts a movie and pushes its id onto the referenced
// director's, actors' and genres' movie lists. The pushes are separate
// writes; a failure after the insert surfaces as a 500 without rollback.
func CreateMovie(client *mongo.Client, dbName string, movieCache *cache.MovieCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var input models.MovieInput
		if err := c.ShouldBindJSON(&input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid movie data"})
			return
		}
		if err := validator.New().Struct(input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid movie data"})
			return
		}

		directorID, err := bson.ObjectIDFromHex(input.Director)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid movie data"})
			return
		}
		actorIDs, err := parseObjectIDs(input.Actors)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid movie data"})
			return
		}
		genreIDs, err := parseObjectIDs(input.Genres)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid movie data"})
			return
		}

		// The schema cannot enforce that the director exists, so the
		// controller does.
		count, err := collection(client, dbName, "directors").CountDocuments(ctx, bson.M{"_id": directorID})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create movie"})
			return
		}
		if count == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid movie data"})
			return
		}

		now := time.Now()
		movie := models.Movie{
			ID:          bson.NewObjectID(),
			Title:       strings.TrimSpace(input.Title),
			ReleaseYear: input.ReleaseYear,
			Plot:        input.Plot,
			Runtime:     input.Runtime,
			Director:    directorID,
			Actors:      actorIDs,
			Genres:      genreIDs,
			Poster:      input.Poster,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if movie.Poster == "" {
			movie.Poster = models.DefaultPoster
		}

		if _, err := collection(client, dbName, "movies").InsertOne(ctx, movie); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create movie"})
			return
		}

		if err := pushMovieRefs(ctx, client, dbName, movie); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create movie"})
			return
		}

		movieCache.Invalidate(ctx)
		c.JSON(http.StatusCreated, movie)
	}
}

// UpdateMovie applies a partial update. A changed director reference is
// reconciled on both the old and new director's movie lists; actor and genre
// lists are replaced without touching their back-references, matching the
// create/delete asymmetry of the existing data model.
func UpdateMovie(client *mongo.Client, dbName string, movieCache *cache.MovieCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
			return
		}

		movieColl := collection(client, dbName, "movies")

		var movie models.Movie
		err = movieColl.FindOne(ctx, bson.M{"_id": id}).Decode(&movie)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
			return
		}
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update movie"})
			return
		}

		var patch models.MoviePatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid movie data"})
			return
		}

		// Parse every reference up front so a malformed id cannot leave the
		// director swap below half applied.
		var newActors, newGenres []bson.ObjectID
		if patch.Actors != nil {
			newActors, err = parseObjectIDs(*patch.Actors)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid movie data"})
				return
			}
		}
		if patch.Genres != nil {
			newGenres, err = parseObjectIDs(*patch.Genres)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid movie data"})
				return
			}
		}

		if patch.Director != nil {
			newDirector, err := bson.ObjectIDFromHex(*patch.Director)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid movie data"})
				return
			}
			if newDirector != movie.Director {
				directorColl := collection(client, dbName, "directors")
				_, err = directorColl.UpdateOne(ctx,
					bson.M{"_id": movie.Director},
					bson.M{"$pull": bson.M{"movies": movie.ID}})
				if err != nil {
					log.Println(err)
					c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update movie"})
					return
				}
				_, err = directorColl.UpdateOne(ctx,
					bson.M{"_id": newDirector},
					bson.M{"$push": bson.M{"movies": movie.ID}})
				if err != nil {
					log.Println(err)
					c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update movie"})
					return
				}
				movie.Director = newDirector
			}
		}

		if patch.Title != nil {
			movie.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.ReleaseYear != nil {
			movie.ReleaseYear = *patch.ReleaseYear
		}
		if patch.Plot != nil {
			movie.Plot = *patch.Plot
		}
		if patch.Runtime != nil {
			movie.Runtime = *patch.Runtime
		}
		if patch.Actors != nil {
			movie.Actors = newActors
		}
		if patch.Genres != nil {
			movie.Genres = newGenres
		}
		if patch.Poster != nil {
			movie.Poster = *patch.Poster
		}
		movie.UpdatedAt = time.Now()

		if _, err := movieColl.ReplaceOne(ctx, bson.M{"_id": movie.ID}, movie); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update movie"})
			return
		}

		movieCache.Invalidate(ctx)
		c.JSON(http.StatusOK, movie)
	}
}

// DeleteMovie pulls the movie id out of every referenced back-reference list
// and then removes the movie. The sequence is not transactional; any store
// error surfaces as a 500.
func DeleteMovie(client *mongo.Client, dbName string, movieCache *cache.MovieCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		id, err := bson.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
			return
		}

		movieColl := collection(client, dbName, "movies")

		var movie models.Movie
		err = movieColl.FindOne(ctx, bson.M{"_id": id}).Decode(&movie)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
			return
		}
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete movie"})
			return
		}

		if err := pullMovieRefs(ctx, client, dbName, movie); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete movie"})
			return
		}

		if _, err := movieColl.DeleteOne(ctx, bson.M{"_id": movie.ID}); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete movie"})
			return
		}

		movieCache.Invalidate(ctx)
		c.JSON(http.StatusOK, gin.H{"message": "Movie removed"})
	}
}

// pushMovieRefs adds the movie id to the back-reference list of every
// referenced document.
func pushMovieRefs(ctx context.Context, client *mongo.Client, dbName string, movie models.Movie) error {
	_, err := collection(client, dbName, "directors").UpdateOne(ctx,
		bson.M{"_id": movie.Director},
		bson.M{"$push": bson.M{"movies": movie.ID}})
	if err != nil {
		return err
	}

	if len(movie.Actors) > 0 {
		_, err = collection(client, dbName, "actors").UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": movie.Actors}},
			bson.M{"$push": bson.M{"movies": movie.ID}})
		if err != nil {
			return err
		}
	}

	if len(movie.Genres) > 0 {
		_, err = collection(client, dbName, "genres").UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": movie.Genres}},
			bson.M{"$push": bson.M{"movies": movie.ID}})
		if err != nil {
			return err
		}
	}
	return nil
}

// pullMovieRefs removes the movie id from every referenced back-reference
// list.
func pullMovieRefs(ctx context.Context, client *mongo.Client, dbName string, movie models.Movie) error {
	_, err := collection(client, dbName, "directors").UpdateOne(ctx,
		bson.M{"_id": movie.Director},
		bson.M{"$pull": bson.M{"movies": movie.ID}})
	if err != nil {
		return err
	}

	if len(movie.Actors) > 0 {
		_, err = collection(client, dbName, "actors").UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": movie.Actors}},
			bson.M{"$pull": bson.M{"movies": movie.ID}})
		if err != nil {
			return err
		}
	}

	if len(movie.Genres) > 0 {
		_, err = collection(client, dbName, "genres").UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": movie.Genres}},
			bson.M{"$pull": bson.M{"movies": movie.ID}})
		if err != nil {
			return err
		}
	}
	return nil
}
