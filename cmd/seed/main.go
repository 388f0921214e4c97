// Command seed clears the catalog collections and repopulates them with a
// small consistent sample dataset, including back-references.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/foyezullahnishan/MovieAPI/config"
	"github.com/foyezullahnishan/MovieAPI/database"
	"github.com/foyezullahnishan/MovieAPI/models"
	"github.com/foyezullahnishan/MovieAPI/utils"
)

func intPtr(v int) *int { return &v }

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

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	db := client.Database(cfg.DBName)
	for _, name := range []string{"users", "movies", "directors", "actors", "genres"} {
		if err := db.Collection(name).Drop(ctx); err != nil {
			log.Fatal(err)
		}
	}
	log.Println("Data cleared...")

	// dropping a collection drops its indexes
	if err := database.EnsureIndexes(client, cfg.DBName); err != nil {
		log.Fatal(err)
	}

	seedUsers(ctx, db)
	directors := seedDirectors(ctx, db)
	actors := seedActors(ctx, db)
	genres := seedGenres(ctx, db)
	seedMovies(ctx, db, directors, actors, genres)

	log.Println("Database seeded successfully!")
}

func seedUsers(ctx context.Context, db *mongo.Database) {
	users := []struct {
		username, email, password, role string
	}{
		{"admin", "admin@example.com", "admin123", models.RoleAdmin},
		{"user", "user@example.com", "user123", models.RoleUser},
	}

	now := time.Now()
	docs := make([]interface{}, 0, len(users))
	for _, u := range users {
		hashed, err := utils.HashPassword(u.password)
		if err != nil {
			log.Fatal(err)
		}
		docs = append(docs, models.User{
			ID:        bson.NewObjectID(),
			Username:  u.username,
			Email:     u.email,
			Password:  hashed,
			Role:      u.role,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	if _, err := db.Collection("users").InsertMany(ctx, docs); err != nil {
		log.Fatal(err)
	}
	log.Println("Users seeded...")
}

func seedDirectors(ctx context.Context, db *mongo.Database) []models.Director {
	now := time.Now()
	directors := []models.Director{
		{Name: "Christopher Nolan", BirthYear: intPtr(1970), Bio: "British-American film director known for his innovative film direction."},
		{Name: "Steven Spielberg", BirthYear: intPtr(1946), Bio: "American film director, producer, and screenwriter."},
		{Name: "Greta Gerwig", BirthYear: intPtr(1983), Bio: "American actress, screenwriter, and director."},
	}
	docs := make([]interface{}, 0, len(directors))
	for i := range directors {
		directors[i].ID = bson.NewObjectID()
		directors[i].Movies = []bson.ObjectID{}
		directors[i].CreatedAt = now
		directors[i].UpdatedAt = now
		docs = append(docs, directors[i])
	}
	if _, err := db.Collection("directors").InsertMany(ctx, docs); err != nil {
		log.Fatal(err)
	}
	log.Println("Directors seeded...")
	return directors
}

func seedActors(ctx context.Context, db *mongo.Database) []models.Actor {
	now := time.Now()
	actors := []models.Actor{
		{Name: "Leonardo DiCaprio", BirthYear: intPtr(1974), Bio: "American actor and film producer."},
		{Name: "Tom Hanks", BirthYear: intPtr(1956), Bio: "American actor and filmmaker."},
		{Name: "Saoirse Ronan", BirthYear: intPtr(1994), Bio: "Irish and American actress."},
	}
	docs := make([]interface{}, 0, len(actors))
	for i := range actors {
		actors[i].ID = bson.NewObjectID()
		actors[i].Movies = []bson.ObjectID{}
		actors[i].CreatedAt = now
		actors[i].UpdatedAt = now
		docs = append(docs, actors[i])
	}
	if _, err := db.Collection("actors").InsertMany(ctx, docs); err != nil {
		log.Fatal(err)
	}
	log.Println("Actors seeded...")
	return actors
}

func seedGenres(ctx context.Context, db *mongo.Database) []models.Genre {
	now := time.Now()
	genres := []models.Genre{
		{Name: "Science Fiction", Description: "Fiction based on scientific facts and principles"},
		{Name: "Drama", Description: "Fiction focused on realistic characters dealing with emotional themes"},
		{Name: "Comedy", Description: "Fiction intended to be humorous or amusing"},
	}
	docs := make([]interface{}, 0, len(genres))
	for i := range genres {
		genres[i].ID = bson.NewObjectID()
		genres[i].Movies = []bson.ObjectID{}
		genres[i].CreatedAt = now
		genres[i].UpdatedAt = now
		docs = append(docs, genres[i])
	}
	if _, err := db.Collection("genres").InsertMany(ctx, docs); err != nil {
		log.Fatal(err)
	}
	log.Println("Genres seeded...")
	return genres
}

func seedMovies(ctx context.Context, db *mongo.Database, directors []models.Director, actors []models.Actor, genres []models.Genre) {
	now := time.Now()
	movies := []models.Movie{
		{
			Title:       "Inception",
			ReleaseYear: 2010,
			Plot:        "A thief who steals corporate secrets through dream-sharing technology is given the task of planting an idea in a CEO's mind.",
			Runtime:     148,
			Director:    directors[0].ID,
			Actors:      []bson.ObjectID{actors[0].ID},
			Genres:      []bson.ObjectID{genres[0].ID, genres[1].ID},
			Poster:      "inception.jpg",
		},
		{
			Title:       "Saving Private Ryan",
			ReleaseYear: 1998,
			Plot:        "Following the Normandy Landings, a group of U.S. soldiers go behind enemy lines to retrieve a paratrooper whose brothers have been killed in action.",
			Runtime:     169,
			Director:    directors[1].ID,
			Actors:      []bson.ObjectID{actors[1].ID},
			Genres:      []bson.ObjectID{genres[1].ID},
			Poster:      "saving-private-ryan.jpg",
		},
		{
			Title:       "Little Women",
			ReleaseYear: 2019,
			Plot:        "Jo March reflects back and forth on her life, telling the beloved story of the March sisters - four young women, each determined to live life on her own terms.",
			Runtime:     135,
			Director:    directors[2].ID,
			Actors:      []bson.ObjectID{actors[2].ID},
			Genres:      []bson.ObjectID{genres[1].ID, genres[2].ID},
			Poster:      "little-women.jpg",
		},
	}

	for _, movie := range movies {
		movie.ID = bson.NewObjectID()
		movie.CreatedAt = now
		movie.UpdatedAt = now

		if _, err := db.Collection("movies").InsertOne(ctx, movie); err != nil {
			log.Fatal(err)
		}

		if _, err := db.Collection("directors").UpdateOne(ctx,
			bson.M{"_id": movie.Director},
			bson.M{"$push": bson.M{"movies": movie.ID}}); err != nil {
			log.Fatal(err)
		}
		if len(movie.Actors) > 0 {
			if _, err := db.Collection("actors").UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": movie.Actors}},
				bson.M{"$push": bson.M{"movies": movie.ID}}); err != nil {
				log.Fatal(err)
			}
		}
		if len(movie.Genres) > 0 {
			if _, err := db.Collection("genres").UpdateMany(ctx,
				bson.M{"_id": bson.M{"$in": movie.Genres}},
				bson.M{"$push": bson.M{"movies": movie.ID}}); err != nil {
				log.Fatal(err)
			}
		}
	}
	log.Println("Movies seeded...")
}
