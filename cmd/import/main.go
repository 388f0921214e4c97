// Command import populates the catalog from the TMDB popular-movies feed.
// Directors, actors and genres are deduplicated by name; movies already
// present (by title) are skipped. Requires TMDB_API_KEY.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/foyezullahnishan/MovieAPI/config"
	"github.com/foyezullahnishan/MovieAPI/database"
	"github.com/foyezullahnishan/MovieAPI/models"
)

const tmdbBaseURL = "https://api.themoviedb.org/3"

type tmdbClient struct {
	apiKey string
	http   *http.Client
}

type tmdbListMovie struct {
	ID int `json:"id"`
}

type tmdbPerson struct {
	Name      string `json:"name"`
	Job       string `json:"job"`
	Character string `json:"character"`
}

type tmdbDetails struct {
	Title       string `json:"title"`
	Overview    string `json:"overview"`
	Runtime     int    `json:"runtime"`
	ReleaseDate string `json:"release_date"`
	PosterPath  string `json:"poster_path"`
	Genres      []struct {
		Name string `json:"name"`
	} `json:"genres"`
	Credits struct {
		Cast []tmdbPerson `json:"cast"`
		Crew []tmdbPerson `json:"crew"`
	} `json:"credits"`
}

func (t *tmdbClient) get(path string, params url.Values, out interface{}) error {
	params.Set("api_key", t.apiKey)
	resp, err := t.http.Get(tmdbBaseURL + path + "?" + params.Encode())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tmdb: unexpected status %s for %s", resp.Status, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (t *tmdbClient) popular(page int) ([]tmdbListMovie, error) {
	var result struct {
		Results []tmdbListMovie `json:"results"`
	}
	params := url.Values{"page": {strconv.Itoa(page)}}
	if err := t.get("/movie/popular", params, &result); err != nil {
		return nil, err
	}
	return result.Results, nil
}

func (t *tmdbClient) details(movieID int) (*tmdbDetails, error) {
	var details tmdbDetails
	params := url.Values{"append_to_response": {"credits"}}
	if err := t.get("/movie/"+strconv.Itoa(movieID), params, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

type importer struct {
	db *mongo.Database
}

// ensureDirector returns the id of the director with that name, creating it
// if absent.
func (imp *importer) ensureDirector(ctx context.Context, name, movieTitle string) (bson.ObjectID, error) {
	coll := imp.db.Collection("directors")

	var existing models.Director
	err := coll.FindOne(ctx, bson.M{"name": name}).Decode(&existing)
	if err == nil {
		return existing.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return bson.ObjectID{}, err
	}

	now := time.Now()
	director := models.Director{
		ID:        bson.NewObjectID(),
		Name:      name,
		Bio:       fmt.Sprintf("Director known for their work on %s.", movieTitle),
		Movies:    []bson.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := coll.InsertOne(ctx, director); err != nil {
		return bson.ObjectID{}, err
	}
	log.Println("Director created:", name)
	return director.ID, nil
}

func (imp *importer) ensureActor(ctx context.Context, person tmdbPerson, movieTitle string) (bson.ObjectID, error) {
	coll := imp.db.Collection("actors")

	var existing models.Actor
	err := coll.FindOne(ctx, bson.M{"name": person.Name}).Decode(&existing)
	if err == nil {
		return existing.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return bson.ObjectID{}, err
	}

	now := time.Now()
	actor := models.Actor{
		ID:        bson.NewObjectID(),
		Name:      person.Name,
		Bio:       fmt.Sprintf("Actor known for playing %s in %s.", person.Character, movieTitle),
		Movies:    []bson.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := coll.InsertOne(ctx, actor); err != nil {
		return bson.ObjectID{}, err
	}
	log.Println("Actor created:", person.Name)
	return actor.ID, nil
}

func (imp *importer) ensureGenre(ctx context.Context, name string) (bson.ObjectID, error) {
	coll := imp.db.Collection("genres")

	var existing models.Genre
	err := coll.FindOne(ctx, bson.M{"name": name}).Decode(&existing)
	if err == nil {
		return existing.ID, nil
	}
	if err != mongo.ErrNoDocuments {
		return bson.ObjectID{}, err
	}

	now := time.Now()
	genre := models.Genre{
		ID:          bson.NewObjectID(),
		Name:        name,
		Description: fmt.Sprintf("Movies categorized as %s.", name),
		Movies:      []bson.ObjectID{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := coll.InsertOne(ctx, genre); err != nil {
		return bson.ObjectID{}, err
	}
	log.Println("Genre created:", name)
	return genre.ID, nil
}

// saveMovie inserts the movie and maintains back-references, skipping
// titles already present.
func (imp *importer) saveMovie(ctx context.Context, details *tmdbDetails, directorID bson.ObjectID, actorIDs, genreIDs []bson.ObjectID) error {
	coll := imp.db.Collection("movies")

	count, err := coll.CountDocuments(ctx, bson.M{"title": details.Title})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Movie already exists:", details.Title)
		return nil
	}

	releaseYear := 0
	if t, err := time.Parse("2006-01-02", details.ReleaseDate); err == nil {
		releaseYear = t.Year()
	}

	poster := models.DefaultPoster
	if details.PosterPath != "" {
		poster = "https://image.tmdb.org/t/p/w500" + details.PosterPath
	}

	now := time.Now()
	movie := models.Movie{
		ID:          bson.NewObjectID(),
		Title:       details.Title,
		ReleaseYear: releaseYear,
		Plot:        details.Overview,
		Runtime:     details.Runtime,
		Director:    directorID,
		Actors:      actorIDs,
		Genres:      genreIDs,
		Poster:      poster,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := coll.InsertOne(ctx, movie); err != nil {
		return err
	}
	log.Println("Movie created:", movie.Title)

	if _, err := imp.db.Collection("directors").UpdateOne(ctx,
		bson.M{"_id": directorID},
		bson.M{"$push": bson.M{"movies": movie.ID}}); err != nil {
		return err
	}
	if len(actorIDs) > 0 {
		if _, err := imp.db.Collection("actors").UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": actorIDs}},
			bson.M{"$push": bson.M{"movies": movie.ID}}); err != nil {
			return err
		}
	}
	if len(genreIDs) > 0 {
		if _, err := imp.db.Collection("genres").UpdateMany(ctx,
			bson.M{"_id": bson.M{"$in": genreIDs}},
			bson.M{"$push": bson.M{"movies": movie.ID}}); err != nil {
			return err
		}
	}
	return nil
}

func (imp *importer) importMovie(ctx context.Context, tmdb *tmdbClient, movieID int) (bool, error) {
	details, err := tmdb.details(movieID)
	if err != nil {
		log.Println("skipping movie:", err)
		return false, nil
	}

	var directorName string
	for _, person := range details.Credits.Crew {
		if person.Job == "Director" {
			directorName = person.Name
			break
		}
	}
	if directorName == "" {
		log.Printf("No director found for %s, skipping", details.Title)
		return false, nil
	}

	directorID, err := imp.ensureDirector(ctx, directorName, details.Title)
	if err != nil {
		return false, err
	}

	cast := details.Credits.Cast
	if len(cast) > 5 {
		cast = cast[:5]
	}
	actorIDs := make([]bson.ObjectID, 0, len(cast))
	for _, person := range cast {
		id, err := imp.ensureActor(ctx, person, details.Title)
		if err != nil {
			return false, err
		}
		actorIDs = append(actorIDs, id)
	}

	genreIDs := make([]bson.ObjectID, 0, len(details.Genres))
	for _, g := range details.Genres {
		id, err := imp.ensureGenre(ctx, g.Name)
		if err != nil {
			return false, err
		}
		genreIDs = append(genreIDs, id)
	}

	if err := imp.saveMovie(ctx, details, directorID, actorIDs, genreIDs); err != nil {
		return false, err
	}
	return true, nil
}

func main() {
	count := flag.Int("count", 20, "number of movies to import")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}
	cfg := config.Load()

	apiKey := os.Getenv("TMDB_API_KEY")
	if apiKey == "" {
		log.Fatal("missing required env var: TMDB_API_KEY")
	}

	client, err := database.Connect(cfg.MongoURI)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Disconnect(client)

	tmdb := &tmdbClient{apiKey: apiKey, http: &http.Client{Timeout: 30 * time.Second}}
	imp := &importer{db: client.Database(cfg.DBName)}

	ctx := context.Background()
	processed := 0
	for page := 1; processed < *count; page++ {
		movies, err := tmdb.popular(page)
		if err != nil {
			log.Fatal(err)
		}
		if len(movies) == 0 {
			break
		}
		for _, m := range movies {
			if processed >= *count {
				break
			}
			ok, err := imp.importMovie(ctx, tmdb, m.ID)
			if err != nil {
				log.Fatal(err)
			}
			if ok {
				processed++
				log.Printf("Processed %d/%d movies", processed, *count)
			}
		}
	}
	log.Printf("Successfully imported %d movies", processed)
}
