package controller

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/foyezullahnishan/MovieAPI/models"
)

// namedDoc is the projection used when resolving references to names.
type namedDoc struct {
	ID   bson.ObjectID `bson:"_id"`
	Name string        `bson:"name"`
}

// loadNames fetches the name of every referenced document in one query.
// Unknown ids are simply absent from the map.
func loadNames(ctx context.Context, coll *mongo.Collection, ids []bson.ObjectID) (map[bson.ObjectID]string, error) {
	names := make(map[bson.ObjectID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	cursor, err := coll.Find(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"name": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []namedDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	for _, d := range docs {
		names[d.ID] = d.Name
	}
	return names, nil
}

// buildMovieSummaries resolves director/actor/genre references to name
// subsets for a batch of movies, one query per collection.
func buildMovieSummaries(ctx context.Context, client *mongo.Client, dbName string, movies []models.Movie) ([]models.MovieSummary, error) {
	var directorIDs, actorIDs, genreIDs []bson.ObjectID
	for _, m := range movies {
		if !containsID(directorIDs, m.Director) {
			directorIDs = append(directorIDs, m.Director)
		}
		for _, id := range m.Actors {
			if !containsID(actorIDs, id) {
				actorIDs = append(actorIDs, id)
			}
		}
		for _, id := range m.Genres {
			if !containsID(genreIDs, id) {
				genreIDs = append(genreIDs, id)
			}
		}
	}

	directorNames, err := loadNames(ctx, collection(client, dbName, "directors"), directorIDs)
	if err != nil {
		return nil, err
	}
	actorNames, err := loadNames(ctx, collection(client, dbName, "actors"), actorIDs)
	if err != nil {
		return nil, err
	}
	genreNames, err := loadNames(ctx, collection(client, dbName, "genres"), genreIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.MovieSummary, 0, len(movies))
	for _, m := range movies {
		s := models.MovieSummary{
			ID:          m.ID,
			Title:       m.Title,
			ReleaseYear: m.ReleaseYear,
			Plot:        m.Plot,
			Runtime:     m.Runtime,
			Actors:      make([]models.PersonRef, 0, len(m.Actors)),
			Genres:      make([]models.GenreRef, 0, len(m.Genres)),
			Poster:      m.Poster,
			CreatedAt:   m.CreatedAt,
			UpdatedAt:   m.UpdatedAt,
		}
		if name, ok := directorNames[m.Director]; ok {
			s.Director = &models.PersonRef{ID: m.Director, Name: name}
		}
		for _, id := range m.Actors {
			if name, ok := actorNames[id]; ok {
				s.Actors = append(s.Actors, models.PersonRef{ID: id, Name: name})
			}
		}
		for _, id := range m.Genres {
			if name, ok := genreNames[id]; ok {
				s.Genres = append(s.Genres, models.GenreRef{ID: id, Name: name})
			}
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

// buildMovieDetail resolves references to the extended display subsets used
// by the single-movie response.
func buildMovieDetail(ctx context.Context, client *mongo.Client, dbName string, m models.Movie) (models.MovieDetail, error) {
	detail := models.MovieDetail{
		ID:          m.ID,
		Title:       m.Title,
		ReleaseYear: m.ReleaseYear,
		Plot:        m.Plot,
		Runtime:     m.Runtime,
		Actors:      make([]models.PersonDetail, 0, len(m.Actors)),
		Genres:      make([]models.GenreDetail, 0, len(m.Genres)),
		Poster:      m.Poster,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}

	var director models.Director
	err := collection(client, dbName, "directors").FindOne(ctx, bson.M{"_id": m.Director}).Decode(&director)
	if err == nil {
		detail.Director = &models.PersonDetail{
			ID:        director.ID,
			Name:      director.Name,
			BirthYear: director.BirthYear,
			Bio:       director.Bio,
		}
	} else if err != mongo.ErrNoDocuments {
		return detail, err
	}

	if len(m.Actors) > 0 {
		cursor, err := collection(client, dbName, "actors").Find(ctx, bson.M{"_id": bson.M{"$in": m.Actors}})
		if err != nil {
			return detail, err
		}
		var actors []models.Actor
		if err := cursor.All(ctx, &actors); err != nil {
			return detail, err
		}
		byID := make(map[bson.ObjectID]models.Actor, len(actors))
		for _, a := range actors {
			byID[a.ID] = a
		}
		for _, id := range m.Actors {
			if a, ok := byID[id]; ok {
				detail.Actors = append(detail.Actors, models.PersonDetail{
					ID:        a.ID,
					Name:      a.Name,
					BirthYear: a.BirthYear,
					Bio:       a.Bio,
				})
			}
		}
	}

	if len(m.Genres) > 0 {
		cursor, err := collection(client, dbName, "genres").Find(ctx, bson.M{"_id": bson.M{"$in": m.Genres}})
		if err != nil {
			return detail, err
		}
		var genres []models.Genre
		if err := cursor.All(ctx, &genres); err != nil {
			return detail, err
		}
		byID := make(map[bson.ObjectID]models.Genre, len(genres))
		for _, g := range genres {
			byID[g.ID] = g
		}
		for _, id := range m.Genres {
			if g, ok := byID[id]; ok {
				detail.Genres = append(detail.Genres, models.GenreDetail{
					ID:          g.ID,
					Name:        g.Name,
					Description: g.Description,
				})
			}
		}
	}

	return detail, nil
}
