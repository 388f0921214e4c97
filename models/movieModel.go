package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// DefaultPoster is stored when a movie is created without a poster.
const DefaultPoster = "no-image.jpg"

type Movie struct {
	ID          bson.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Title       string          `json:"title" bson:"title"`
	ReleaseYear int             `json:"releaseYear" bson:"releaseYear"`
	Plot        string          `json:"plot" bson:"plot"`
	Runtime     int             `json:"runtime" bson:"runtime"`
	Director    bson.ObjectID   `json:"director" bson:"director"`
	Actors      []bson.ObjectID `json:"actors" bson:"actors"`
	Genres      []bson.ObjectID `json:"genres" bson:"genres"`
	Poster      string          `json:"poster" bson:"poster"`
	CreatedAt   time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// MovieInput is the create-movie request body. References are hex object ids.
type MovieInput struct {
	Title       string   `json:"title" validate:"required,min=1,max=400"`
	ReleaseYear int      `json:"releaseYear" validate:"required"`
	Plot        string   `json:"plot" validate:"required"`
	Runtime     int      `json:"runtime" validate:"required"`
	Director    string   `json:"director" validate:"required"`
	Actors      []string `json:"actors"`
	Genres      []string `json:"genres"`
	Poster      string   `json:"poster"`
}

// MoviePatch is the update-movie request body. Only fields present in the
// JSON are applied, so an explicit zero (e.g. runtime 0) still overwrites.
type MoviePatch struct {
	Title       *string   `json:"title"`
	ReleaseYear *int      `json:"releaseYear"`
	Plot        *string   `json:"plot"`
	Runtime     *int      `json:"runtime"`
	Director    *string   `json:"director"`
	Actors      *[]string `json:"actors"`
	Genres      *[]string `json:"genres"`
	Poster      *string   `json:"poster"`
}

// PersonRef and GenreRef are the display subsets embedded in movie lists.
type PersonRef struct {
	ID   bson.ObjectID `json:"_id"`
	Name string        `json:"name"`
}

type GenreRef struct {
	ID   bson.ObjectID `json:"_id"`
	Name string        `json:"name"`
}

// PersonDetail and GenreDetail are the extended subsets embedded in a single
// movie response.
type PersonDetail struct {
	ID        bson.ObjectID `json:"_id"`
	Name      string        `json:"name"`
	BirthYear *int          `json:"birthYear,omitempty"`
	Bio       string        `json:"bio,omitempty"`
}

type GenreDetail struct {
	ID          bson.ObjectID `json:"_id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
}

// MovieSummary is a movie with its references resolved to names.
type MovieSummary struct {
	ID          bson.ObjectID `json:"_id"`
	Title       string        `json:"title"`
	ReleaseYear int           `json:"releaseYear"`
	Plot        string        `json:"plot"`
	Runtime     int           `json:"runtime"`
	Director    *PersonRef    `json:"director"`
	Actors      []PersonRef   `json:"actors"`
	Genres      []GenreRef    `json:"genres"`
	Poster      string        `json:"poster"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// MovieDetail is a movie with its references resolved to extended subsets.
type MovieDetail struct {
	ID          bson.ObjectID  `json:"_id"`
	Title       string         `json:"title"`
	ReleaseYear int            `json:"releaseYear"`
	Plot        string         `json:"plot"`
	Runtime     int            `json:"runtime"`
	Director    *PersonDetail  `json:"director"`
	Actors      []PersonDetail `json:"actors"`
	Genres      []GenreDetail  `json:"genres"`
	Poster      string         `json:"poster"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// MoviePage is the paginated movie list response.
type MoviePage struct {
	Movies []MovieSummary `json:"movies"`
	Page   int            `json:"page"`
	Pages  int            `json:"pages"`
	Total  int64          `json:"total"`
}
