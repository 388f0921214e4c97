package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Director struct {
	ID        bson.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string          `json:"name" bson:"name"`
	BirthYear *int            `json:"birthYear,omitempty" bson:"birthYear,omitempty"`
	Bio       string          `json:"bio,omitempty" bson:"bio,omitempty"`
	Movies    []bson.ObjectID `json:"movies" bson:"movies"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updatedAt"`
}

// PersonInput is the create body shared by directors and actors.
type PersonInput struct {
	Name      string `json:"name" validate:"required,min=1,max=200"`
	BirthYear *int   `json:"birthYear"`
	Bio       string `json:"bio"`
}

// PersonPatch carries the fields of a director/actor update; only fields
// present in the JSON are applied.
type PersonPatch struct {
	Name      *string `json:"name"`
	BirthYear *int    `json:"birthYear"`
	Bio       *string `json:"bio"`
}
