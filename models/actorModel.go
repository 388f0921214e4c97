package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Actor mirrors Director; the two are kept separate collections so the
// same person can appear in either role independently.
type Actor struct {
	ID        bson.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Name      string          `json:"name" bson:"name"`
	BirthYear *int            `json:"birthYear,omitempty" bson:"birthYear,omitempty"`
	Bio       string          `json:"bio,omitempty" bson:"bio,omitempty"`
	Movies    []bson.ObjectID `json:"movies" bson:"movies"`
	CreatedAt time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt" bson:"updatedAt"`
}
