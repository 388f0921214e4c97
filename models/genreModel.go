package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Genre struct {
	ID          bson.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string          `json:"name" bson:"name"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	Movies      []bson.ObjectID `json:"movies" bson:"movies"`
	CreatedAt   time.Time       `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt" bson:"updatedAt"`
}

type GenreInput struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
}

type GenrePatch struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}
