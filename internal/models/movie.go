package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Movie struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Director    string               `bson:"director,omitempty" json:"director,omitempty"`
	Year        int                  `bson:"year,omitempty" json:"year,omitempty"`
	Image       string               `bson:"image,omitempty" json:"image,omitempty"`
	User        primitive.ObjectID   `bson:"user,omitempty" json:"user,omitempty"`
	Quotes      []primitive.ObjectID `bson:"quotes" json:"quotes"`
}
