package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Quote struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	QuoteEn  string             `bson:"quoteEn" json:"quoteEn"`
	QuoteGe  string             `bson:"quoteGe" json:"quoteGe"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
	MovieID  primitive.ObjectID `bson:"movieId" json:"movieId"`
	User     primitive.ObjectID `bson:"user" json:"user"`
	Comments []Comment          `bson:"comments" json:"comments"`
}

// Comment lives inside its quote document and has no identity of its own.
type Comment struct {
	User primitive.ObjectID `bson:"user" json:"user"`
	Text string             `bson:"text" json:"text"`
}
