package types

import "go.mongodb.org/mongo-driver/bson/primitive"

type UserResponse struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Email    string             `json:"email"`
	Verified bool               `json:"verified"`
	Image    string             `json:"image,omitempty"`
}

// UserSummary is the author shape embedded in populated quotes and comments.
type UserSummary struct {
	ID    primitive.ObjectID `json:"id"`
	Name  string             `json:"name"`
	Image string             `json:"image,omitempty"`
}

type MovieSummary struct {
	ID   primitive.ObjectID `json:"id"`
	Name string             `json:"name"`
	Year int                `json:"year,omitempty"`
}

type PopulatedComment struct {
	User UserSummary `json:"user"`
	Text string      `json:"text"`
}

type PopulatedQuote struct {
	ID       primitive.ObjectID `json:"id"`
	QuoteEn  string             `json:"quoteEn"`
	QuoteGe  string             `json:"quoteGe"`
	Image    string             `json:"image,omitempty"`
	Movie    MovieSummary       `json:"movie"`
	User     UserSummary        `json:"user"`
	Comments []PopulatedComment `json:"comments"`
}
