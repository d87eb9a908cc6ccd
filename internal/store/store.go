package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/movie-quotes-dev/movie-quotes/internal/models"
)

// ErrNotFound is returned whenever a referenced document does not exist.
// Handlers map it to a 404 response.
var ErrNotFound = errors.New("document not found")

type UserStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByName(ctx context.Context, name string) (models.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	Create(ctx context.Context, user models.User) (models.User, error)
	SetVerifiedByEmail(ctx context.Context, email string) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetImage(ctx context.Context, id primitive.ObjectID, path string) error
	SetCredentials(ctx context.Context, id primitive.ObjectID, name, passwordHash string) error
}

type MovieStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Movie, error)
	List(ctx context.Context) ([]models.Movie, error)
	Create(ctx context.Context, movie models.Movie) (models.Movie, error)
	Update(ctx context.Context, movie models.Movie) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushQuote(ctx context.Context, movieID, quoteID primitive.ObjectID) error
	PullQuote(ctx context.Context, quoteID primitive.ObjectID) error
}

type QuoteStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Quote, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Quote, error)
	FindByMovie(ctx context.Context, movieID primitive.ObjectID) ([]models.Quote, error)
	ExistsByText(ctx context.Context, quoteEn, quoteGe string) (bool, error)
	Create(ctx context.Context, quote models.Quote) (models.Quote, error)
	Update(ctx context.Context, quote models.Quote) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	PushComment(ctx context.Context, quoteID primitive.ObjectID, comment models.Comment) error
}
