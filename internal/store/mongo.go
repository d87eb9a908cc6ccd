package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/movie-quotes-dev/movie-quotes/internal/models"
)

// MongoUserStore implements UserStore on top of the users collection.
type MongoUserStore struct {
	Collection *mongo.Collection
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var user models.User
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := s.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *MongoUserStore) FindByName(ctx context.Context, name string) (models.User, error) {
	var user models.User
	err := s.Collection.FindOne(ctx, bson.M{"name": name}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, ErrNotFound
	}
	return user, err
}

func (s *MongoUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := s.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoUserStore) Create(ctx context.Context, user models.User) (models.User, error) {
	result, err := s.Collection.InsertOne(ctx, user)
	if err != nil {
		return models.User{}, err
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

func (s *MongoUserStore) SetVerifiedByEmail(ctx context.Context, email string) error {
	result, err := s.Collection.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"verified": true}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return s.updateByID(ctx, id, bson.M{"password": hash})
}

func (s *MongoUserStore) SetImage(ctx context.Context, id primitive.ObjectID, path string) error {
	return s.updateByID(ctx, id, bson.M{"image": path})
}

func (s *MongoUserStore) SetCredentials(ctx context.Context, id primitive.ObjectID, name, passwordHash string) error {
	fields := bson.M{"name": name}
	if passwordHash != "" {
		fields["password"] = passwordHash
	}
	return s.updateByID(ctx, id, fields)
}

func (s *MongoUserStore) updateByID(ctx context.Context, id primitive.ObjectID, fields bson.M) error {
	result, err := s.Collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MongoMovieStore implements MovieStore on top of the movies collection.
type MongoMovieStore struct {
	Collection *mongo.Collection
}

func (s *MongoMovieStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Movie, error) {
	var movie models.Movie
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&movie)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Movie{}, ErrNotFound
	}
	return movie, err
}

func (s *MongoMovieStore) List(ctx context.Context) ([]models.Movie, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}

	var movies []models.Movie
	if err := cursor.All(ctx, &movies); err != nil {
		return nil, err
	}
	return movies, nil
}

func (s *MongoMovieStore) Create(ctx context.Context, movie models.Movie) (models.Movie, error) {
	if movie.Quotes == nil {
		movie.Quotes = []primitive.ObjectID{}
	}
	result, err := s.Collection.InsertOne(ctx, movie)
	if err != nil {
		return models.Movie{}, err
	}
	movie.ID = result.InsertedID.(primitive.ObjectID)
	return movie, nil
}

func (s *MongoMovieStore) Update(ctx context.Context, movie models.Movie) error {
	result, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": movie.ID}, movie)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoMovieStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoMovieStore) PushQuote(ctx context.Context, movieID, quoteID primitive.ObjectID) error {
	result, err := s.Collection.UpdateOne(ctx,
		bson.M{"_id": movieID},
		bson.M{"$push": bson.M{"quotes": quoteID}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// PullQuote removes the quote id from whichever movie holds it, matching by
// membership rather than by movie id, as quote deletion only knows the quote.
func (s *MongoMovieStore) PullQuote(ctx context.Context, quoteID primitive.ObjectID) error {
	_, err := s.Collection.UpdateOne(ctx,
		bson.M{"quotes": quoteID},
		bson.M{"$pull": bson.M{"quotes": quoteID}})
	return err
}

// MongoQuoteStore implements QuoteStore on top of the quotes collection.
type MongoQuoteStore struct {
	Collection *mongo.Collection
}

func (s *MongoQuoteStore) FindByID(ctx context.Context, id primitive.ObjectID) (models.Quote, error) {
	var quote models.Quote
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&quote)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.Quote{}, ErrNotFound
	}
	return quote, err
}

func (s *MongoQuoteStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Quote, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := s.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}

	var quotes []models.Quote
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *MongoQuoteStore) FindByMovie(ctx context.Context, movieID primitive.ObjectID) ([]models.Quote, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{"movieId": movieID})
	if err != nil {
		return nil, err
	}

	var quotes []models.Quote
	if err := cursor.All(ctx, &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *MongoQuoteStore) ExistsByText(ctx context.Context, quoteEn, quoteGe string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"quoteEn": quoteEn},
		bson.M{"quoteGe": quoteGe},
	}}

	err := s.Collection.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *MongoQuoteStore) Create(ctx context.Context, quote models.Quote) (models.Quote, error) {
	if quote.Comments == nil {
		quote.Comments = []models.Comment{}
	}
	result, err := s.Collection.InsertOne(ctx, quote)
	if err != nil {
		return models.Quote{}, err
	}
	quote.ID = result.InsertedID.(primitive.ObjectID)
	return quote, nil
}

func (s *MongoQuoteStore) Update(ctx context.Context, quote models.Quote) error {
	result, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": quote.ID}, quote)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoQuoteStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoQuoteStore) PushComment(ctx context.Context, quoteID primitive.ObjectID, comment models.Comment) error {
	result, err := s.Collection.UpdateOne(ctx,
		bson.M{"_id": quoteID},
		bson.M{"$push": bson.M{"comments": comment}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
