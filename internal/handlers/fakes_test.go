package handlers

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/movie-quotes-dev/movie-quotes/internal/models"
	"github.com/movie-quotes-dev/movie-quotes/internal/store"
)

type fakeUserStore struct {
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (f *fakeUserStore) add(user models.User) models.User {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) FindByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (f *fakeUserStore) FindByName(_ context.Context, name string) (models.User, error) {
	for _, user := range f.users {
		if user.Name == name {
			return user, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (f *fakeUserStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var result []models.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			result = append(result, user)
		}
	}
	return result, nil
}

func (f *fakeUserStore) Create(_ context.Context, user models.User) (models.User, error) {
	return f.add(user), nil
}

func (f *fakeUserStore) SetVerifiedByEmail(_ context.Context, email string) error {
	for id, user := range f.users {
		if user.Email == email {
			user.Verified = true
			f.users[id] = user
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeUserStore) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Password = hash
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) SetImage(_ context.Context, id primitive.ObjectID, path string) error {
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Image = path
	f.users[id] = user
	return nil
}

func (f *fakeUserStore) SetCredentials(_ context.Context, id primitive.ObjectID, name, passwordHash string) error {
	user, ok := f.users[id]
	if !ok {
		return store.ErrNotFound
	}
	user.Name = name
	if passwordHash != "" {
		user.Password = passwordHash
	}
	f.users[id] = user
	return nil
}

type fakeMovieStore struct {
	movies map[primitive.ObjectID]models.Movie
}

func newFakeMovieStore() *fakeMovieStore {
	return &fakeMovieStore{movies: make(map[primitive.ObjectID]models.Movie)}
}

func (f *fakeMovieStore) add(movie models.Movie) models.Movie {
	if movie.ID.IsZero() {
		movie.ID = primitive.NewObjectID()
	}
	if movie.Quotes == nil {
		movie.Quotes = []primitive.ObjectID{}
	}
	f.movies[movie.ID] = movie
	return movie
}

func (f *fakeMovieStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Movie, error) {
	movie, ok := f.movies[id]
	if !ok {
		return models.Movie{}, store.ErrNotFound
	}
	return movie, nil
}

func (f *fakeMovieStore) List(_ context.Context) ([]models.Movie, error) {
	var result []models.Movie
	for _, movie := range f.movies {
		result = append(result, movie)
	}
	return result, nil
}

func (f *fakeMovieStore) Create(_ context.Context, movie models.Movie) (models.Movie, error) {
	return f.add(movie), nil
}

func (f *fakeMovieStore) Update(_ context.Context, movie models.Movie) error {
	if _, ok := f.movies[movie.ID]; !ok {
		return store.ErrNotFound
	}
	f.movies[movie.ID] = movie
	return nil
}

func (f *fakeMovieStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.movies[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.movies, id)
	return nil
}

func (f *fakeMovieStore) PushQuote(_ context.Context, movieID, quoteID primitive.ObjectID) error {
	movie, ok := f.movies[movieID]
	if !ok {
		return store.ErrNotFound
	}
	movie.Quotes = append(movie.Quotes, quoteID)
	f.movies[movieID] = movie
	return nil
}

func (f *fakeMovieStore) PullQuote(_ context.Context, quoteID primitive.ObjectID) error {
	for id, movie := range f.movies {
		kept := movie.Quotes[:0]
		for _, q := range movie.Quotes {
			if q != quoteID {
				kept = append(kept, q)
			}
		}
		movie.Quotes = kept
		f.movies[id] = movie
	}
	return nil
}

type fakeQuoteStore struct {
	quotes map[primitive.ObjectID]models.Quote
}

func newFakeQuoteStore() *fakeQuoteStore {
	return &fakeQuoteStore{quotes: make(map[primitive.ObjectID]models.Quote)}
}

func (f *fakeQuoteStore) add(quote models.Quote) models.Quote {
	if quote.ID.IsZero() {
		quote.ID = primitive.NewObjectID()
	}
	if quote.Comments == nil {
		quote.Comments = []models.Comment{}
	}
	f.quotes[quote.ID] = quote
	return quote
}

func (f *fakeQuoteStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Quote, error) {
	quote, ok := f.quotes[id]
	if !ok {
		return models.Quote{}, store.ErrNotFound
	}
	return quote, nil
}

func (f *fakeQuoteStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Quote, error) {
	var result []models.Quote
	for _, id := range ids {
		if quote, ok := f.quotes[id]; ok {
			result = append(result, quote)
		}
	}
	return result, nil
}

func (f *fakeQuoteStore) FindByMovie(_ context.Context, movieID primitive.ObjectID) ([]models.Quote, error) {
	var result []models.Quote
	for _, quote := range f.quotes {
		if quote.MovieID == movieID {
			result = append(result, quote)
		}
	}
	return result, nil
}

func (f *fakeQuoteStore) ExistsByText(_ context.Context, quoteEn, quoteGe string) (bool, error) {
	for _, quote := range f.quotes {
		if quote.QuoteEn == quoteEn || quote.QuoteGe == quoteGe {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeQuoteStore) Create(_ context.Context, quote models.Quote) (models.Quote, error) {
	return f.add(quote), nil
}

func (f *fakeQuoteStore) Update(_ context.Context, quote models.Quote) error {
	if _, ok := f.quotes[quote.ID]; !ok {
		return store.ErrNotFound
	}
	f.quotes[quote.ID] = quote
	return nil
}

func (f *fakeQuoteStore) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.quotes[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.quotes, id)
	return nil
}

func (f *fakeQuoteStore) PushComment(_ context.Context, quoteID primitive.ObjectID, comment models.Comment) error {
	quote, ok := f.quotes[quoteID]
	if !ok {
		return store.ErrNotFound
	}
	quote.Comments = append(quote.Comments, comment)
	f.quotes[quoteID] = quote
	return nil
}

type fakeMailer struct {
	sent    []string
	failing bool
}

func (f *fakeMailer) Send(_ context.Context, to, subject, html string) error {
	if f.failing {
		return context.DeadlineExceeded
	}
	f.sent = append(f.sent, strings.Join([]string{to, subject}, " "))
	return nil
}
