package handlers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/movie-quotes-dev/movie-quotes/internal/models"
	"github.com/movie-quotes-dev/movie-quotes/internal/store"
	"github.com/movie-quotes-dev/movie-quotes/internal/types"
)

// populateQuotes resolves the author of each quote and of every embedded
// comment into user summaries, with a single batched lookup.
func populateQuotes(ctx context.Context, users store.UserStore, movie models.Movie, quotes []models.Quote) ([]types.PopulatedQuote, error) {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID

	collect := func(id primitive.ObjectID) {
		if !id.IsZero() && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, quote := range quotes {
		collect(quote.User)
		for _, comment := range quote.Comments {
			collect(comment.User)
		}
	}

	authors, err := users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	summaries := make(map[primitive.ObjectID]types.UserSummary, len(authors))
	for _, author := range authors {
		summaries[author.ID] = types.UserSummary{
			ID:    author.ID,
			Name:  author.Name,
			Image: author.Image,
		}
	}

	populated := make([]types.PopulatedQuote, 0, len(quotes))
	for _, quote := range quotes {
		comments := make([]types.PopulatedComment, 0, len(quote.Comments))
		for _, comment := range quote.Comments {
			comments = append(comments, types.PopulatedComment{
				User: summaries[comment.User],
				Text: comment.Text,
			})
		}

		populated = append(populated, types.PopulatedQuote{
			ID:      quote.ID,
			QuoteEn: quote.QuoteEn,
			QuoteGe: quote.QuoteGe,
			Image:   quote.Image,
			Movie: types.MovieSummary{
				ID:   movie.ID,
				Name: movie.Name,
				Year: movie.Year,
			},
			User:     summaries[quote.User],
			Comments: comments,
		})
	}

	return populated, nil
}

func populateQuote(ctx context.Context, users store.UserStore, movie models.Movie, quote models.Quote) (types.PopulatedQuote, error) {
	populated, err := populateQuotes(ctx, users, movie, []models.Quote{quote})
	if err != nil {
		return types.PopulatedQuote{}, err
	}
	return populated[0], nil
}
