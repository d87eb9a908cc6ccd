package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/movie-quotes-dev/movie-quotes/internal/logger"
	"github.com/movie-quotes-dev/movie-quotes/internal/models"
	"github.com/movie-quotes-dev/movie-quotes/internal/storage"
	"github.com/movie-quotes-dev/movie-quotes/internal/store"
	"github.com/movie-quotes-dev/movie-quotes/internal/utils"
)

type MovieHandler struct {
	Movies store.MovieStore
	Quotes store.QuoteStore
	Files  storage.Storage
}

type CreateMovieRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Director    string `json:"director"`
	Year        int    `json:"year"`
}

type UpdateMovieRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Director    string `json:"director"`
	Year        int    `json:"year"`
}

func (h *MovieHandler) CreateMovie(ctx *gin.Context) {
	var body CreateMovieRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid request"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	movie := models.Movie{
		Name:        body.Name,
		Description: body.Description,
		Director:    body.Director,
		Year:        body.Year,
		User:        userID,
		Quotes:      []primitive.ObjectID{},
	}

	movie, err = h.Movies.Create(ctx.Request.Context(), movie)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to create movie")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, movie)
}

func (h *MovieHandler) ListMovies(ctx *gin.Context) {
	movies, err := h.Movies.List(ctx.Request.Context())

	if err != nil {
		logger.Get().WithError(err).Error("Failed to list movies")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if movies == nil {
		movies = []models.Movie{}
	}

	ctx.JSON(http.StatusOK, movies)
}

func (h *MovieHandler) GetMovie(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Enter valid id"})
		return
	}

	movie, err := h.Movies.FindByID(ctx.Request.Context(), id)

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
		return
	}

	if err != nil {
		logger.Get().WithError(err).Error("Failed to look up movie")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, movie)
}

func (h *MovieHandler) UpdateMovie(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Enter valid id"})
		return
	}

	var body UpdateMovieRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid request"})
		return
	}

	movie, err := h.Movies.FindByID(ctx.Request.Context(), id)

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
		return
	}

	if err != nil {
		logger.Get().WithError(err).Error("Failed to look up movie")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	movie.Name = body.Name
	movie.Description = body.Description
	movie.Director = body.Director
	movie.Year = body.Year

	if err := h.Movies.Update(ctx.Request.Context(), movie); err != nil {
		logger.Get().WithError(err).Error("Failed to update movie")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, movie)
}

// DeleteMovie removes the movie's quotes and their image files before the
// movie document itself, so no quote is left referencing a missing movie.
// A failure partway leaves orphan quotes at worst, never a movie pointing at
// deleted quotes.
func (h *MovieHandler) DeleteMovie(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Param("id"))

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Enter valid id"})
		return
	}

	if _, err := h.Movies.FindByID(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
			return
		}
		logger.Get().WithError(err).Error("Failed to look up movie")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	quotes, err := h.Quotes.FindByMovie(ctx.Request.Context(), id)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to load movie quotes")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	for _, quote := range quotes {
		if quote.Image != "" {
			if err := h.Files.Delete(ctx.Request.Context(), quote.Image); err != nil {
				logger.Get().WithError(err).Warn("Failed to delete quote image")
			}
		}
		if err := h.Quotes.Delete(ctx.Request.Context(), quote.ID); err != nil {
			logger.Get().WithError(err).Error("Failed to delete quote")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}
	}

	if err := h.Movies.Delete(ctx.Request.Context(), id); err != nil {
		logger.Get().WithError(err).Error("Failed to delete movie")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Movie deleted successfully"})
}
