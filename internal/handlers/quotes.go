package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/movie-quotes-dev/movie-quotes/internal/logger"
	"github.com/movie-quotes-dev/movie-quotes/internal/models"
	"github.com/movie-quotes-dev/movie-quotes/internal/storage"
	"github.com/movie-quotes-dev/movie-quotes/internal/store"
)

type QuoteHandler struct {
	Quotes store.QuoteStore
	Movies store.MovieStore
	Users  store.UserStore
	Files  storage.Storage
}

type AddCommentRequest struct {
	QuoteID string `json:"quoteId" binding:"required"`
	UserID  string `json:"userId" binding:"required"`
	Text    string `json:"text" binding:"required"`
}

const quoteImageDir = "images/quotes"

func (h *QuoteHandler) CreateQuote(ctx *gin.Context) {
	file, err := ctx.FormFile("image")

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Upload quote image"})
		return
	}

	quoteEn := ctx.PostForm("quoteEn")
	quoteGe := ctx.PostForm("quoteGe")

	movieID, err := primitive.ObjectIDFromHex(ctx.PostForm("movieId"))

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Enter valid id"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(ctx.PostForm("user"))

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Enter valid id"})
		return
	}

	imagePath := path.Join(quoteImageDir, primitive.NewObjectID().Hex()+filepath.Ext(file.Filename))

	if err := h.saveUpload(ctx, file, imagePath); err != nil {
		logger.Get().WithError(err).Error("Failed to store quote image")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	currentUser, err := h.Users.FindByID(ctx.Request.Context(), userID)

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}

	if err != nil {
		logger.Get().WithError(err).Error("Failed to look up quote author")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	exists, err := h.Quotes.ExistsByText(ctx.Request.Context(), quoteEn, quoteGe)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to check quote uniqueness")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if exists {
		// Compensate for the upload so a rejected request leaves no orphan file.
		if present, _ := h.Files.Exists(ctx.Request.Context(), imagePath); present {
			if err := h.Files.Delete(ctx.Request.Context(), imagePath); err != nil {
				logger.Get().WithError(err).Warn("Failed to remove orphaned quote image")
			}
		}
		ctx.JSON(http.StatusConflict, gin.H{"message": "Quote is already added"})
		return
	}

	movie, err := h.Movies.FindByID(ctx.Request.Context(), movieID)

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
		return
	}

	if err != nil {
		logger.Get().WithError(err).Error("Failed to look up movie")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	quote := models.Quote{
		QuoteEn:  quoteEn,
		QuoteGe:  quoteGe,
		Image:    imagePath,
		MovieID:  movieID,
		User:     currentUser.ID,
		Comments: []models.Comment{},
	}

	quote, err = h.Quotes.Create(ctx.Request.Context(), quote)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to create quote")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := h.Movies.PushQuote(ctx.Request.Context(), movieID, quote.ID); err != nil {
		logger.Get().WithError(err).Error("Failed to attach quote to movie")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	populated, err := populateQuote(ctx.Request.Context(), h.Users, movie, quote)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to populate quote")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, populated)
}

func (h *QuoteHandler) DeleteQuote(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.Query("id"))

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Enter valid id"})
		return
	}

	quote, err := h.Quotes.FindByID(ctx.Request.Context(), id)

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Quote not found"})
		return
	}

	if err != nil {
		logger.Get().WithError(err).Error("Failed to look up quote")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if quote.Image != "" {
		if err := h.Files.Delete(ctx.Request.Context(), quote.Image); err != nil {
			logger.Get().WithError(err).Warn("Failed to delete quote image")
		}
	}

	if err := h.Movies.PullQuote(ctx.Request.Context(), quote.ID); err != nil {
		logger.Get().WithError(err).Error("Failed to detach quote from movie")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if err := h.Quotes.Delete(ctx.Request.Context(), quote.ID); err != nil {
		logger.Get().WithError(err).Error("Failed to delete quote")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Quote deleted successfully"})
}

func (h *QuoteHandler) ChangeQuote(ctx *gin.Context) {
	id, err := primitive.ObjectIDFromHex(ctx.PostForm("id"))

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Enter valid id"})
		return
	}

	quote, err := h.Quotes.FindByID(ctx.Request.Context(), id)

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Quote not found"})
		return
	}

	if err != nil {
		logger.Get().WithError(err).Error("Failed to look up quote")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if file, err := ctx.FormFile("image"); err == nil {
		if quote.Image != "" {
			if present, _ := h.Files.Exists(ctx.Request.Context(), quote.Image); present {
				if err := h.Files.Delete(ctx.Request.Context(), quote.Image); err != nil {
					logger.Get().WithError(err).Warn("Failed to delete replaced quote image")
				}
			}
		}

		imagePath := path.Join(quoteImageDir, primitive.NewObjectID().Hex()+filepath.Ext(file.Filename))

		if err := h.saveUpload(ctx, file, imagePath); err != nil {
			logger.Get().WithError(err).Error("Failed to store quote image")
			ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
			return
		}

		quote.Image = imagePath
	}

	quote.QuoteEn = ctx.PostForm("quoteEn")
	quote.QuoteGe = ctx.PostForm("quoteGe")

	if err := h.Quotes.Update(ctx.Request.Context(), quote); err != nil {
		ctx.JSON(http.StatusConflict, gin.H{"message": "This quote is already added"})
		return
	}

	ctx.JSON(http.StatusOK, quote)
}

// AddComment returns the quote as it was read before the append. Clients of
// this API already rely on that shape, so the stale read stays.
func (h *QuoteHandler) AddComment(ctx *gin.Context) {
	var body AddCommentRequest

	if err := ctx.ShouldBindJSON(&body); err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Invalid request"})
		return
	}

	quoteID, err := primitive.ObjectIDFromHex(body.QuoteID)

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Enter valid id"})
		return
	}

	userID, err := primitive.ObjectIDFromHex(body.UserID)

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Enter valid id"})
		return
	}

	quote, err := h.Quotes.FindByID(ctx.Request.Context(), quoteID)

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Quote not found"})
		return
	}

	if err != nil {
		logger.Get().WithError(err).Error("Failed to look up quote")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	if _, err := h.Users.FindByID(ctx.Request.Context(), userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
			return
		}
		logger.Get().WithError(err).Error("Failed to look up commenting user")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	comment := models.Comment{User: userID, Text: body.Text}

	if err := h.Quotes.PushComment(ctx.Request.Context(), quoteID, comment); err != nil {
		logger.Get().WithError(err).Error("Failed to add comment")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	movie, err := h.Movies.FindByID(ctx.Request.Context(), quote.MovieID)

	if err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.Get().WithError(err).Error("Failed to look up movie")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	populated, err := populateQuote(ctx.Request.Context(), h.Users, movie, quote)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to populate quote")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, populated)
}

func (h *QuoteHandler) ListQuotesByMovie(ctx *gin.Context) {
	movieID, err := primitive.ObjectIDFromHex(ctx.Query("id"))

	if err != nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"message": "Enter valid id"})
		return
	}

	movie, err := h.Movies.FindByID(ctx.Request.Context(), movieID)

	if errors.Is(err, store.ErrNotFound) {
		ctx.JSON(http.StatusNotFound, gin.H{"message": "Movie not found"})
		return
	}

	if err != nil {
		logger.Get().WithError(err).Error("Failed to look up movie")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	quotes, err := h.Quotes.FindByIDs(ctx.Request.Context(), movie.Quotes)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to load quotes")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	// $in does not preserve order; the movie's embedded list is authoritative.
	byID := make(map[primitive.ObjectID]models.Quote, len(quotes))
	for _, quote := range quotes {
		byID[quote.ID] = quote
	}

	ordered := make([]models.Quote, 0, len(quotes))
	for _, id := range movie.Quotes {
		if quote, ok := byID[id]; ok {
			ordered = append(ordered, quote)
		}
	}

	populated, err := populateQuotes(ctx.Request.Context(), h.Users, movie, ordered)

	if err != nil {
		logger.Get().WithError(err).Error("Failed to populate quotes")
		ctx.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, populated)
}

func (h *QuoteHandler) saveUpload(ctx *gin.Context, file *multipart.FileHeader, imagePath string) error {
	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	return h.Files.Save(ctx.Request.Context(), imagePath, src, file.Size)
}
