package router

import (
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/movie-quotes-dev/movie-quotes/internal/handlers"
	"github.com/movie-quotes-dev/movie-quotes/internal/middleware"
	"github.com/movie-quotes-dev/movie-quotes/internal/store"
)

func NewRouter(userHandler *handlers.UserHandler, movieHandler *handlers.MovieHandler, quoteHandler *handlers.QuoteHandler, userStore store.UserStore, allowedOrigins []string, publicDir string) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Static("/images", filepath.Join(publicDir, "images"))

	r.GET("/health", handlers.HealthCheck)

	authRequired := middleware.AuthMiddleware(userStore)

	users := r.Group("/users")
	{
		users.POST("/register", userHandler.RegisterUser)
		users.POST("/register-google", userHandler.RegisterUserWithGoogle)
		users.GET("/activate", userHandler.ActivateAccount)
		users.POST("/login", userHandler.LoginUser)

		users.GET("/user-details", authRequired, userHandler.GetUserDetails)
		users.POST("/change-password", authRequired, userHandler.ChangePassword)
		users.PATCH("/upload-user-image", authRequired, userHandler.UploadUserImage)
		users.PUT("/change-user-credentials", authRequired, userHandler.ChangeUserCredentials)
	}

	movies := r.Group("/movies")
	{
		movies.GET("", movieHandler.ListMovies)
		movies.GET("/:id", movieHandler.GetMovie)
		movies.POST("", authRequired, movieHandler.CreateMovie)
		movies.PUT("/:id", authRequired, movieHandler.UpdateMovie)
		movies.DELETE("/:id", authRequired, movieHandler.DeleteMovie)
	}

	quotes := r.Group("/quotes")
	{
		quotes.POST("", quoteHandler.CreateQuote)
		quotes.DELETE("", quoteHandler.DeleteQuote)
		quotes.PUT("", quoteHandler.ChangeQuote)
		quotes.POST("/comments", quoteHandler.AddComment)
		quotes.GET("/by-movie", quoteHandler.ListQuotesByMovie)
	}

	return r
}
