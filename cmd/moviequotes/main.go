package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/movie-quotes-dev/movie-quotes/db"
	"github.com/movie-quotes-dev/movie-quotes/internal/auth"
	"github.com/movie-quotes-dev/movie-quotes/internal/config"
	"github.com/movie-quotes-dev/movie-quotes/internal/handlers"
	"github.com/movie-quotes-dev/movie-quotes/internal/logger"
	"github.com/movie-quotes-dev/movie-quotes/internal/mailer"
	"github.com/movie-quotes-dev/movie-quotes/internal/router"
	"github.com/movie-quotes-dev/movie-quotes/internal/storage"
	"github.com/movie-quotes-dev/movie-quotes/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on the environment")
	}

	props, err := config.ReadProperties()

	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	logger.Init(props.LogLevel)

	if props.Auth.JWTSecret == "" {
		log.Fatal("AUTH_JWT_SECRET environment variable is not set")
	}
	auth.SetJWTSecret(props.Auth.JWTSecret)

	if err := db.ConnectDatabase(props.Mongo.URI, props.Mongo.Database); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	userStore := &store.MongoUserStore{Collection: db.Users()}
	movieStore := &store.MongoMovieStore{Collection: db.Movies()}
	quoteStore := &store.MongoQuoteStore{Collection: db.Quotes()}

	var files storage.Storage

	if props.S3.Enabled {
		s3, err := storage.NewS3Storage(props.S3.Endpoint, props.S3.AccessKey, props.S3.SecretKey, props.S3.Bucket, props.S3.UseSSL)
		if err != nil {
			log.Fatalf("Failed to create S3 storage: %v", err)
		}
		files = s3
	} else {
		files = storage.NewDiskStorage(props.PublicDir)
	}

	var mail mailer.Mailer

	if props.Mail.SendgridAPIKey != "" {
		mail = mailer.NewSendgridMailer(props.Mail.SendgridAPIKey, props.Mail.Sender)
	} else {
		logger.Get().Warn("Sendgrid API key is missing, registration mail disabled")
	}

	// The template is read once here and handed to the handler, so nothing
	// touches the filesystem per request.
	template, err := os.ReadFile(props.Mail.TemplatePath)

	if err != nil {
		log.Fatalf("Failed to read email template: %v", err)
	}

	var google *auth.GoogleVerifier

	if props.Auth.GoogleClientID != "" {
		discoveryCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		google, err = auth.NewGoogleVerifier(discoveryCtx, props.Auth.GoogleClientID)
		cancel()
		if err != nil {
			log.Fatalf("Failed to create Google verifier: %v", err)
		}
	}

	userHandler := &handlers.UserHandler{
		Users:         userStore,
		Mail:          mail,
		Google:        google,
		Files:         files,
		EmailTemplate: string(template),
		FrontendURI:   props.Mail.FrontendURI,
	}

	movieHandler := &handlers.MovieHandler{
		Movies: movieStore,
		Quotes: quoteStore,
		Files:  files,
	}

	quoteHandler := &handlers.QuoteHandler{
		Quotes: quoteStore,
		Movies: movieStore,
		Users:  userStore,
		Files:  files,
	}

	r := router.NewRouter(userHandler, movieHandler, quoteHandler, userStore, props.AllowedOrigins, props.PublicDir)

	if err := r.Run(":" + props.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
