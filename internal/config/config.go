package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"
)

type (
	Properties struct {
		LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
		Port     string `env:"PORT" envDefault:"3000"`

		Mongo MongoProperties `envPrefix:"MONGO_"`
		Auth  AuthProperties  `envPrefix:"AUTH_"`
		Mail  MailProperties  `envPrefix:"MAIL_"`
		S3    S3Properties    `envPrefix:"S3_"`

		// AllowedOrigins feeds the CORS middleware; the defaults cover
		// local frontend development.
		AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

		// PublicDir is the root of the static file tree; uploaded images
		// land under <PublicDir>/images/.
		PublicDir string `env:"PUBLIC_DIR" envDefault:"public"`
	}

	MongoProperties struct {
		URI      string `env:"URI" envDefault:"mongodb://localhost:27017"`
		Database string `env:"DATABASE" envDefault:"movie-quotes"`
	}

	AuthProperties struct {
		JWTSecret      string `env:"JWT_SECRET"`
		GoogleClientID string `env:"GOOGLE_CLIENT_ID"`
	}

	MailProperties struct {
		SendgridAPIKey string `env:"SENDGRID_API_KEY"`
		Sender         string `env:"SENDER" envDefault:"no-reply@movie-quotes.dev"`
		FrontendURI    string `env:"FRONTEND_URI" envDefault:"http://localhost:5173"`
		TemplatePath   string `env:"TEMPLATE_PATH" envDefault:"views/email-template.html"`
	}

	S3Properties struct {
		Enabled   bool   `env:"ENABLED" envDefault:"false"`
		Endpoint  string `env:"ENDPOINT"`
		AccessKey string `env:"ACCESS_KEY"`
		SecretKey string `env:"SECRET_KEY"`
		Bucket    string `env:"BUCKET" envDefault:"movie-quotes"`
		UseSSL    bool   `env:"USE_SSL" envDefault:"true"`
	}
)

func ReadProperties() (*Properties, error) {
	props := &Properties{}
	if err := env.Parse(props); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return props, nil
}
