package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/wishlane/landing/internal/cart"
	"github.com/wishlane/landing/internal/config"
	"github.com/wishlane/landing/internal/content"
	"github.com/wishlane/landing/internal/identity"
)

// loadConfig loads path, or ./landing.json when path is empty and the
// file exists, or the defaults plus environment otherwise.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if _, err := os.Stat(config.ConfigFileName); err == nil {
			path = config.ConfigFileName
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return config.Load(path)
}

// contentSource builds the configured content source.
func contentSource(c config.ContentConfig) content.Source {
	switch c.Source {
	case config.SourceFile:
		return content.Dir(c.Dir)
	case config.SourceS3:
		client := content.NewS3Client(content.S3Config{
			Region:          c.Region,
			Endpoint:        c.Endpoint,
			PathStyle:       c.PathStyle,
			AccessKeyID:     c.AccessKeyID,
			SecretAccessKey: c.SecretAccessKey,
		})
		return content.NewS3Source(client, c.Bucket, c.Prefix)
	default:
		return content.Embedded()
	}
}

// newStore creates an unloaded content store for cfg.
func newStore(cfg *config.Config, logger *slog.Logger) *content.Store {
	return content.NewStore(
		contentSource(cfg.Content),
		cfg.Content.DefaultLocale,
		content.WithLogger(logger),
	)
}

// authenticator reads the shared auth cookie when a secret is configured.
func authenticator(cfg config.AuthConfig, logger *slog.Logger) identity.Authenticator {
	if cfg.Secret == "" {
		logger.Warn("auth.secret not set, every visitor is anonymous")
		return identity.Anonymous{}
	}
	return identity.NewCookieAuthenticator(cfg.CookieName, []byte(cfg.Secret), identity.WithLogger(logger))
}

func cartCounter(cfg config.CartConfig) cart.Counter {
	return cart.CookieCounter{Name: cfg.CookieName}
}
