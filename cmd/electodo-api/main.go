package main

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/electodo/electodo/api/handlers"
	"github.com/electodo/electodo/internal/auth"
	"github.com/electodo/electodo/internal/config"
	"github.com/electodo/electodo/internal/repository"
	"github.com/electodo/electodo/internal/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	secret := cfg.Auth.JWTSecret
	if secret == "" {
		// Sessions die with the process, but the server stays usable for
		// local development.
		secret = randomSecret()
		log.Warn("JWT_SECRET not set; using an ephemeral secret, sessions will not survive restarts")
	}
	authManager := auth.NewManager(secret, cfg.Auth.SessionTTL)

	var dataStore *store.Store
	if cfg.DatabaseConfigured() {
		db, err := repository.NewDatabase(cfg)
		if err != nil {
			log.WithError(err).Fatal("failed to connect to database")
		}
		dataStore = store.New(db)
	} else {
		log.Warn("database not configured; serving in degraded mode")
	}

	handler := handlers.New(dataStore, authManager, log)

	r := gin.Default()
	handler.Register(r)

	log.WithField("addr", cfg.Addr()).Info("starting server")
	if err := r.Run(cfg.Addr()); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}

func randomSecret() string {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
