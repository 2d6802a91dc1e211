package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/ytakahashi/todo-api/internal/auth"
	"github.com/ytakahashi/todo-api/internal/config"
	"github.com/ytakahashi/todo-api/internal/handlers"
	"github.com/ytakahashi/todo-api/internal/logger"
	"github.com/ytakahashi/todo-api/internal/services"
)

//	@title			Todo List Api with JWT Authentication
//	@version		V1
//	@description	Todo List Api with JWT Authentication

//	@contact.name	Adrian Aguer Pintos
//	@contact.url	https://www.linkedin.com/in/adrianag95/
//	@contact.email	adri.rp4@hotmail.com

//	@license.name	Free License

//	@BasePath	/

//	@securityDefinitions.apikey	Bearer
//	@in							header
//	@name						Authorization
//	@description				JSON Web Token based security. Enter "Bearer {token}".

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to a TOML configuration file")
	flag.Parse()

	envErr := godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	if envErr != nil {
		log.Debug().Msg("no .env file found")
	}

	dataSource, err := cfg.DataSource()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid connection string")
	}

	sqliteService, err := services.NewSQLiteService(dataSource)
	if err != nil {
		log.Fatal().Err(err).Str("data_source", dataSource).Msg("failed to open database")
	}
	defer func() {
		if err := sqliteService.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	if cfg.Database.Seed {
		seeded, err := sqliteService.SeedItems(context.Background())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed items")
		}
		log.Info().Int("count", seeded).Msg("seeded sample items")
	}

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	e := handlers.NewRouter(sqliteService, issuer)

	go func() {
		log.Info().Str("addr", cfg.Server.Address).Str("data_source", dataSource).Msg("server starting")
		if err := e.Start(cfg.Server.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	} else {
		log.Info().Msg("server shutdown complete")
	}
}
