// Command token prints a bearer token accepted by the todo API.
//
//	token -sub alice -ttl 30m
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/ytakahashi/todo-api/internal/auth"
	"github.com/ytakahashi/todo-api/internal/config"
	"github.com/ytakahashi/todo-api/internal/logger"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to a TOML configuration file")
	subject := flag.String("sub", "", "token subject (required)")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to auth.token_ttl_minutes")
	flag.Parse()

	envErr := godotenv.Load()
	logger.InitWithWriter(os.Stderr, "info", "console")
	if envErr != nil {
		log.Debug().Msg("no .env file found")
	}

	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.Issuer, time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute)
	token, err := issuer.Issue(*subject, *ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to issue token")
	}

	fmt.Println(token)
}
