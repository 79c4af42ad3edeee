package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dimitrije/lockbox-api/internal/config"
	"github.com/dimitrije/lockbox-api/internal/database"
	"github.com/dimitrije/lockbox-api/internal/logging"
	"github.com/dimitrije/lockbox-api/internal/services"
	"github.com/rs/zerolog/log"
)

// reset-2fa turns two-factor authentication off for an account whose owner
// lost their authenticator. The password is still required to log in.
func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: reset-2fa <email>")
		os.Exit(1)
	}

	email := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := logging.New(cfg.Env, cfg.LogLevel)

	ctx := context.Background()

	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	users := services.NewUserService(db)

	user, err := users.GetByEmail(ctx, email)
	if errors.Is(err, services.ErrUserNotFound) {
		logger.Fatal().Str("email", email).Msg("no user found")
	}
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load user")
	}

	if err := users.DisableTwoFactor(ctx, user.ID); err != nil {
		logger.Fatal().Err(err).Msg("failed to disable 2FA")
	}

	fmt.Printf("Two-factor authentication disabled for %s\n", email)
}
