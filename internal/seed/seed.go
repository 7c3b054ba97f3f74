package seed

import (
	"context"

	"github.com/rs/zerolog"
	appServices "github.com/yigit/ssis/internal/app/services"
)

// CreateDefaultData creates the bootstrap admin account when no user exists yet.
// Nothing is created when either credential is empty.
func CreateDefaultData(ctx context.Context, users appServices.UserService, username, password string, lgr zerolog.Logger) error {
	if username == "" || password == "" {
		lgr.Debug().Msg("No bootstrap admin configured, skipping default data")
		return nil
	}

	lgr.Info().Msg("Checking/Creating default admin user...")
	created, err := users.EnsureAdmin(ctx, username, password)
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default admin user")
		return err
	}
	if created {
		lgr.Info().Str("username", username).Msg("Default admin user created")
	}
	return nil
}
