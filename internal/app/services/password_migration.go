package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/ssis/internal/pkg/auth"
	"github.com/yigit/ssis/internal/pkg/metrics"
)

// PasswordMigrator hashes every stored password that is still plaintext
type PasswordMigrator struct {
	store  PasswordTransactor
	logger zerolog.Logger
}

// NewPasswordMigrator creates a new password migrator
func NewPasswordMigrator(store PasswordTransactor, logger zerolog.Logger) *PasswordMigrator {
	return &PasswordMigrator{
		store:  store,
		logger: logger.With().Str("service", "password_migration").Logger(),
	}
}

// Run rewrites plaintext passwords as bcrypt hashes in a single transaction and
// returns the number of rows updated. Rows already hashed are left alone, so
// running it again updates nothing. Plaintext longer than bcrypt accepts is
// skipped and stays usable for plaintext login.
func (m *PasswordMigrator) Run(ctx context.Context) (int, error) {
	updated, skipped := 0, 0

	err := m.store.TransactPasswords(ctx, func(ctx context.Context, store PasswordStore) error {
		rows, err := store.ListStoredPasswords(ctx)
		if err != nil {
			return err
		}

		for _, row := range rows {
			if !auth.ParseCredential(row.Password).NeedsRehash() {
				continue
			}
			if len(row.Password) > auth.MaxPasswordBytes {
				m.logger.Warn().Int64("userID", row.UserID).Msg("Password too long to hash, skipping")
				skipped++
				continue
			}
			hash, err := auth.HashPassword(row.Password)
			if err != nil {
				return fmt.Errorf("error hashing password for user %d: %w", row.UserID, err)
			}
			if err := store.UpdatePassword(ctx, row.UserID, hash); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	metrics.RecordRehash(updated)
	m.logger.Info().Int("updated", updated).Int("skipped", skipped).Msg("Password migration finished")
	return updated, nil
}
