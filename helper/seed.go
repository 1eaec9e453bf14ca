package helper

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docemania/config"
	"docemania/internal/domains/user/model"
	"docemania/internal/domains/user/repository"
	"docemania/shared"
	"docemania/shared/constant"
	gModel "docemania/shared/model"
	"docemania/shared/password"
	"docemania/shared/timezone"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const seedUser = "seeder"

var ErrMissingAdminCredentials = errors.New("ADMIN_EMAIL and ADMIN_PASSWORD are required")

// SeedAdmin creates the configured admin account unless one with the same email exists.
// It reports whether a new account was inserted.
func SeedAdmin(ctx context.Context, config *config.Config, users repository.User) (bool, error) {
	email := strings.ToLower(strings.TrimSpace(config.Admin.Email))
	if email == constant.Empty || config.Admin.Password == constant.Empty {
		return false, ErrMissingAdminCredentials
	}

	filter := shared.FilterByID(email, model.FieldEmail, model.TableName)

	exists, err := users.Exist(ctx, filter)
	if err != nil {
		return false, fmt.Errorf("failed to check admin user: %w", err)
	}

	if exists {
		log.Info().Str("email", email).Msg("Admin user already exists, skipping seed")

		return false, nil
	}

	hash, err := password.Hash(config.Admin.Password)
	if err != nil {
		return false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := model.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hash,
		FullName: config.Admin.FullName,
		Active:   true,
		Metadata: gModel.NewMetadata(timezone.Now(), seedUser),
	}

	if err := users.Insert(ctx, user); err != nil {
		return false, fmt.Errorf("failed to insert admin user: %w", err)
	}

	log.Info().Str("email", email).Msg("Admin user seeded")

	return true, nil
}
