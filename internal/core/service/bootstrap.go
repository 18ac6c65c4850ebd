package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/openlearn/education-platform/internal/core/domain"
	"github.com/openlearn/education-platform/internal/core/ports"
)

// BootstrapAdmin creates the initial admin account when none exists.
// Idempotent: a second run against a store that already holds an admin is a
// no-op. The generated password is logged exactly once; it is never stored
// anywhere else in plaintext.
func BootstrapAdmin(ctx context.Context, repo ports.UserRepository, hasher ports.PasswordHasher, username string, log zerolog.Logger) error {
	if username == "" {
		username = "admin"
	}

	has, err := repo.HasAdmin(ctx)
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	password, err := randomPassword(24)
	if err != nil {
		return err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	admin := &domain.User{
		Username:     username,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := repo.Create(ctx, admin); err != nil {
		// Another instance won the race; the admin exists either way.
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return err
	}

	log.Warn().
		Str("username", username).
		Str("password", password).
		Msg("initial admin created; change this password immediately")
	return nil
}

func randomPassword(length int) (string, error) {
	raw := make([]byte, length)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw)[:length], nil
}
