package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/harborlane/sheetrate/internal/domain"
	"github.com/harborlane/sheetrate/internal/store"
	"github.com/harborlane/sheetrate/pkg/cryptox"
	"github.com/harborlane/sheetrate/pkg/idx"
	"github.com/harborlane/sheetrate/pkg/slogx"
)

var (
	ErrBootstrapAlready      = errors.New("system already bootstrapped")
	ErrBootstrapUnauthorized = errors.New("unauthorized bootstrap attempt")
	ErrBootstrapDisabled     = errors.New("bootstrap is not configured")
)

// BootstrapService creates the first admin account. It only works while the
// directory is empty and requires the pre-configured bootstrap token, so a
// fresh deployment gets exactly one admin and the endpoint is inert after.
type BootstrapService struct {
	Store store.Store
	Token string // Pre-configured bootstrap token; empty disables bootstrap
}

// Bootstrap validates the token and creates the admin account.
func (s *BootstrapService) Bootstrap(ctx context.Context, token, email, password, displayName string) (string, error) {
	l := slogx.FromContext(ctx)

	if s.Token == "" {
		return "", ErrBootstrapDisabled
	}

	// 1. Validate provided token. Comparing fingerprints keeps the inputs a
	// fixed length, so the compare cannot leak the configured token's length.
	if subtle.ConstantTimeCompare(
		[]byte(cryptox.FingerprintToken(token)),
		[]byte(cryptox.FingerprintToken(s.Token)),
	) != 1 {
		l.Warn("unauthorized bootstrap attempt")
		return "", ErrBootstrapUnauthorized
	}

	// 2. Refuse once any account exists
	empty, err := s.Store.Accounts().IsEmpty(ctx)
	if err != nil {
		return "", err
	}
	if !empty {
		l.Warn("attempted bootstrap on already-bootstrapped system")
		return "", ErrBootstrapAlready
	}

	// 3. Validate and create the admin account
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if err := validateRegistration(email, password, displayName); err != nil {
		return "", err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash admin password", slog.Any("error", err))
		return "", err
	}

	adminID := idx.New().String()
	err = s.Store.Accounts().CreateAccount(ctx, domain.Account{
		ID:           adminID,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		IsAdmin:      true,
	})
	if err != nil {
		l.Error("failed to create admin account", slog.Any("error", err))
		return "", err
	}

	l.Info("successfully bootstrapped system", slog.String("admin_id", adminID))
	return adminID, nil
}
