package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/harborlane/sheetrate/internal/domain"
	"github.com/harborlane/sheetrate/internal/store"
	"github.com/harborlane/sheetrate/pkg/cryptox"
	"github.com/harborlane/sheetrate/pkg/idx"
	"github.com/harborlane/sheetrate/pkg/jwtx"
	"github.com/harborlane/sheetrate/pkg/slogx"
)

const MinPasswordLength = 8

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrEmailTaken         = errors.New("email_taken")
	ErrInvalidInput       = errors.New("invalid_input")
)

// SessionObserver is notified when panel sessions begin and end so that
// per-session converter state can be set up and torn down.
type SessionObserver interface {
	SessionStarted(ctx context.Context, sessionID string)
	SessionEnded(sessionID string)
}

// TokenResult is what a successful register or login hands back to the panel.
type TokenResult struct {
	AccessToken string
	ExpiresIn   time.Duration
	Account     domain.Account
}

// AccountService owns registration, login, logout, and the self-read that
// drives which region of the panel renders.
type AccountService struct {
	Store      store.Store
	Signer     *jwtx.Signer
	Issuer     string
	SessionTTL time.Duration

	// Observer is optional; when set it is told about session lifecycle so
	// the converter can initialise its state at login.
	Observer SessionObserver
}

// Register creates an account and signs it in. New accounts are never admins.
func (s *AccountService) Register(ctx context.Context, email, password, displayName string) (*TokenResult, error) {
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)
	if err := validateRegistration(email, password, displayName); err != nil {
		return nil, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		l.Error("failed to hash password", slog.Any("error", err))
		return nil, err
	}

	account := domain.Account{
		ID:           idx.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
		IsAdmin:      false,
	}

	if err := s.Store.Accounts().CreateAccount(ctx, account); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	l.Info("account registered", slog.String("account_id", account.ID))
	return s.startSession(ctx, account)
}

// Login verifies the credentials and mints a session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	l := slogx.FromContext(ctx)

	email = strings.ToLower(strings.TrimSpace(email))

	account, err := s.Store.Accounts().GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn a hash verification anyway so the response time does not
			// reveal whether the email exists.
			_ = cryptox.VerifyPassword(password, dummyHash())
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := cryptox.VerifyPassword(password, account.PasswordHash); err != nil {
		l.Info("login failed", slog.String("account_id", account.ID))
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, account)
}

// Logout revokes the session row and drops the session's converter state.
// Revoking an already-revoked or unknown session is not an error.
func (s *AccountService) Logout(ctx context.Context, sessionID string) error {
	if err := s.Store.Sessions().RevokeSession(ctx, sessionID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return err
	}
	if s.Observer != nil {
		s.Observer.SessionEnded(sessionID)
	}
	return nil
}

// Me returns a fresh read of the account. Admin state is never trusted from
// the token; the panel decides whether to render the admin region from this.
func (s *AccountService) Me(ctx context.Context, accountID string) (domain.Account, error) {
	return s.Store.Accounts().GetAccountByID(ctx, accountID)
}

// SessionLive reports whether the session row exists, is unrevoked, and is
// unexpired. Used by the authn middleware on every request.
func (s *AccountService) SessionLive(ctx context.Context, sessionID string) (bool, error) {
	sess, err := s.Store.Sessions().GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return sess.Live(time.Now().UTC()), nil
}

// startSession persists a session row, signs the token, and notifies the
// observer so converter state exists before the panel's first request.
func (s *AccountService) startSession(ctx context.Context, account domain.Account) (*TokenResult, error) {
	l := slogx.FromContext(ctx)
	now := time.Now().UTC()

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	sess := domain.Session{
		ID:        idx.New().String(),
		AccountID: account.ID,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.Store.Sessions().CreateSession(ctx, sess); err != nil {
		return nil, err
	}

	claims := jwtx.NewSessionClaims(account.ID, sess.ID, account.Email, account.DisplayName, s.Issuer, ttl, now)
	token, err := s.Signer.Sign(claims)
	if err != nil {
		l.Error("failed to sign session token", slog.Any("error", err))
		return nil, err
	}

	if s.Observer != nil {
		s.Observer.SessionStarted(ctx, sess.ID)
	}

	l.Info("session started",
		slog.String("account_id", account.ID),
		slog.String("session_id", sess.ID),
	)
	return &TokenResult{AccessToken: token, ExpiresIn: ttl, Account: account}, nil
}

func validateRegistration(email, password, displayName string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidInput
	}
	if len(password) < MinPasswordLength {
		return ErrInvalidInput
	}
	if displayName == "" {
		return ErrInvalidInput
	}
	return nil
}

// dummyHash is a throwaway argon2 hash used to equalise timing on unknown
// emails. Verifying against it always fails. Computed on first use, not at
// package init, so the pepper path is configured before any hashing happens.
var dummyHash = sync.OnceValue(func() string {
	h, err := cryptox.HashPassword("timing-equalizer-only")
	if err != nil {
		return ""
	}
	return h
})
