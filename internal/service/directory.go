package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/harborlane/sheetrate/internal/domain"
	"github.com/harborlane/sheetrate/internal/store"
	"github.com/harborlane/sheetrate/pkg/slogx"
)

var (
	ErrNotAuthorized       = errors.New("not_authorized")
	ErrSelfTargetForbidden = errors.New("self_target_forbidden")
	ErrAccountNotFound     = errors.New("account_not_found")
)

// DirectoryService manages the account directory. Mutations pass through the
// authorization gate: the acting account is re-read from the store on every
// call, so a just-demoted admin loses the ability immediately, and nobody can
// change or delete their own account.
type DirectoryService struct {
	Store store.Store
}

// List returns every account in storage order.
func (s *DirectoryService) List(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.Store.Accounts().ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// Get returns one account by ID.
func (s *DirectoryService) Get(ctx context.Context, id string) (domain.Account, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}

// IsAdmin reports whether the account currently has the admin role, read
// fresh from the store.
func (s *DirectoryService) IsAdmin(ctx context.Context, accountID string) (bool, error) {
	account, err := s.Store.Accounts().GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return account.IsAdmin, nil
}

// SetAdmin grants or revokes the admin role on the target account.
func (s *DirectoryService) SetAdmin(ctx context.Context, actingID, targetID string, admin bool) error {
	if err := s.authorize(ctx, actingID, targetID); err != nil {
		return err
	}

	if err := s.Store.Accounts().SetAdmin(ctx, targetID, admin); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("set admin: %w", err)
	}

	slogx.FromContext(ctx).Info("admin role changed",
		slog.String("acting_id", actingID),
		slog.String("target_id", targetID),
		slog.Bool("is_admin", admin),
	)
	return nil
}

// Delete removes the target account. The account row is the login credential,
// so this also revokes the ability to sign in, and the target's sessions go
// with the row.
func (s *DirectoryService) Delete(ctx context.Context, actingID, targetID string) error {
	if err := s.authorize(ctx, actingID, targetID); err != nil {
		return err
	}

	// Revoke the target's live sessions before the row goes. The schema
	// cascade removes the session rows with the account, but revocation must
	// not depend on the driver honouring it.
	if err := s.Store.Sessions().RevokeAccountSessions(ctx, targetID); err != nil {
		return fmt.Errorf("revoke sessions: %w", err)
	}

	if err := s.Store.Accounts().DeleteAccount(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}

	slogx.FromContext(ctx).Info("account deleted",
		slog.String("acting_id", actingID),
		slog.String("target_id", targetID),
	)
	return nil
}

// authorize is the gate in front of every directory mutation. The order is
// fixed: fresh self re-read, then the admin check, then the self-target
// check. No mutation happens on any failure. The read and the mutation are
// not wrapped in one transaction; a demotion racing a mutation can let one
// last change through, which is accepted.
func (s *DirectoryService) authorize(ctx context.Context, actingID, targetID string) error {
	acting, err := s.Store.Accounts().GetAccountByID(ctx, actingID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotAuthorized
		}
		return err
	}
	if !acting.IsAdmin {
		return ErrNotAuthorized
	}
	if targetID == acting.ID {
		return ErrSelfTargetForbidden
	}
	return nil
}
