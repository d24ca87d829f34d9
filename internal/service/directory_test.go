package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListReturnsStorageOrder(t *testing.T) {
	st := newTestStore(t)
	accSvc := newAccountService(t, st)
	dir := &DirectoryService{Store: st}
	ctx := context.Background()

	emails := []string{"z@example.com", "a@example.com", "m@example.com"}
	for _, e := range emails {
		mustRegister(t, accSvc, e)
	}

	accounts, err := dir.List(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	for i, e := range emails {
		assert.Equal(t, e, accounts[i].Email)
	}
}

func TestSetAdminAuthorized(t *testing.T) {
	st := newTestStore(t)
	accSvc := newAccountService(t, st)
	dir := &DirectoryService{Store: st}
	ctx := context.Background()

	admin := mustAdmin(t, accSvc, st, "admin@example.com")
	target := mustRegister(t, accSvc, "target@example.com").Account

	require.NoError(t, dir.SetAdmin(ctx, admin.ID, target.ID, true))

	got, err := dir.Get(ctx, target.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	// Revoking works the same way.
	require.NoError(t, dir.SetAdmin(ctx, admin.ID, target.ID, false))
	got, err = dir.Get(ctx, target.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAdmin)
}

func TestSetAdminRejectsNonAdmin(t *testing.T) {
	st := newTestStore(t)
	accSvc := newAccountService(t, st)
	dir := &DirectoryService{Store: st}
	ctx := context.Background()

	acting := mustRegister(t, accSvc, "pleb@example.com").Account
	target := mustRegister(t, accSvc, "target@example.com").Account

	err := dir.SetAdmin(ctx, acting.ID, target.ID, true)
	require.ErrorIs(t, err, ErrNotAuthorized)

	// No mutation happened.
	got, err := dir.Get(ctx, target.ID)
	require.NoError(t, err)
	assert.False(t, got.IsAdmin)
}

func TestSetAdminRejectsSelfTarget(t *testing.T) {
	st := newTestStore(t)
	accSvc := newAccountService(t, st)
	dir := &DirectoryService{Store: st}
	ctx := context.Background()

	admin := mustAdmin(t, accSvc, st, "admin@example.com")

	err := dir.SetAdmin(ctx, admin.ID, admin.ID, false)
	require.ErrorIs(t, err, ErrSelfTargetForbidden)

	// Still an admin.
	got, err := dir.Get(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)
}

func TestAdminCheckIsFresh(t *testing.T) {
	st := newTestStore(t)
	accSvc := newAccountService(t, st)
	dir := &DirectoryService{Store: st}
	ctx := context.Background()

	admin := mustAdmin(t, accSvc, st, "admin@example.com")
	target := mustRegister(t, accSvc, "target@example.com").Account

	// Demote behind the service's back; the next mutation must be refused.
	require.NoError(t, st.Accounts().SetAdmin(ctx, admin.ID, false))

	err := dir.SetAdmin(ctx, admin.ID, target.ID, true)
	require.ErrorIs(t, err, ErrNotAuthorized)
}

func TestDeleteRevokesLoginAndSessions(t *testing.T) {
	st := newTestStore(t)
	accSvc := newAccountService(t, st)
	dir := &DirectoryService{Store: st}
	ctx := context.Background()

	admin := mustAdmin(t, accSvc, st, "admin@example.com")
	targetRes := mustRegister(t, accSvc, "target@example.com")

	claims, err := accSvc.Signer.Verifier(accSvc.Issuer).Verify(targetRes.AccessToken)
	require.NoError(t, err)

	require.NoError(t, dir.Delete(ctx, admin.ID, targetRes.Account.ID))

	// Directory record gone.
	_, err = dir.Get(ctx, targetRes.Account.ID)
	require.ErrorIs(t, err, ErrAccountNotFound)

	// Login credential gone with the row.
	_, err = accSvc.Login(ctx, "target@example.com", "correct horse battery")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	// Live session revoked explicitly and removed with the row.
	live, err := accSvc.SessionLive(ctx, claims.SID)
	require.NoError(t, err)
	assert.False(t, live)
}

func TestDeleteRejectsSelfTarget(t *testing.T) {
	st := newTestStore(t)
	accSvc := newAccountService(t, st)
	dir := &DirectoryService{Store: st}
	ctx := context.Background()

	admin := mustAdmin(t, accSvc, st, "admin@example.com")

	err := dir.Delete(ctx, admin.ID, admin.ID)
	require.ErrorIs(t, err, ErrSelfTargetForbidden)

	_, err = dir.Get(ctx, admin.ID)
	require.NoError(t, err)
}

func TestDeleteUnknownTarget(t *testing.T) {
	st := newTestStore(t)
	accSvc := newAccountService(t, st)
	dir := &DirectoryService{Store: st}
	ctx := context.Background()

	admin := mustAdmin(t, accSvc, st, "admin@example.com")

	err := dir.Delete(ctx, admin.ID, "no-such-account")
	require.ErrorIs(t, err, ErrAccountNotFound)
}

func TestIsAdmin(t *testing.T) {
	st := newTestStore(t)
	accSvc := newAccountService(t, st)
	dir := &DirectoryService{Store: st}
	ctx := context.Background()

	admin := mustAdmin(t, accSvc, st, "admin@example.com")
	user := mustRegister(t, accSvc, "user@example.com").Account

	ok, err := dir.IsAdmin(ctx, admin.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = dir.IsAdmin(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// Unknown accounts are simply not admins.
	ok, err = dir.IsAdmin(ctx, "ghost")
	require.NoError(t, err)
	assert.False(t, ok)
}
