package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harborlane/sheetrate/internal/domain"
	"github.com/harborlane/sheetrate/internal/store"
	"github.com/harborlane/sheetrate/internal/store/drivers/sqlite"
	"github.com/harborlane/sheetrate/pkg/cryptox"
	"github.com/harborlane/sheetrate/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

const (
	testWaitLong = 2 * time.Second
	testWaitTick = 5 * time.Millisecond
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "sheetrate-service-test-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func newAccountService(t *testing.T, st store.Store) *AccountService {
	t.Helper()

	signer, err := jwtx.NewEphemeralSigner()
	require.NoError(t, err)

	return &AccountService{
		Store:  st,
		Signer: signer,
		Issuer: "sheetrate-test",
	}
}

// mustRegister registers an account and returns its token result.
func mustRegister(t *testing.T, svc *AccountService, email string) *TokenResult {
	t.Helper()

	res, err := svc.Register(context.Background(), email, "correct horse battery", "Test User")
	require.NoError(t, err)
	return res
}

// mustAdmin creates an account and flips it to admin directly in the store.
func mustAdmin(t *testing.T, svc *AccountService, st store.Store, email string) domain.Account {
	t.Helper()

	res := mustRegister(t, svc, email)
	require.NoError(t, st.Accounts().SetAdmin(context.Background(), res.Account.ID, true))
	res.Account.IsAdmin = true
	return res.Account
}
