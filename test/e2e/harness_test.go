package e2e

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	httpapi "github.com/harborlane/sheetrate/internal/http"
	"github.com/harborlane/sheetrate/internal/rates"
	"github.com/harborlane/sheetrate/internal/service"
	"github.com/harborlane/sheetrate/internal/store"
	"github.com/harborlane/sheetrate/internal/store/drivers/sqlite"
	"github.com/harborlane/sheetrate/internal/workbook"
	"github.com/harborlane/sheetrate/pkg/cryptox"
	"github.com/harborlane/sheetrate/pkg/jwtx"
	"github.com/harborlane/sheetrate/pkg/panelsdk"
	"github.com/harborlane/sheetrate/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "sheetrate-e2e-*")
	if err != nil {
		panic(err)
	}
	cryptox.SetPepperPath(filepath.Join(dir, "pepper"))

	code := m.Run()
	_ = os.RemoveAll(dir)
	os.Exit(code)
}

// fakeRateAPI is a stand-in for the exchange-rate REST endpoint. Rates are
// keyed by base code; the response shape matches the real API.
type fakeRateAPI struct {
	mu    sync.Mutex
	rates map[string]map[string]float64
	down  bool
}

func newFakeRateAPI() *fakeRateAPI {
	return &fakeRateAPI{
		rates: map[string]map[string]float64{
			"USD": {"EUR": 2.0, "AUD": 1.5, "GBP": 0.8, "USD": 1.0},
		},
	}
}

func (f *fakeRateAPI) setRate(base, target string, rate float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rates[base] == nil {
		f.rates[base] = map[string]float64{}
	}
	f.rates[base][target] = rate
}

func (f *fakeRateAPI) setDown(down bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.down = down
}

func (f *fakeRateAPI) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if f.down {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		base := strings.TrimPrefix(r.URL.Path, "/")
		table, ok := f.rates[base]
		if !ok {
			// Real API still answers for unknown bases; mimic an empty table.
			table = map[string]float64{}
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"result":    "success",
			"base_code": base,
			"rates":     table,
		})
	}
}

// testEnv is one fully wired in-process deployment.
type testEnv struct {
	client  *panelsdk.Client
	host    *workbook.MemoryHost
	rateAPI *fakeRateAPI
	store   store.Store
}

func newTestEnv(t *testing.T, bootstrapToken string) *testEnv {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	rateAPI := newFakeRateAPI()
	rateSrv := httptest.NewServer(rateAPI.handler())
	t.Cleanup(rateSrv.Close)

	host := workbook.NewMemoryHost(nil)

	signer, err := jwtx.NewEphemeralSigner()
	require.NoError(t, err)

	const issuer = "sheetrate-e2e"

	converter := service.NewConverterService(rates.NewClient(rateSrv.URL), host)
	accounts := &service.AccountService{
		Store:    st,
		Signer:   signer,
		Issuer:   issuer,
		Observer: converter,
	}

	logger := slogx.New(slogx.Config{Service: "sheetrate", Env: "dev", Level: "error", Format: "text"})

	router := httpapi.NewRouter(signer, signer.Verifier(issuer), "e2e", st, logger)
	router.AccountService = accounts
	router.DirectoryService = &service.DirectoryService{Store: st}
	router.ConverterService = converter
	router.BootstrapService = &service.BootstrapService{Store: st, Token: bootstrapToken}
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{
		client:  panelsdk.NewClient(srv.URL),
		host:    host,
		rateAPI: rateAPI,
		store:   st,
	}
}
