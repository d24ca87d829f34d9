package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestLoadAllSortedUniqueWithBase(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/USD", r.URL.Path)
		w.Write([]byte(`{"result":"success","base_code":"USD","rates":{"EUR":0.9,"JPY":150.2,"AUD":1.5}}`))
	})

	set, err := c.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"AUD", "EUR", "JPY", "USD"}, set.All())
}

func TestLoadAllAcceptsBaseKey(t *testing.T) {
	t.Parallel()

	// Some servers name the base currency "base" rather than "base_code".
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","base":"USD","rates":{"EUR":0.9,"JPY":150.2}}`))
	})

	set, err := c.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"EUR", "JPY", "USD"}, set.All())
}

func TestLoadAllHTTPError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.LoadAll(context.Background())
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "load_all", fe.Op)
}

func TestLoadAllBadPayload(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"error"}`))
	})

	_, err := c.LoadAll(context.Background())
	require.Error(t, err)
}

func TestGetRate(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/GBP", r.URL.Path)
		w.Write([]byte(`{"result":"success","base_code":"GBP","rates":{"USD":1.27,"EUR":1.17}}`))
	})

	rate, err := c.GetRate(context.Background(), "GBP", "USD")
	require.NoError(t, err)
	assert.InDelta(t, 1.27, rate, 1e-9)
}

func TestGetRateMissingTargetNamesCode(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","base_code":"GBP","rates":{"USD":1.27}}`))
	})

	_, err := c.GetRate(context.Background(), "GBP", "XYZ")
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "XYZ", fe.Code)
	assert.Contains(t, fe.Error(), "XYZ")
}

func TestGetRateRejectsUnusableRate(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","base_code":"GBP","rates":{"USD":0}}`))
	})

	_, err := c.GetRate(context.Background(), "GBP", "USD")
	require.Error(t, err)
}
