package workbook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBridgeReadSelectedCell(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/selection/read", r.URL.Path)
		w.Write([]byte(`{"values":[[42.5,"ignored"],["also ignored"]]}`))
	}))
	t.Cleanup(srv.Close)

	b := NewBridge(srv.URL)
	v, err := b.ReadSelectedCell(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42.5, v)
}

func TestBridgeReadEmptySelection(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"values":[]}`))
	}))
	t.Cleanup(srv.Close)

	b := NewBridge(srv.URL)
	_, err := b.ReadSelectedCell(context.Background())
	require.ErrorIs(t, err, ErrNoSelection)
}

func TestBridgeWriteSelectedCell(t *testing.T) {
	t.Parallel()

	var got map[string]float64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/selection/write", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	b := NewBridge(srv.URL)
	require.NoError(t, b.WriteSelectedCell(context.Background(), 200))
	assert.Equal(t, 200.0, got["value"])
}

func TestBridgeWriteHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	b := NewBridge(srv.URL)
	require.Error(t, b.WriteSelectedCell(context.Background(), 1))
}

func TestMemoryHostRoundTrip(t *testing.T) {
	t.Parallel()

	h := NewMemoryHost("100")
	v, err := h.ReadSelectedCell(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "100", v)

	require.NoError(t, h.WriteSelectedCell(context.Background(), 150))
	assert.Equal(t, 150.0, h.Cell())
}
