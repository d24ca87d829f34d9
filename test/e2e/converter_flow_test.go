package e2e

import (
	"context"
	"testing"

	"github.com/harborlane/sheetrate/pkg/panelsdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertFlow(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	sess, err := env.client.Register(ctx, "user@example.com", "a long password", "User")
	require.NoError(t, err)

	// Login loaded the currency set; the picker has codes immediately.
	codes, err := sess.Currencies(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"AUD", "EUR", "GBP", "USD"}, codes)

	// Substring filter.
	codes, err = sess.Currencies(ctx, "u")
	require.NoError(t, err)
	assert.Equal(t, []string{"AUD", "EUR", "USD"}, codes)

	require.NoError(t, sess.Select(ctx, "from", "USD"))
	require.NoError(t, sess.Select(ctx, "to", "EUR"))

	sel, err := sess.Selection(ctx)
	require.NoError(t, err)
	assert.Equal(t, panelsdk.SelectionResponse{From: "USD", To: "EUR"}, sel)

	env.host.SetCell(100.0)

	res, err := sess.Convert(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Converted 100 USD → 200.00 EUR", res.Message)
	assert.Equal(t, 200.0, res.Converted)
	assert.Equal(t, 200.0, env.host.Cell())

	// Slots cleared after the successful run.
	sel, err = sess.Selection(ctx)
	require.NoError(t, err)
	assert.Equal(t, panelsdk.SelectionResponse{}, sel)
}

func TestConvertNonNumericCell(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	sess, err := env.client.Register(ctx, "user@example.com", "a long password", "User")
	require.NoError(t, err)

	require.NoError(t, sess.Select(ctx, "from", "USD"))
	require.NoError(t, sess.Select(ctx, "to", "EUR"))

	env.host.SetCell("not a number")

	_, err = sess.Convert(ctx)
	var apiErr *panelsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, panelsdk.ErrorCodeInvalidCellValue, apiErr.Code)
	assert.Equal(t, "Selected cell must contain a number", apiErr.Description)

	// Cell untouched, selection preserved for a retry.
	assert.Equal(t, "not a number", env.host.Cell())
	sel, err := sess.Selection(ctx)
	require.NoError(t, err)
	assert.Equal(t, panelsdk.SelectionResponse{From: "USD", To: "EUR"}, sel)
}

func TestConvertWithoutSelection(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	sess, err := env.client.Register(ctx, "user@example.com", "a long password", "User")
	require.NoError(t, err)

	env.host.SetCell(100.0)

	_, err = sess.Convert(ctx)
	var apiErr *panelsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, panelsdk.ErrorCodeSelectionIncomplete, apiErr.Code)
}

func TestSelectUnknownCurrency(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	sess, err := env.client.Register(ctx, "user@example.com", "a long password", "User")
	require.NoError(t, err)

	err = sess.Select(ctx, "from", "DOGE")
	var apiErr *panelsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, panelsdk.ErrorCodeUnknownCurrency, apiErr.Code)

	sel, err := sess.Selection(ctx)
	require.NoError(t, err)
	assert.Equal(t, panelsdk.SelectionResponse{}, sel)
}

func TestRefreshFailureKeepsStaleSet(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	sess, err := env.client.Register(ctx, "user@example.com", "a long password", "User")
	require.NoError(t, err)

	env.rateAPI.setDown(true)

	err = sess.RefreshCurrencies(ctx)
	var apiErr *panelsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, panelsdk.ErrorCodeRateFetchFailed, apiErr.Code)

	// The set loaded at login is still served.
	codes, err := sess.Currencies(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"AUD", "EUR", "GBP", "USD"}, codes)
}

func TestSelectionReset(t *testing.T) {
	env := newTestEnv(t, "")
	ctx := context.Background()

	sess, err := env.client.Register(ctx, "user@example.com", "a long password", "User")
	require.NoError(t, err)

	require.NoError(t, sess.Select(ctx, "from", "USD"))
	require.NoError(t, sess.ResetSelection(ctx))

	sel, err := sess.Selection(ctx)
	require.NoError(t, err)
	assert.Equal(t, panelsdk.SelectionResponse{}, sel)
}
