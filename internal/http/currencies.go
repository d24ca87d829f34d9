package http

import (
	"net/http"

	"github.com/harborlane/sheetrate/internal/service"
	"github.com/harborlane/sheetrate/pkg/httpx"
	"github.com/harborlane/sheetrate/pkg/panelsdk"
)

type CurrenciesHandler struct {
	ConverterService *service.ConverterService
}

// HandleList returns picker codes for the query.
//
//	@Summary		List currencies
//	@Description	Returns currency codes matching the q filter, alphabetical and capped. An empty filter lists the first page of the full set.
//	@Tags			Converter
//	@Security		BearerAuth
//	@Produce		json
//	@Param			q	query		string							false	"Substring filter, case-insensitive"
//	@Success		200	{object}	panelsdk.CurrenciesResponse		"Matching codes"
//	@Failure		401	{object}	panelsdk.APIError				"Invalid or missing session token"
//	@Router			/v1/currencies [get].
func (h *CurrenciesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := httpx.SessionIDFromCtx(ctx)

	codes := h.ConverterService.Currencies(ctx, sid, r.URL.Query().Get("q"))
	httpx.WriteJSON(w, http.StatusOK, panelsdk.CurrenciesResponse{Currencies: codes})
}

// HandleRefresh re-fetches the full currency set for this session.
//
//	@Summary		Refresh the currency set
//	@Description	Fetches the full rate table again. On failure the previously loaded set stays in place.
//	@Tags			Converter
//	@Security		BearerAuth
//	@Success		204	"Set replaced"
//	@Failure		502	{object}	panelsdk.APIError	"Rate API unreachable or returned bad data"
//	@Router			/v1/currencies/refresh [post].
func (h *CurrenciesHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := httpx.SessionIDFromCtx(ctx)

	if err := h.ConverterService.LoadCurrencies(ctx, sid); err != nil {
		panelsdk.NewAPIError(http.StatusBadGateway, panelsdk.ErrorCodeRateFetchFailed, err.Error()).WriteError(w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
