package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/harborlane/sheetrate/internal/service"
	"github.com/harborlane/sheetrate/pkg/httpx"
	"github.com/harborlane/sheetrate/pkg/panelsdk"
)

type SelectionHandler struct {
	ConverterService *service.ConverterService
}

// HandleGet returns the session's current from/to slots.
//
//	@Summary		Get the current selection
//	@Tags			Converter
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	panelsdk.SelectionResponse	"Current slots; empty string means unset"
//	@Router			/v1/selection [get].
func (h *SelectionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sid := httpx.SessionIDFromCtx(r.Context())

	sel := h.ConverterService.Selection(sid)
	httpx.WriteJSON(w, http.StatusOK, panelsdk.SelectionResponse{From: sel.From, To: sel.To})
}

// HandlePut commits a currency code into the from or to slot.
//
//	@Summary		Select a currency
//	@Description	Commits a code into one slot. Only members of the session's loaded set are accepted; an unknown code leaves the slot unchanged.
//	@Tags			Converter
//	@Security		BearerAuth
//	@Accept			json
//	@Param			side	path	string					true	"Slot side"	Enums(from, to)
//	@Param			request	body	panelsdk.SelectRequest	true	"Currency code"
//	@Success		204	"Slot committed"
//	@Failure		400	{object}	panelsdk.APIError	"Unknown currency or bad side"
//	@Router			/v1/selection/{side} [put].
func (h *SelectionHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	sid := httpx.SessionIDFromCtx(r.Context())
	side := r.PathValue("side")

	var req panelsdk.SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		panelsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	if err := h.ConverterService.Select(sid, side, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownCurrency):
			panelsdk.ErrUnknownCurrency.WriteError(w)
		case errors.Is(err, service.ErrInvalidSide):
			panelsdk.ErrInvalidRequest.WriteError(w)
		default:
			panelsdk.ErrServerError.WriteError(w)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleReset clears both slots.
//
//	@Summary		Reset the selection
//	@Tags			Converter
//	@Security		BearerAuth
//	@Success		204	"Slots cleared"
//	@Router			/v1/selection [delete].
func (h *SelectionHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	sid := httpx.SessionIDFromCtx(r.Context())

	h.ConverterService.Reset(sid)
	w.WriteHeader(http.StatusNoContent)
}
