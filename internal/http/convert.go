package http

import (
	"errors"
	"net/http"

	"github.com/harborlane/sheetrate/internal/rates"
	"github.com/harborlane/sheetrate/internal/service"
	"github.com/harborlane/sheetrate/pkg/httpx"
	"github.com/harborlane/sheetrate/pkg/panelsdk"
	"github.com/harborlane/sheetrate/pkg/slogx"
)

type ConvertHandler struct {
	ConverterService *service.ConverterService
}

// ServeHTTP runs the conversion workflow against the selected cell. The
// error_description of every failure is the text the panel shows in its
// status region.
//
//	@Summary		Convert the selected cell
//	@Description	Fetches the pair rate, reads the selected cell, multiplies, and writes the result back in one step. One conversion per session at a time.
//	@Tags			Converter
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	panelsdk.ConvertResponse	"Conversion result and status message"
//	@Failure		400	{object}	panelsdk.APIError			"Selection incomplete or cell not numeric"
//	@Failure		409	{object}	panelsdk.APIError			"A conversion is already running"
//	@Failure		502	{object}	panelsdk.APIError			"Rate API or workbook host failure"
//	@Router			/v1/convert [post].
func (h *ConvertHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := httpx.SessionIDFromCtx(ctx)

	res, err := h.ConverterService.Convert(ctx, sid)
	if err != nil {
		h.writeConvertError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, panelsdk.ConvertResponse{
		Amount:    res.Amount,
		Rate:      res.Rate,
		Converted: res.Converted,
		From:      res.From,
		To:        res.To,
		Message:   res.Message,
	})
}

func (h *ConvertHandler) writeConvertError(w http.ResponseWriter, r *http.Request, err error) {
	var fe *rates.FetchError

	switch {
	case errors.Is(err, service.ErrConversionBusy):
		panelsdk.ErrConversionInProgress.WriteError(w)
	case errors.Is(err, service.ErrSelectionIncomplete):
		panelsdk.ErrSelectionIncomplete.WriteError(w)
	case errors.Is(err, service.ErrInvalidCellValue):
		panelsdk.NewAPIError(http.StatusBadRequest, panelsdk.ErrorCodeInvalidCellValue, service.MsgInvalidCell).WriteError(w)
	case errors.As(err, &fe):
		panelsdk.NewAPIError(http.StatusBadGateway, panelsdk.ErrorCodeRateFetchFailed, fe.Error()).WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("conversion failed", "err", err)
		panelsdk.NewAPIError(http.StatusBadGateway, panelsdk.ErrorCodeServerError, service.MsgConversionFailed).WriteError(w)
	}
}
