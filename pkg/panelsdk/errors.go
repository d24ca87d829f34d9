package panelsdk

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/harborlane/sheetrate/pkg/httpx"
)

// Error codes shared between the server and the panel.
const (
	ErrorCodeInvalidRequest       = "invalid_request"
	ErrorCodeInvalidCredentials   = "invalid_credentials"
	ErrorCodeEmailTaken           = "email_taken"
	ErrorCodeInvalidToken         = "invalid_token"
	ErrorCodeNotAuthorized        = "not_authorized"
	ErrorCodeSelfTargetForbidden  = "self_target_forbidden"
	ErrorCodeAccountNotFound      = "account_not_found"
	ErrorCodeRateFetchFailed      = "rate_fetch_failed"
	ErrorCodeInvalidCellValue     = "invalid_cell_value"
	ErrorCodeConversionInProgress = "conversion_in_progress"
	ErrorCodeSelectionIncomplete  = "selection_incomplete"
	ErrorCodeUnknownCurrency      = "unknown_currency"
	ErrorCodeServerError          = "server_error"
)

// APIError is the JSON error envelope every endpoint returns. It implements
// the error interface so the same type serves the server handlers and the
// SDK client.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code
	Code string `json:"error"`

	// Description is a human-readable description; for converter errors this
	// is the text the panel shows in its status region.
	Description string `json:"error_description"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes this APIError to an HTTP response writer.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	ErrInvalidRequest = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeInvalidRequest,
		Description: "the request is malformed or missing required parameters",
	}

	ErrInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidCredentials,
		Description: "invalid email or password",
	}

	ErrEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeEmailTaken,
		Description: "an account with this email already exists",
	}

	ErrInvalidToken = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        ErrorCodeInvalidToken,
		Description: "the session token is missing, invalid, expired or revoked",
	}

	ErrNotAuthorized = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeNotAuthorized,
		Description: "admin privileges required",
	}

	ErrSelfTargetForbidden = &APIError{
		StatusCode:  http.StatusForbidden,
		Code:        ErrorCodeSelfTargetForbidden,
		Description: "admins cannot change or delete their own account",
	}

	ErrAccountNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        ErrorCodeAccountNotFound,
		Description: "no such account",
	}

	ErrRateFetchFailed = &APIError{
		StatusCode:  http.StatusBadGateway,
		Code:        ErrorCodeRateFetchFailed,
		Description: "could not fetch exchange rates",
	}

	ErrConversionInProgress = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        ErrorCodeConversionInProgress,
		Description: "a conversion is already running for this session",
	}

	ErrSelectionIncomplete = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeSelectionIncomplete,
		Description: "both a from and a to currency must be selected",
	}

	ErrUnknownCurrency = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        ErrorCodeUnknownCurrency,
		Description: "currency code is not in the loaded set",
	}

	ErrServerError = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        ErrorCodeServerError,
		Description: "internal server error",
	}
)

// NewAPIError creates an APIError with a custom description.
func NewAPIError(statusCode int, code, description string) *APIError {
	return &APIError{
		StatusCode:  statusCode,
		Code:        code,
		Description: description,
	}
}

// parseErrorResponse turns an HTTP error response into a typed *APIError.
// Returns nil for 2xx responses.
func parseErrorResponse(resp *http.Response, body []byte) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var errResp struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{
			StatusCode:  resp.StatusCode,
			Code:        errResp.Error,
			Description: errResp.ErrorDescription,
		}
	}

	return &APIError{
		StatusCode:  resp.StatusCode,
		Code:        ErrorCodeServerError,
		Description: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
	}
}
