package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/DRSN-tech/medstore-backend/pkg/e"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`

	// RequiresAddress подсказывает клиенту открыть форму адреса.
	RequiresAddress bool `json:"requires_address,omitempty"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest),
		errors.Is(err, e.ErrExpectedMultipart),
		errors.Is(err, e.ErrMissingFields),
		errors.Is(err, e.ErrInvalidPrice),
		errors.Is(err, e.ErrPricePrecision),
		errors.Is(err, e.ErrInvalidStock),
		errors.Is(err, e.ErrInvalidQuantity),
		errors.Is(err, e.ErrEmptyCart),
		errors.Is(err, e.ErrInsufficientStock),
		errors.Is(err, e.ErrAddressRequired),
		errors.Is(err, e.ErrInvalidStatus),
		errors.Is(err, e.ErrOrderFinalized),
		errors.Is(err, e.ErrEmailTaken),
		errors.Is(err, e.ErrUsernameTaken),
		errors.Is(err, e.ErrSelfDelete),
		errors.Is(err, e.ErrWrongPassword),
		errors.Is(err, e.ErrFileTooLarge),
		errors.Is(err, e.ErrEmptyImportFile):
		return http.StatusBadRequest, unwrapMessage(err)

	case errors.Is(err, e.ErrInvalidCredentials),
		errors.Is(err, e.ErrMissingToken),
		errors.Is(err, e.ErrInvalidToken):
		return http.StatusUnauthorized, unwrapMessage(err)

	case errors.Is(err, e.ErrNotAuthorized):
		return http.StatusForbidden, e.ErrNotAuthorized.Error()

	case errors.Is(err, e.ErrProductNotFound),
		errors.Is(err, e.ErrUserNotFound),
		errors.Is(err, e.ErrOrderNotFound):
		return http.StatusNotFound, unwrapMessage(err)

	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

// unwrapMessage выдаёт наружу только доменную ошибку без
// внутренней цепочки обёрток с путями до файлов.
func unwrapMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	resp := NewErrorResponse(code, msg)
	if errors.Is(err, e.ErrAddressRequired) {
		resp.RequiresAddress = true
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// parseID читает числовой идентификатор из пути.
// Некорректный идентификатор неотличим от несуществующего ресурса,
// поэтому отдаётся notFound соответствующей сущности.
func parseID(r *http.Request, notFound error) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, notFound
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return e.ErrStatusBadRequest
	}
	return nil
}
