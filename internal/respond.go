package internal

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"supplier-inventory-api/internal/inventory"
	"supplier-inventory-api/internal/models"
	"supplier-inventory-api/internal/notify"
)

const (
	CodeInvalidJSON      = "INVALID_JSON"
	CodeInvalidID        = "INVALID_ID"
	CodeNotFound         = "NOT_FOUND"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeDeliveryFailed   = "DELIVERY_FAILED"
	CodeInternal         = "INTERNAL"
)

type dataResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type errorResponse struct {
	Status string   `json:"status"`
	Error  string   `json:"error,omitempty"`
	Code   string   `json:"code"`
	Fields []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, dataResponse{Status: "ok", Data: data})
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeFail(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Status: "error", Error: msg, Code: code})
}

// writeNotFound answers a delete of an absent row.
func writeNotFound(w http.ResponseWriter, entity string) {
	writeJSON(w, http.StatusNotFound, errorResponse{Status: entity + " not found", Code: CodeNotFound})
}

// writeError maps a service error onto a status code. Unknown errors are
// logged and hidden from the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *models.ValidationError
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		writeFail(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Status: "error",
			Error:  err.Error(),
			Code:   CodeValidationFailed,
			Fields: ve.Fields,
		})
	case errors.Is(err, notify.ErrDelivery):
		writeFail(w, http.StatusBadGateway, CodeDeliveryFailed, err.Error())
	default:
		s.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.Error(err),
		)
		writeFail(w, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

// decodeJSON reads the request body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeFail(w, http.StatusBadRequest, CodeInvalidJSON, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// pathID parses the named URL parameter, answering 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeFail(w, http.StatusBadRequest, CodeInvalidID, "invalid "+name+": "+strconv.Quote(raw))
		return 0, false
	}
	return id, true
}
