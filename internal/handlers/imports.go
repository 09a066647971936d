package handlers

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"supplier-inventory-api/pkg/importer"
)

// ImportsHandler handles Excel import operations
type ImportsHandler struct {
	Catalog  importer.Catalog
	Mapping  *importer.MappingConfig
	MaxBytes int64
	Logger   *zap.Logger
}

// NewImportsHandler creates a new imports handler
func NewImportsHandler(catalog importer.Catalog, mapping *importer.MappingConfig, maxBytes int64, logger *zap.Logger) *ImportsHandler {
	if maxBytes <= 0 {
		maxBytes = 20 << 20 // 20 MB
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportsHandler{
		Catalog:  catalog,
		Mapping:  mapping,
		MaxBytes: maxBytes,
		Logger:   logger.Named("imports"),
	}
}

// UploadExcel handles Excel file uploads for catalog import
func (h *ImportsHandler) UploadExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)

	if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "content-type must be multipart/form-data")
		return
	}

	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "invalid multipart form: "+err.Error())
		return
	}

	dryRun := r.FormValue("dry_run") == "true"
	maxErrors := 50
	if v := r.FormValue("max_errors"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxErrors = n
		}
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "file is required: "+err.Error())
		return
	}
	defer file.Close()

	if !isXLSX(header) {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "only .xlsx files are accepted")
		return
	}

	sum, impErr := importer.ImportExcel(r.Context(), h.Catalog, file, importer.ImportOptions{
		Mapping:   h.Mapping,
		DryRun:    dryRun,
		MaxErrors: maxErrors,
	})
	if impErr != nil {
		h.Logger.Warn("import failed",
			zap.String("file", header.Filename),
			zap.Bool("dry_run", dryRun),
			zap.Error(impErr),
		)
		code := "IMPORT_FAILED"
		if errors.Is(impErr, importer.ErrTooManyErrors) {
			code = "TOO_MANY_ERRORS"
		}
		// partial summary is returned alongside the error
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"status": "error",
			"error":  impErr.Error(),
			"code":   code,
			"data":   sum,
		})
		return
	}

	h.Logger.Info("import finished",
		zap.String("file", header.Filename),
		zap.Bool("dry_run", dryRun),
		zap.Int("inserted", sum.Inserted),
		zap.Int("updated", sum.Updated),
		zap.Int("errors", sum.Errors),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"data":   sum,
		"meta": map[string]any{
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"version":   "1.0.0",
		},
	})
}

// isXLSX checks if the uploaded file is an Excel .xlsx file
func isXLSX(h *multipart.FileHeader) bool {
	return strings.HasSuffix(strings.ToLower(h.Filename), ".xlsx")
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]any{
		"status": "error",
		"error":  msg,
		"code":   code,
	})
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
