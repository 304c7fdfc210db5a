package component

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/yanizio/adeptcms/internal/cms"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.S().Warnw("json encode", "err", err)
	}
}

// Error writes {"error": msg}.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Fail maps a repository error to 404 or 500.  Only the 500 case is logged.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, cms.ErrNotFound) {
		Error(w, http.StatusNotFound, "not found")
		return
	}
	zap.S().Errorw("request failed", "path", r.URL.Path, "err", err)
	Error(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// IDParam parses a positive int64 URL parameter.
func IDParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}
