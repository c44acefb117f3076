package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"qcreports/internal/services/report"
	"qcreports/internal/store"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, v interface{}) {
	respondStatus(w, http.StatusOK, v)
}

func respondStatus(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

// respondError maps store and core errors onto status codes. Anything
// unrecognized is logged and reported as a 500.
func respondError(w http.ResponseWriter, lg *zap.SugaredLogger, err error, msg string) {
	var invalid *report.ValidationError
	switch {
	case errors.Is(err, report.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.As(err, &invalid):
		http.Error(w, invalid.Error(), http.StatusBadRequest)
	case errors.Is(err, store.ErrDuplicate):
		http.Error(w, "already exists", http.StatusConflict)
	default:
		lg.Errorw(msg, "error", err)
		http.Error(w, msg, http.StatusInternalServerError)
	}
}

// decodeBody reads a JSON body into v and runs its validate tags.
func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return report.Invalid("", "malformed body: %v", err)
	}
	if err := validate.Struct(v); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			f := fields[0]
			return report.Invalid(f.Field(), "failed %s", f.Tag())
		}
		return report.Invalid("", "%v", err)
	}
	return nil
}
