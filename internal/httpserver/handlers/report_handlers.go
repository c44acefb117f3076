package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"qcreports/internal/services/report"
	"qcreports/internal/store"
)

func decodePatch(r *http.Request) (report.Patch, error) {
	var p report.Patch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return nil, report.Invalid("", "malformed body: %v", err)
	}
	if p == nil {
		return nil, report.Invalid("", "body must be an object")
	}
	delete(p, "id")
	return p, nil
}

func ListRecords[T any](st report.Store[T], lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := st.List(r.Context())
		if err != nil {
			respondError(w, lg, err, "list reports failed")
			return
		}
		respondJSON(w, list)
	}
}

func GetRecord[T any](st report.Store[T], lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := st.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, lg, err, "load report failed")
			return
		}
		respondJSON(w, rec)
	}
}

func CreateRecord[T any](st report.Store[T], source report.Source, audit store.Audit, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := decodePatch(r)
		if err != nil {
			respondError(w, lg, err, "create report failed")
			return
		}
		rec, err := st.Create(r.Context(), p)
		if err != nil {
			respondError(w, lg, err, "create report failed")
			return
		}
		recordAudit(r.Context(), audit, lg, "report.create", string(source), recordID(rec), nil)
		respondStatus(w, http.StatusCreated, rec)
	}
}

// UpdateRecord applies a partial update; fields missing from the body keep
// their stored value.
func UpdateRecord[T any](st report.Store[T], source report.Source, audit store.Audit, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		p, err := decodePatch(r)
		if err != nil {
			respondError(w, lg, err, "update report failed")
			return
		}
		rec, err := st.Update(r.Context(), id, p)
		if err != nil {
			respondError(w, lg, err, "update report failed")
			return
		}
		recordAudit(r.Context(), audit, lg, "report.update", string(source), id, nil)
		respondJSON(w, rec)
	}
}

func DeleteRecord[T any](st report.Store[T], source report.Source, audit store.Audit, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := st.Delete(r.Context(), id); err != nil {
			respondError(w, lg, err, "delete report failed")
			return
		}
		recordAudit(r.Context(), audit, lg, "report.delete", string(source), id, nil)
		respondJSON(w, map[string]any{"deleted": true})
	}
}

func recordID(rec any) string {
	b, err := json.Marshal(rec)
	if err != nil {
		return ""
	}
	var head struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(b, &head)
	return head.ID
}
