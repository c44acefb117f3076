package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"qcreports/internal/services/report"
	"qcreports/internal/store"
)

// Clock supplies the save time used for generated report names.
type Clock func() time.Time

// NewFIForm returns the blank FI form a new report opens with.
func NewFIForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, report.NewFIForm())
	}
}

func GetFIForm(st report.FIStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := st.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, lg, err, "load report failed")
			return
		}
		respondJSON(w, report.LoadFIForm(rec, lg))
	}
}

// SaveFIForm creates a report from the submitted form, or updates the one
// named by the id URL parameter. The form itself is never altered, so a
// failed save can be retried with the same body.
func SaveFIForm(st report.FIStore, audit store.Audit, now Clock, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form report.FIForm
		if err := decodeBody(r, &form); err != nil {
			respondError(w, lg, err, "save report failed")
			return
		}
		p, err := report.SaveFIForm(&form, now())
		if err != nil {
			respondError(w, lg, err, "save report failed")
			return
		}
		saveRecord(w, r, st, report.SourceFI, p, audit, lg)
	}
}

func NewISForm(now Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, report.DefaultISForm(now()))
	}
}

func GetISForm(st report.ISStore, now Clock, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := st.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, lg, err, "load report failed")
			return
		}
		respondJSON(w, report.LoadISForm(rec, now(), lg))
	}
}

func SaveISForm(st report.ISStore, audit store.Audit, now Clock, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := report.DefaultISForm(now())
		if err := decodeBody(r, &form); err != nil {
			respondError(w, lg, err, "save report failed")
			return
		}
		p, err := report.SaveISForm(form, now())
		if err != nil {
			respondError(w, lg, err, "save report failed")
			return
		}
		saveRecord(w, r, st, report.SourceIS, p, audit, lg)
	}
}

func saveRecord[T any](w http.ResponseWriter, r *http.Request, st report.Store[T], source report.Source, p report.Patch, audit store.Audit, lg *zap.SugaredLogger) {
	id := chi.URLParam(r, "id")
	if id == "" {
		rec, err := st.Create(r.Context(), p)
		if err != nil {
			respondError(w, lg, err, "save report failed")
			return
		}
		recordAudit(r.Context(), audit, lg, "report.create", string(source), recordID(rec), map[string]any{"reportName": p["reportName"]})
		respondStatus(w, http.StatusCreated, rec)
		return
	}
	rec, err := st.Update(r.Context(), id, p)
	if err != nil {
		respondError(w, lg, err, "save report failed")
		return
	}
	recordAudit(r.Context(), audit, lg, "report.update", string(source), id, map[string]any{"reportName": p["reportName"]})
	respondJSON(w, rec)
}

func ExportFIReport(st report.FIStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := st.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, lg, err, "export report failed")
			return
		}
		form := report.LoadFIForm(rec, lg)
		w.Header().Set("Content-Type", report.XLSXContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=fi-report-%s.xlsx", rec.ID))
		if err := report.WriteFIReportXLSX(w, form); err != nil {
			lg.Errorw("write xlsx failed", "report_id", rec.ID, "error", err)
		}
	}
}
