package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"qcreports/internal/services/report"
	"qcreports/internal/store"
)

type copyReq struct {
	CopyType string `json:"copyType" validate:"required,oneof=blank filled"`
}

func queryFrom(r *http.Request) report.Query {
	q := r.URL.Query()
	tab := report.Tab(q.Get("tab"))
	if tab == "" {
		tab = report.TabViewAll
	}
	return report.Query{
		Tab:        tab,
		Search:     q.Get("q"),
		ReportType: q.Get("reportType"),
		Client:     q.Get("client"),
		Date:       q.Get("date"),
	}
}

func merged(ctx context.Context, fi report.FIStore, is report.ISStore) ([]report.Summary, error) {
	fiRecs, err := fi.List(ctx)
	if err != nil {
		return nil, err
	}
	isRecs, err := is.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.Merge(fiRecs, isRecs), nil
}

// Dashboard lists both report types as summaries. Stats and client options
// describe the whole collection; reports are the filtered view.
func Dashboard(fi report.FIStore, is report.ISStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := merged(r.Context(), fi, is)
		if err != nil {
			respondError(w, lg, err, "load dashboard failed")
			return
		}
		respondJSON(w, map[string]any{
			"reports":       report.Filter(all, queryFrom(r)),
			"stats":         report.ComputeStats(all),
			"clientOptions": report.ClientOptions(all),
		})
	}
}

func DashboardExport(fi report.FIStore, is report.ISStore, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := merged(r.Context(), fi, is)
		if err != nil {
			respondError(w, lg, err, "export dashboard failed")
			return
		}
		w.Header().Set("Content-Type", report.XLSXContentType)
		w.Header().Set("Content-Disposition", "attachment; filename=reports.xlsx")
		if err := report.WriteSummariesXLSX(w, report.Filter(all, queryFrom(r))); err != nil {
			lg.Errorw("write xlsx failed", "error", err)
		}
	}
}

func CopyReport(copier *report.Copier, audit store.Audit, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		source, err := report.ParseSource(chi.URLParam(r, "source"))
		if err != nil {
			respondError(w, lg, err, "copy report failed")
			return
		}
		var req copyReq
		if err := decodeBody(r, &req); err != nil {
			respondError(w, lg, err, "copy report failed")
			return
		}
		copyType, err := report.ParseCopyType(req.CopyType)
		if err != nil {
			respondError(w, lg, err, "copy report failed")
			return
		}
		id := chi.URLParam(r, "id")
		created, err := copier.CopyReport(r.Context(), source, id, copyType)
		if err != nil {
			respondError(w, lg, err, "copy report failed")
			return
		}
		recordAudit(r.Context(), audit, lg, "report.copy", string(source), created.ID,
			map[string]any{"from": id, "copyType": string(copyType)})
		respondStatus(w, http.StatusCreated, created)
	}
}
