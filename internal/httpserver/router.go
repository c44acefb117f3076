package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"qcreports/internal/auth"
	"qcreports/internal/httpserver/handlers"
	"qcreports/internal/models"
	"qcreports/internal/services/report"
	"qcreports/internal/store"
)

// Deps are the collaborators the HTTP surface is wired to.
type Deps struct {
	FI       report.FIStore
	IS       report.ISStore
	Users    store.Users
	Sessions store.Sessions
	Audit    store.Audit
	Signer   *auth.Signer
	Hasher   auth.Hasher
	Now      func() time.Time
}

func NewRouter(d Deps, lg *zap.SugaredLogger) http.Handler {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	copier := &report.Copier{FI: d.FI, IS: d.IS, Now: now}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	r.Post("/v1/auth/login", handlers.Login(d.Users, d.Sessions, d.Signer, d.Audit, lg))
	r.Group(func(protected chi.Router) {
		protected.Use(auth.JWTAuth(d.Signer, d.Sessions))
		protected.Get("/v1/me", handlers.Me(d.Users, lg))
		protected.Post("/v1/auth/logout", handlers.Logout(d.Sessions, d.Audit, lg))
		protected.Group(func(admin chi.Router) {
			admin.Use(auth.RequireRole(models.RollAdmin))
			admin.Get("/v1/users", handlers.ListUsers(d.Users, lg))
			admin.Post("/v1/users", handlers.CreateUser(d.Users, d.Hasher, d.Audit, lg))
			admin.Get("/v1/users/{id}", handlers.GetUser(d.Users, lg))
			admin.Patch("/v1/users/{id}", handlers.UpdateUser(d.Users, d.Hasher, d.Audit, lg))
			admin.Delete("/v1/users/{id}", handlers.DeleteUser(d.Users, d.Audit, lg))
		})

		protected.Route("/v1/fi-reports", func(fi chi.Router) {
			fi.Get("/", handlers.ListRecords(d.FI, lg))
			fi.Post("/", handlers.CreateRecord(d.FI, report.SourceFI, d.Audit, lg))
			fi.Get("/form", handlers.NewFIForm())
			fi.Post("/form", handlers.SaveFIForm(d.FI, d.Audit, now, lg))
			fi.Get("/{id}", handlers.GetRecord(d.FI, lg))
			fi.Patch("/{id}", handlers.UpdateRecord(d.FI, report.SourceFI, d.Audit, lg))
			fi.Delete("/{id}", handlers.DeleteRecord(d.FI, report.SourceFI, d.Audit, lg))
			fi.Get("/{id}/form", handlers.GetFIForm(d.FI, lg))
			fi.Put("/{id}/form", handlers.SaveFIForm(d.FI, d.Audit, now, lg))
			fi.Get("/{id}/export", handlers.ExportFIReport(d.FI, lg))
		})
		protected.Route("/v1/is-reports", func(is chi.Router) {
			is.Get("/", handlers.ListRecords(d.IS, lg))
			is.Post("/", handlers.CreateRecord(d.IS, report.SourceIS, d.Audit, lg))
			is.Get("/form", handlers.NewISForm(now))
			is.Post("/form", handlers.SaveISForm(d.IS, d.Audit, now, lg))
			is.Get("/{id}", handlers.GetRecord(d.IS, lg))
			is.Patch("/{id}", handlers.UpdateRecord(d.IS, report.SourceIS, d.Audit, lg))
			is.Delete("/{id}", handlers.DeleteRecord(d.IS, report.SourceIS, d.Audit, lg))
			is.Get("/{id}/form", handlers.GetISForm(d.IS, now, lg))
			is.Put("/{id}/form", handlers.SaveISForm(d.IS, d.Audit, now, lg))
		})

		protected.Get("/v1/dashboard", handlers.Dashboard(d.FI, d.IS, lg))
		protected.Get("/v1/dashboard/export", handlers.DashboardExport(d.FI, d.IS, lg))
		protected.Post("/v1/dashboard/{source}/{id}/copy", handlers.CopyReport(copier, d.Audit, lg))
		protected.Get("/v1/logs", handlers.MyLogs(d.Audit, lg))
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	return r
}
