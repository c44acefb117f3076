package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"qcreports/internal/auth"
	"qcreports/internal/store"
)

const recentLogs = 200

// MyLogs returns recent audit logs. Regular users see their own logs.
// Admins can pass ?all=1 to see recent logs for everyone.
func MyLogs(audit store.Audit, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := auth.Subject(r.Context())
		if r.URL.Query().Get("all") == "1" && auth.FromContext(r.Context()).IsAdmin() {
			userID = ""
		}
		logs, err := audit.Recent(r.Context(), userID, recentLogs)
		if err != nil {
			respondError(w, lg, err, "list logs failed")
			return
		}
		respondJSON(w, logs)
	}
}
