package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"qcreports/internal/auth"
	"qcreports/internal/models"
	"qcreports/internal/store"
)

type loginReq struct {
	UserName string `json:"userName" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func Login(users store.Users, sessions store.Sessions, signer *auth.Signer, audit store.Audit, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginReq
		if err := decodeBody(r, &req); err != nil {
			respondError(w, lg, err, "login failed")
			return
		}
		u, err := users.FindByUserName(r.Context(), req.UserName)
		if err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		tok, claims, expires, err := signer.Sign(u.ID, []string{u.UserRoll})
		if err != nil {
			respondError(w, lg, err, "token error")
			return
		}
		sess := models.Session{JTI: claims.JWTID, UserID: u.ID, ExpiresAt: expires}
		if err := sessions.Create(r.Context(), &sess); err != nil {
			respondError(w, lg, err, "session error")
			return
		}
		ctx := auth.WithClaims(r.Context(), claims)
		recordAudit(ctx, audit, lg, "login", "", "", nil)
		respondJSON(w, map[string]any{"token": tok, "expiresAt": expires, "user": u})
	}
}

func Logout(sessions store.Sessions, audit store.Audit, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := auth.FromContext(r.Context())
		if err := sessions.Revoke(r.Context(), claims.JWTID, time.Now()); err != nil {
			respondError(w, lg, err, "logout failed")
			return
		}
		recordAudit(r.Context(), audit, lg, "logout", "", "", nil)
		respondJSON(w, map[string]any{"ok": true})
	}
}

func Me(users store.Users, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := users.Get(r.Context(), auth.Subject(r.Context()))
		if err != nil {
			respondError(w, lg, err, "load user failed")
			return
		}
		respondJSON(w, u)
	}
}
