package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"qcreports/internal/auth"
	"qcreports/internal/models"
	"qcreports/internal/services/report"
	"qcreports/internal/store"
	"qcreports/internal/util"
)

const msgUserNameTaken = "Username already exists"

type createUserReq struct {
	UserName string `json:"userName" validate:"required,max=100"`
	Name     string `json:"name" validate:"required,max=200"`
	UserRoll string `json:"userRoll" validate:"required,oneof=Admin User"`
	Joined   string `json:"joined"`
	Password string `json:"password" validate:"required,min=6,max=255"`
}

type updateUserReq struct {
	UserName *string `json:"userName" validate:"omitempty,max=100"`
	Name     *string `json:"name" validate:"omitempty,max=200"`
	UserRoll *string `json:"userRoll" validate:"omitempty,oneof=Admin User"`
	Joined   *string `json:"joined"`
	Password *string `json:"password" validate:"omitempty,min=6,max=255"`
}

func joinedDate(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	t, ok := util.ParseDate(s)
	if !ok {
		return time.Time{}, report.Invalid("joined", "not a date")
	}
	return t, nil
}

func ListUsers(users store.Users, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := users.List(r.Context())
		if err != nil {
			respondError(w, lg, err, "list users failed")
			return
		}
		respondJSON(w, list)
	}
}

func GetUser(users store.Users, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := users.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, lg, err, "load user failed")
			return
		}
		respondJSON(w, u)
	}
}

func CreateUser(users store.Users, hasher auth.Hasher, audit store.Audit, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createUserReq
		if err := decodeBody(r, &req); err != nil {
			respondError(w, lg, err, "create user failed")
			return
		}
		joined, err := joinedDate(req.Joined)
		if err != nil {
			respondError(w, lg, err, "create user failed")
			return
		}
		hash, err := hasher.Hash(req.Password)
		if err != nil {
			respondError(w, lg, err, "hash error")
			return
		}
		u := models.UserAccount{
			UserName:     strings.TrimSpace(req.UserName),
			Name:         strings.TrimSpace(req.Name),
			UserRoll:     req.UserRoll,
			Joined:       joined,
			PasswordHash: hash,
		}
		if err := users.Create(r.Context(), &u); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				http.Error(w, msgUserNameTaken, http.StatusConflict)
				return
			}
			respondError(w, lg, err, "create user failed")
			return
		}
		recordAudit(r.Context(), audit, lg, "user.create", "", "", map[string]any{"userId": u.ID, "userName": u.UserName})
		respondStatus(w, http.StatusCreated, u)
	}
}

func UpdateUser(users store.Users, hasher auth.Hasher, audit store.Audit, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateUserReq
		if err := decodeBody(r, &req); err != nil {
			respondError(w, lg, err, "update user failed")
			return
		}
		u, err := users.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondError(w, lg, err, "update user failed")
			return
		}
		if req.UserName != nil && strings.TrimSpace(*req.UserName) != "" {
			u.UserName = strings.TrimSpace(*req.UserName)
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			u.Name = strings.TrimSpace(*req.Name)
		}
		if req.UserRoll != nil && *req.UserRoll != "" {
			u.UserRoll = *req.UserRoll
		}
		if req.Joined != nil && *req.Joined != "" {
			if u.Joined, err = joinedDate(*req.Joined); err != nil {
				respondError(w, lg, err, "update user failed")
				return
			}
		}
		if req.Password != nil && *req.Password != "" {
			if u.PasswordHash, err = hasher.Hash(*req.Password); err != nil {
				respondError(w, lg, err, "hash error")
				return
			}
		}
		if err := users.Save(r.Context(), u); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				http.Error(w, msgUserNameTaken, http.StatusConflict)
				return
			}
			respondError(w, lg, err, "update user failed")
			return
		}
		recordAudit(r.Context(), audit, lg, "user.update", "", "", map[string]any{"userId": u.ID})
		respondJSON(w, u)
	}
}

// DeleteUser removes the account permanently.
func DeleteUser(users store.Users, audit store.Audit, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == auth.Subject(r.Context()) {
			http.Error(w, "cannot delete your own account", http.StatusBadRequest)
			return
		}
		if err := users.Delete(r.Context(), id); err != nil {
			respondError(w, lg, err, "delete user failed")
			return
		}
		recordAudit(r.Context(), audit, lg, "user.delete", "", "", map[string]any{"userId": id})
		respondJSON(w, map[string]any{"deleted": true})
	}
}
