package main

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"qcreports/internal/auth"
	"qcreports/internal/config"
	"qcreports/internal/models"
	"qcreports/internal/store"
)

func seedDefaultAdmin(ctx context.Context, users store.Users, cfg *config.Config, lg *zap.SugaredLogger) error {
	_, err := users.FindByUserName(ctx, cfg.AdminUserName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return err
	}
	hash, err := auth.Hasher{Cost: cfg.BcryptCost}.Hash(cfg.AdminPassword)
	if err != nil {
		return err
	}
	u := models.UserAccount{
		UserName:     cfg.AdminUserName,
		Name:         "Administrator",
		UserRoll:     models.RollAdmin,
		Joined:       time.Now().UTC().Truncate(24 * time.Hour),
		PasswordHash: hash,
	}
	if err := users.Create(ctx, &u); err != nil && !errors.Is(err, store.ErrDuplicate) {
		return err
	}
	lg.Infow("seeded default admin", "userName", cfg.AdminUserName)
	return nil
}
