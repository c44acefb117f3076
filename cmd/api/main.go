package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"qcreports/internal/auth"
	"qcreports/internal/config"
	"qcreports/internal/httpserver"
	"qcreports/internal/logger"
	"qcreports/internal/models"
	"qcreports/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type app struct {
	cfg *config.Config
	lg  *zap.SugaredLogger
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.lg = logger.New(cfg.LogLevel)
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var memory bool
	root := &cobra.Command{
		Use:               "qcreports",
		Short:             "Quality-control inspection report service",
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), memory)
		},
	}
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd.Context(), memory)
		},
	}
	root.PersistentFlags().BoolVar(&memory, "memory", false, "keep all data in memory instead of Postgres")
	root.AddCommand(serve, &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.migrate()
		},
	}, &cobra.Command{
		Use:   "seed-admin",
		Short: "Create the default Admin account when it does not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := a.open()
			if err != nil {
				return err
			}
			return seedDefaultAdmin(cmd.Context(), store.NewUsers(db), a.cfg, a.lg)
		},
	})
	return root
}

func (a *app) open() (*gorm.DB, error) {
	if err := a.cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	return store.Open(a.cfg.DatabaseURL, a.lg)
}

func (a *app) migrate() error {
	db, err := a.open()
	if err != nil {
		return err
	}
	if err := store.Migrate(db); err != nil {
		return err
	}
	a.lg.Infow("schema migrated")
	return nil
}

func (a *app) deps(ctx context.Context, memory bool) (httpserver.Deps, error) {
	d := httpserver.Deps{
		Signer: auth.NewSigner(a.cfg.JWTSecret, a.cfg.JWTExpiresIn),
		Hasher: auth.Hasher{Cost: a.cfg.BcryptCost},
		Now:    time.Now,
	}
	if memory {
		a.lg.Warnw("using in-memory storage; data is lost on exit")
		d.FI = store.NewMemRecords[models.FIReport]()
		d.IS = store.NewMemRecords[models.ISReport]()
		d.Users = store.NewMemUsers()
		d.Sessions = store.NewMemSessions()
		d.Audit = store.NewMemAudit()
		return d, nil
	}
	db, err := a.open()
	if err != nil {
		return d, err
	}
	if err := store.Migrate(db); err != nil {
		return d, err
	}
	fi, err := store.NewRecords[models.FIReport](db)
	if err != nil {
		return d, err
	}
	is, err := store.NewRecords[models.ISReport](db)
	if err != nil {
		return d, err
	}
	d.FI, d.IS = fi, is
	d.Users = store.NewUsers(db)
	d.Sessions = store.NewSessions(db)
	d.Audit = store.NewAudit(db)
	return d, nil
}

func (a *app) serve(ctx context.Context, memory bool) error {
	defer a.lg.Sync()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := a.deps(ctx, memory)
	if err != nil {
		return err
	}
	if err := seedDefaultAdmin(ctx, d.Users, a.cfg, a.lg); err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              ":" + a.cfg.HTTPPort,
		Handler:           httpserver.NewRouter(d, a.lg),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		a.lg.Infow("listening", "port", a.cfg.HTTPPort)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a.lg.Infow("shutting down")
	return srv.Shutdown(shutdownCtx)
}
