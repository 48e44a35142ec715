package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	api "github.com/mind-engage/mindengage-rewards/internal/api/http"
	auth "github.com/mind-engage/mindengage-rewards/internal/auth/middleware"
	"github.com/mind-engage/mindengage-rewards/internal/config"
	"github.com/mind-engage/mindengage-rewards/internal/db"
	"github.com/mind-engage/mindengage-rewards/internal/logger"
	"github.com/mind-engage/mindengage-rewards/internal/progress"
	"github.com/mind-engage/mindengage-rewards/internal/relay"
	"github.com/mind-engage/mindengage-rewards/internal/reward"
)

func main() {
	cfg := config.FromEnv()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("gateway stopped", "error", err)
		stop()
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger) error {
	// --- DB ---
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return err
	}
	defer dbh.Close()

	// --- Store dependencies, dispatcher, then the store ---
	progressCache, closeCache, err := openCache(ctx, cfg, dbh)
	if err != nil {
		return err
	}
	defer closeCache()
	source, err := openSource(cfg)
	if err != nil {
		return err
	}
	session := openSession(cfg, log)

	rc := relay.Config{BaseURL: cfg.RelayURL, Timeout: cfg.RelayTimeout}
	if session != nil {
		rc.Tokens = session
	}
	journal := reward.NewSQLJournal(dbh)
	dispatcher := reward.New(relay.NewClient(rc), session, journal, log)
	defer dispatcher.Wait()

	store := progress.New(progressCache, source, dispatcher, log)
	store.Load(ctx)
	if !store.Ready() {
		log.Warn("no course content loaded; serving empty catalog until reset")
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins(),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	api.Mount(r, api.Deps{
		Store:   store,
		Quiz:    api.NewQuizHolder(store, log),
		Rewards: dispatcher,
		Journal: journal,
		Auditor: reward.NewReconciler(journal, dispatcher, nil),
		Admin:   auth.AdminBasicAuth(cfg.AdminUser, cfg.AdminPassHash),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver, "cache", cfg.CacheDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
