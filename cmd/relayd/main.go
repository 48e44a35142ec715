package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/sync/errgroup"

	"github.com/mind-engage/mindengage-rewards/internal/config"
	"github.com/mind-engage/mindengage-rewards/internal/db"
	"github.com/mind-engage/mindengage-rewards/internal/ledger"
	"github.com/mind-engage/mindengage-rewards/internal/logger"
	"github.com/mind-engage/mindengage-rewards/internal/relay"
	"github.com/mind-engage/mindengage-rewards/internal/wallet"
)

type addrList []string

func (l *addrList) String() string { return strings.Join(*l, ",") }
func (l *addrList) Set(v string) error {
	v = strings.TrimSpace(v)
	if !wallet.ValidAddress(v) {
		return wallet.ErrInvalidAddress
	}
	*l = append(*l, v)
	return nil
}

func main() {
	var approve addrList
	var insecure bool
	flag.Var(&approve, "approve", "register an approved caller before starting (repeatable)")
	flag.BoolVar(&insecure, "insecure", false, "accept callers without a session token")
	flag.Parse()

	cfg := config.FromEnv()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, approve, insecure); err != nil {
		log.Error("relay stopped", "error", err)
		stop()
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger, approve []string, insecure bool) error {
	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return err
	}
	defer dbh.Close()

	l := ledger.NewSQL(dbh)
	for _, a := range approve {
		if err := l.Approve(ctx, a); err != nil {
			return err
		}
		log.Info("approved caller registered", "address", a)
	}
	if err := relay.EnsureAuthorized(ctx, l, cfg.RelaySigner); err != nil {
		return err
	}
	log.Info("relay signer is an approved caller", "address", cfg.RelaySigner)

	var verifier *wallet.Verifier
	if !insecure {
		verifier = wallet.NewVerifier(cfg.RelayJWTSecret)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins(),
		AllowedMethods: []string{"POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Mount("/", relay.NewServer(l, verifier, log).Routes())

	srv := &http.Server{
		Addr:              cfg.RelayAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("relay listening", "addr", cfg.RelayAddr, "db", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
