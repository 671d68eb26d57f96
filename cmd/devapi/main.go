package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Thutra02/mypham-fe/internal/auth"
	"github.com/Thutra02/mypham-fe/internal/config"
	"github.com/Thutra02/mypham-fe/internal/devapi"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to configuration file")
	tokenRole := flag.String("token", "", "print an access token with this role (e.g. ADMIN) and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the token printed by -token")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	if *tokenRole != "" {
		tok, err := signToken(cfg.DevAPI.JWTSecret, *tokenRole, *tokenTTL)
		if err != nil {
			log.Fatal("failed to sign token: ", err)
		}
		fmt.Println(tok)
		return
	}

	if err := run(cfg); err != nil {
		log.Fatal("devapi error: ", err)
	}
}

// signToken issues a token for role. Without a configured secret the server
// reads tokens unverified, so any key will do.
func signToken(secret, role string, ttl time.Duration) (string, error) {
	if secret == "" {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		secret = hex.EncodeToString(b)
	}
	return auth.SignToken(secret, "dev", "dev-"+role, role, ttl)
}

func run(cfg *config.Config) error {
	lg, err := config.SetupLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() {
		if err := lg.Close(); err != nil {
			slog.Error("logger close error", slog.Any("error", err))
		}
	}()

	db, err := config.SetupDatabase(&cfg.Database, lg.Logger)
	if err != nil {
		return fmt.Errorf("setup database: %w", err)
	}
	defer config.CloseDatabase(db, lg.Logger)

	if err := devapi.Migrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if cfg.DevAPI.Seed {
		if err := devapi.Seed(context.Background(), db, time.Now()); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	if cfg.DevAPI.JWTSecret == "" {
		lg.Warn("devapi.jwt_secret is empty, bearer tokens are not verified")
	}

	gin.SetMode(cfg.Server.Mode)
	addr := fmt.Sprintf("%s:%d", cfg.DevAPI.Host, cfg.DevAPI.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           devapi.NewRouter(db, cfg.DevAPI, lg.Logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		lg.Info("devapi started", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		lg.Info("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("server shutdown error", slog.Any("error", err))
	}
	lg.Info("devapi stopped")
	return nil
}
