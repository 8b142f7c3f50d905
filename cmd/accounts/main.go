package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-accounts/pkg/account"
	accountapi "github.com/tendant/simple-accounts/pkg/account/api"
	"github.com/tendant/simple-accounts/pkg/auth"
	authapi "github.com/tendant/simple-accounts/pkg/auth/api"
	"github.com/tendant/simple-accounts/pkg/client"
	"github.com/tendant/simple-accounts/pkg/config"
	"github.com/tendant/simple-accounts/pkg/notification"
	"github.com/tendant/simple-accounts/pkg/password"
	"github.com/tendant/simple-accounts/pkg/product"
	productapi "github.com/tendant/simple-accounts/pkg/product/api"
	"github.com/tendant/simple-accounts/pkg/ratelimit"
	"github.com/tendant/simple-accounts/pkg/router"
	"github.com/tendant/simple-accounts/pkg/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.ToDatabaseURL())
	if err != nil {
		slog.Error("Failed to create database pool", "err", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		slog.Error("Failed to connect to database", "err", err)
		os.Exit(1)
	}

	notificationManager, err := notification.NewNotificationManager(cfg.App.BaseURL,
		notification.WithSMTP(notification.SMTPConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			TLS:      cfg.Email.TLS,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		}),
		notification.WithDefaultTemplates(),
	)
	if err != nil {
		slog.Error("Failed to create notification manager", "err", err)
		os.Exit(1)
	}

	codec := token.NewCodec(
		token.WithKind(token.AccessToken, cfg.Jwt.AccessSecret, cfg.Jwt.AccessTokenExpiry),
		token.WithKind(token.RefreshToken, cfg.Jwt.RefreshSecret, cfg.Jwt.RefreshTokenExpiry),
		token.WithIssuer(cfg.Jwt.Issuer),
		token.WithAudience(cfg.Jwt.Audience),
	)

	accountRepo := account.NewPostgresRepository(pool)
	accountService := account.NewService(accountRepo)
	authService := auth.NewService(accountRepo, password.NewBcryptHasher(), codec,
		auth.WithNotificationManager(notificationManager))
	productService := product.NewService(product.NewPostgresRepository(pool))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	router.SetupRoutes(r, router.Config{
		AuthHandle:    authapi.NewHandle(authService),
		AccountHandle: accountapi.NewHandle(accountService),
		ProductHandle: productapi.NewHandle(productService),
		AuthVerifier:  client.NewAuthVerifier(codec.Secret(token.AccessToken)),

		// 10 credential requests per minute per client, burst of 10
		CredentialLimiter: ratelimit.NewLimiter(10, 10.0/60.0, time.Hour),
	})

	server := &http.Server{
		Addr:         cfg.App.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		slog.Info("Starting server", "addr", cfg.App.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "err", err)
	}
}
