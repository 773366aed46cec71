package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"gym-insights/backend/internal/config"
	"gym-insights/backend/internal/domain/account"
	"gym-insights/backend/internal/domain/analytics"
	"gym-insights/backend/internal/domain/embed"
	"gym-insights/backend/internal/domain/report"
	apihttp "gym-insights/backend/internal/http"
	"gym-insights/backend/internal/store"
	"gym-insights/backend/internal/zoezi"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(os.Stdout)

	ctx := context.Background()
	cfg := config.Load()

	zoeziClient := zoezi.NewClient(zoezi.Config{
		BaseURL: cfg.ZoeziBaseURL,
		APIKey:  cfg.ZoeziAPIKey,
	})
	if !zoeziClient.Configured() {
		log.Warn().Msg("ZOEZI_BASE_URL / ZOEZI_API_KEY not set, analytics requests will fail")
	}

	aggSvc := analytics.NewService(analytics.DefaultOptions())
	reportSvc := report.NewService(zoeziClient, aggSvc)

	// Accounts are optional: without DATABASE_URL the analytics routes are
	// served without cookie auth.
	var accountSvc *account.Service
	if cfg.DatabaseURL != "" {
		db, err := store.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres init failed")
		}
		defer db.Close()

		if err := store.EnsureSchema(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("schema init failed")
		}

		accountSvc = account.NewService(account.NewRepo(db), cfg.SessionTTL)
		log.Info().Msg("accounts enabled")
	} else {
		log.Warn().Msg("DATABASE_URL not set, running without authentication")
	}

	embedSigner := embed.NewSigner(cfg.EmbedSecret, time.Hour)
	if !embedSigner.Configured() {
		log.Warn().Msg("EMBED_SECRET not set, embed routes disabled")
	}

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:      cfg,
		Accounts: accountSvc,
		Reports:  reportSvc,
		Embeds:   embedSigner,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Port).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("shutting down")
	_ = srv.Shutdown(ctxShutdown)
}
