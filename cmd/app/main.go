// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"qr-payment-service/internal/config"
	"qr-payment-service/internal/domain/ports/repository"
	"qr-payment-service/internal/infra/gateway"
	"qr-payment-service/internal/infra/logging"
	"qr-payment-service/internal/infra/memstore"
	"qr-payment-service/internal/infra/metrics"
	"qr-payment-service/internal/infra/page"
	red "qr-payment-service/internal/infra/redis"
	"qr-payment-service/internal/infra/sched"
	"qr-payment-service/internal/infra/web"
	"qr-payment-service/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}
	logger.Info().
		Str("gateway", cfg.Gateway.BaseURL).
		Str("api_key", logging.Redact(cfg.Gateway.APIKey, cfg.Runtime.Dev)).
		Msg("starting qr payment service")

	metrics.MustRegister()

	// ---- Mapping store ----
	var mappings repository.MappingRepository
	switch cfg.Mapping.Backend {
	case "redis":
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		mappings = red.NewMappingRepo(redisClient, cfg.Mapping.TTL)
		logger.Info().Str("backend", "redis").Dur("ttl", cfg.Mapping.TTL).Msg("mapping store ready")
	default:
		memRepo := memstore.NewMappingRepo(cfg.Mapping.TTL, cfg.Mapping.MaxEntries)
		mappings = memRepo
		janitor := sched.NewMappingJanitor(memRepo, cfg.Mapping.SweepInterval, logger)
		go janitor.Run(ctx)
		logger.Info().Str("backend", "memory").Dur("ttl", cfg.Mapping.TTL).Int("max_entries", cfg.Mapping.MaxEntries).Msg("mapping store ready")
	}

	// ---- Gateway + use cases ----
	gw := gateway.NewQRMClient(cfg.Gateway)
	renderer := page.NewRenderer()
	checkoutUC := usecase.NewCheckoutUseCase(gw, renderer, cfg.URLs, cfg.Gateway.PaymentPurpose, cfg.Checkout.DefaultAmountRub, logger)
	statusUC := usecase.NewStatusUseCase(mappings, gw, logger)

	// ---- HTTP server ----
	srv := web.NewServer(checkoutUC, statusUC, mappings, logger)
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}
}
