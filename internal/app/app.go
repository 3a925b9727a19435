// Package app wires the billing server together: configuration, storage,
// domain services, HTTP surface, and graceful shutdown.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/gauravMishra08/MKBBbilling/internal/domain/bill"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/currency"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/customer"
	"github.com/gauravMishra08/MKBBbilling/internal/domain/product"
	"github.com/gauravMishra08/MKBBbilling/internal/handler"
	"github.com/gauravMishra08/MKBBbilling/internal/receipt"
	"github.com/gauravMishra08/MKBBbilling/internal/storage/localstore"
	"github.com/gauravMishra08/MKBBbilling/pkg/health"
	"github.com/gauravMishra08/MKBBbilling/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles
// graceful shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing",
		zap.String("addr", cfg.Addr),
		zap.String("data_dir", cfg.DataDir),
	)

	store, err := localstore.Open(cfg.DataDir)
	if err != nil {
		return errors.Wrap(err, "open store")
	}

	conv, err := currency.NewConverter(cfg.NPRRate)
	if err != nil {
		return errors.Wrap(err, "configure currency")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("store", 5*time.Second, store.Ping)
	healthSvc.AddReadinessCheck("data-dir", 5*time.Second, health.DirWritableCheck(store.Dir()))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories and domain services.
	catalog := product.NewCatalog(localstore.NewProductRepository(store))
	directory := customer.NewDirectory(localstore.NewCustomerRepository(store))
	assembler := bill.NewAssembler(catalog, conv)

	// HTTP surface.
	h := handler.NewHandler(
		handler.Config{Shop: shopIdentity(cfg.Shop)},
		catalog,
		directory,
		assembler,
	)
	guard := handler.NewSecurityGuard(
		localstore.NewAPIKeyRepository(store),
		[]byte(cfg.APIKeyPepper),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Register(mux, guard.Wrap)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", handler.APIKeyHeader},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("billing-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: stop taking traffic, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// shopIdentity merges configured overrides onto the default shop identity.
func shopIdentity(cfg ShopConfig) receipt.Shop {
	shop := receipt.DefaultShop()
	if cfg.Name != "" {
		shop.Name = cfg.Name
	}
	if cfg.Address != "" {
		shop.Address = cfg.Address
	}
	if cfg.GSTIN != "" {
		shop.GSTIN = cfg.GSTIN
	}
	return shop
}
