package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/orchestrator"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/tracking"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/application/verification"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/charge"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/profile"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/domain/session"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/clock"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/config"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/logging"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infra/telemetry"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/eventbus"
	httpapi "github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/http"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/messaging/natsbus"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/outbox"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/persistence/inmemory"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/persistence/sqlite"
	"github.com/rcarvalho-pb/kyc_deposit-go/internal/infrastructure/pix"
)

type stores struct {
	profiles profile.Repository
	charges  charge.Repository
	outbox   outbox.Repository
	db       *sql.DB
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logging.NewLogrusLogger("error", os.Stderr).Error("load config failed", map[string]any{"error": err.Error()})
		os.Exit(2)
	}

	logger := logging.NewLogrusLogger(cfg.Log.Level, os.Stdout)
	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *logging.LogrusLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, telemetry.Settings{
		Enabled:     cfg.Telemetry.Enabled,
		Endpoint:    cfg.Telemetry.Endpoint,
		Insecure:    cfg.Telemetry.Insecure,
		ServiceName: cfg.Telemetry.ServiceName,
	})
	if err != nil {
		return err
	}
	defer shutdownTracing(context.Background())

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	counters := metrics.NewCounters(reg)

	st, err := openStores(cfg.Storage)
	if err != nil {
		return err
	}
	if st.db != nil {
		defer st.db.Close()
	}

	bus := eventbus.NewInMemoryBus()
	recorder := &outbox.Recorder{Repo: st.outbox}
	bus.SubscribeAll(recorder.Record)

	publisher, closeBroker, err := openPublisher(cfg.NATS, logger)
	if err != nil {
		return err
	}
	defer closeBroker()

	dispatcher := &outbox.Dispatcher{
		Repo:         st.outbox,
		Publisher:    publisher,
		Logger:       logger.With(map[string]any{"component": "outbox"}),
		Metrics:      counters,
		PollInterval: cfg.Outbox.PollInterval,
		BatchSize:    cfg.Outbox.BatchSize,
	}
	go dispatcher.Run(ctx)

	var simulator *pix.Simulator
	var backend charge.Service
	switch cfg.Pix.Mode {
	case "http":
		backend = &pix.Client{
			BaseURL:    cfg.Pix.BaseURL,
			HTTPClient: &http.Client{Timeout: 15 * time.Second},
		}
	default:
		simulator = &pix.Simulator{
			Repo: st.charges,
			Merchant: pix.Merchant{
				Key:  cfg.Pix.MerchantKey,
				Name: cfg.Pix.MerchantName,
				City: cfg.Pix.MerchantCity,
			},
			AutoPayAfter: cfg.Pix.AutoPayAfter,
		}
		backend = simulator
	}
	charges := &telemetry.TracedCharges{Next: backend}

	orchestratorConfig, err := cfg.Orchestrator()
	if err != nil {
		return err
	}
	policy := session.PolicyByName(cfg.Deposit.Policy)
	tracker := &tracking.ConversionTracker{
		Recorder: recorder,
		Logger:   logger.With(map[string]any{"component": "tracking"}),
	}

	service := &verification.Service{
		Profiles: st.profiles,
		Logger:   logger.With(map[string]any{"component": "verification"}),
		NewOrchestrator: func(owner string) *orchestrator.Orchestrator {
			return &orchestrator.Orchestrator{
				Owner:    owner,
				Charges:  charges,
				Tracker:  tracker,
				Policy:   policy,
				EventBus: bus,
				Clock:    clock.System{},
				Logger:   logger.With(map[string]any{"component": "orchestrator", "owner": owner}),
				Metrics:  counters,
				Config:   orchestratorConfig,
			}
		},
	}
	defer service.CloseAll()

	hub := httpapi.NewHub(service.Snapshot, logger.With(map[string]any{"component": "stream"}))
	bus.SubscribeAll(hub.Notify)

	routes := httpapi.Routes{
		Deposits: &httpapi.DepositHandler{Service: service},
		Hub:      hub,
		Gatherer: reg,
		Logger:   logger.With(map[string]any{"component": "http"}),
	}
	if simulator != nil {
		routes.Pix = &httpapi.PixHandler{Simulator: simulator}
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           httpapi.NewRouter(routes),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", map[string]any{
			"addr":    cfg.HTTP.Addr,
			"storage": cfg.Storage.Driver,
			"pix":     cfg.Pix.Mode,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	return shutdown(shutdownCtx, srv, service, dispatcher)
}

func openStores(cfg config.Storage) (*stores, error) {
	if cfg.Driver != "sqlite" {
		return &stores{
			profiles: inmemory.NewProfileRepository(),
			charges:  inmemory.NewChargeRepository(),
			outbox:   outbox.NewInMemoryRepository(),
		}, nil
	}

	db, err := sqlite.Open(cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.RunMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &stores{
		profiles: sqlite.NewProfileRepository(db),
		charges:  sqlite.NewChargeRepository(db),
		outbox:   outbox.NewSQLiteRepository(db),
		db:       db,
	}, nil
}

func openPublisher(cfg config.NATS, logger *logging.LogrusLogger) (outbox.Publisher, func(), error) {
	if cfg.URL == "" {
		return &outbox.LogPublisher{Logger: logger.With(map[string]any{"component": "outbox"})}, func() {}, nil
	}

	conn, err := natsbus.Connect(cfg.URL, cfg.Timeout, logger.With(map[string]any{"component": "nats"}))
	if err != nil {
		return nil, nil, err
	}

	pub := &natsbus.Publisher{Conn: conn, Prefix: cfg.Prefix}
	return pub, func() { _ = conn.Drain() }, nil
}
