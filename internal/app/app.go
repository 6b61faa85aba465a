package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/a2sh3r/onagui-ledger/internal/config"
	"github.com/a2sh3r/onagui-ledger/internal/database"
	"github.com/a2sh3r/onagui-ledger/internal/handlers"
	"github.com/a2sh3r/onagui-ledger/internal/ledger"
	"github.com/a2sh3r/onagui-ledger/internal/logger"
	"github.com/a2sh3r/onagui-ledger/internal/metrics"
	"github.com/a2sh3r/onagui-ledger/internal/models"
	"github.com/a2sh3r/onagui-ledger/internal/notify"
	"github.com/a2sh3r/onagui-ledger/internal/ratelimit"
	"github.com/a2sh3r/onagui-ledger/internal/repository"
	"github.com/a2sh3r/onagui-ledger/internal/service"
	"github.com/a2sh3r/onagui-ledger/internal/supabase"
	"github.com/a2sh3r/onagui-ledger/internal/tracing"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type App struct {
	server        *http.Server
	metricsServer *http.Server
	db            *sql.DB
	redis         *redis.Client
	publisher     notify.Publisher
	reconciler    *service.Reconciler
	stopTracer    func(context.Context) error
	cancel        context.CancelFunc
}

func NewApp(ctx context.Context, args []string) (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.ParseFlags(args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := logger.Initialize(cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	stopTracer, err := tracing.InitTracer(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	db, err := database.InitDB(ctx, cfg)
	if err != nil {
		logger.Log.Error("Database connection failed", zap.Error(err))
		_ = stopTracer(ctx)
		return nil, err
	}

	a := &App{db: db, stopTracer: stopTracer}
	m := metrics.New()

	policy := ledger.Policy{
		UnverifiedMaxTransaction: cfg.UnverifiedMaxTransaction,
		LargeWithdrawalThreshold: cfg.LargeWithdrawalThreshold,
	}
	settings := repository.Settings{
		Defaults: models.UserLimits{
			MaxBalanceUSDT:       cfg.DefaultMaxBalance,
			MaxTransactionUSDT:   cfg.DefaultMaxTransaction,
			DailyWithdrawalLimit: cfg.DefaultDailyWithdrawal,
			DailyTransferLimit:   cfg.DefaultDailyTransfer,
		},
		Policy: policy,
	}

	ledgerRepo := repository.NewLedgerRepository(db, settings)
	walletRepo := repository.NewWalletRepository(db, settings)
	withdrawalRepo := repository.NewWithdrawalRepository(db, settings)
	escrowRepo := repository.NewEscrowRepository(db, settings)
	adminRepo := repository.NewAdminRepository(db)
	keyRepo := repository.NewIdempotencyRepository(db, settings)

	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter()
	if cfg.RedisAddr != "" {
		a.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		limiter = ratelimit.NewRedisLimiter(a.redis, "ledger:ratelimit")
		logger.Log.Info("using redis rate limiter", zap.String("addr", cfg.RedisAddr))
	}

	a.publisher = notify.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		kafka, err := notify.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, m)
		if err != nil {
			_ = a.closeResources(ctx)
			return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		a.publisher = kafka
	}

	strategies := []service.AdminStrategy{service.NewWhitelistStrategy(cfg.AdminEmailWhitelist, adminRepo)}
	if cfg.SupabaseURL != "" {
		strategies = append(strategies, service.NewRPCStrategy(supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey)))
	}
	strategies = append(strategies, service.NewProfileFlagStrategy(adminRepo), service.NewRoleStrategy(adminRepo))
	admins := service.NewAdminResolver(strategies...)

	walletService := service.NewWalletService(ledgerRepo, walletRepo, admins, m)
	guardService := service.NewGuardService(keyRepo, limiter, service.GuardSettings{
		LockTimeout: cfg.IdempotencyLockTimeout,
		Retention:   cfg.IdempotencyRetention,
	}, m)

	handler := handlers.NewHandler(handlers.Dependencies{
		Balance:     service.NewBalanceService(ledgerRepo, walletRepo),
		Wallets:     walletService,
		Transfers:   service.NewTransferService(ledgerRepo, admins, m),
		Withdrawals: service.NewWithdrawalService(withdrawalRepo, admins, policy, m),
		Escrow:      service.NewEscrowService(escrowRepo, admins, service.SelectWinnerStrategy(ctx, escrowRepo), m),
		Guard:       guardService,
		Admins:      admins,
		Passphrase:  service.NewPassphraseChecker(cfg.AdminPassphraseHash),
		Publisher:   a.publisher,
		DB:          db,
	})

	r := handlers.NewRouter(handler, handlers.RouterConfig{
		SecretKey:       cfg.JWTSecret,
		ServiceKey:      cfg.ServiceKey,
		CORSOrigins:     cfg.CORSOrigin,
		ServiceName:     cfg.ServiceName,
		TransferLimit:   cfg.TransferRateLimit,
		WithdrawalLimit: cfg.WithdrawalRateLimit,
		LimitWindow:     cfg.RateLimitWindow,
		ClientRPS:       cfg.ClientRPS,
		ClientBurst:     cfg.ClientBurst,
		Metrics:         m,
	})

	a.server = &http.Server{
		Addr:              cfg.RunAddress,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.MetricsAddress != "" {
		a.metricsServer = &http.Server{
			Addr:              cfg.MetricsAddress,
			Handler:           m.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}
	}
	a.reconciler = service.NewReconciler(walletService, guardService, cfg.ReconcileInterval, m)

	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	go a.reconciler.Run(ctx)

	if a.metricsServer != nil {
		go func() {
			logger.Log.Info("metrics server listening", zap.String("addr", a.metricsServer.Addr))
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Log.Error("metrics server failed", zap.Error(err))
			}
		}()
	}

	go func() {
		logger.Log.Info("ledger server listening", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed to start", zap.Error(err))
		}
	}()
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if a.cancel != nil {
		a.cancel()
	}

	logger.Log.Info("shutting down server...")
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server shutdown failed", zap.Error(err))
		return err
	}
	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Log.Warn("metrics server shutdown failed", zap.Error(err))
		}
	}

	return a.closeResources(shutdownCtx)
}

func (a *App) closeResources(ctx context.Context) error {
	var errs []error
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}

	logger.Log.Info("closing database connection...")
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	if a.stopTracer != nil {
		if err := a.stopTracer(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop tracer: %w", err))
		}
	}

	err := errors.Join(errs...)
	if err != nil {
		logger.Log.Error("failed to release resources", zap.Error(err))
	}
	return err
}
