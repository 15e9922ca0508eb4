package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	httpAdapter "github.com/iho/corebank/internal/adapter/http"
	"github.com/iho/corebank/internal/adapter/http/handler"
	postgresRepo "github.com/iho/corebank/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/corebank/internal/adapter/repository/redis"
	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/infrastructure/config"
	"github.com/iho/corebank/internal/infrastructure/fxrate"
	"github.com/iho/corebank/internal/infrastructure/kyc"
	"github.com/iho/corebank/internal/infrastructure/logger"
	"github.com/iho/corebank/internal/infrastructure/metrics"
	"github.com/iho/corebank/internal/infrastructure/postgres"
	"github.com/iho/corebank/internal/infrastructure/redis"
	"github.com/iho/corebank/internal/infrastructure/routing"
	"github.com/iho/corebank/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = appLogger

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL: cfg.DatabaseURL,
		MaxConns:    cfg.DatabaseMaxConns,
		MinConns:    cfg.DatabaseMinConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Metrics registry
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	depositRepo := postgresRepo.NewDepositRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier()

	// External collaborators
	var rates usecase.RateProvider = fxrate.NewStaticProvider()
	if cfg.FXProviderURL != "" {
		rates = fxrate.NewHTTPProvider(cfg.FXProviderURL, cfg.FXRequestTimeout, cache, cfg.FXCacheTTL, appLogger, m)
	}

	var gateway usecase.RoutingGateway = routing.NewLoopbackGateway()
	if cfg.RoutingGatewayURL != "" {
		gateway = routing.NewHTTPGateway(cfg.RoutingGatewayURL, cfg.RoutingTimeout, appLogger)
	} else {
		log.Warn().Msg("routing gateway URL not set, using loopback gateway")
	}

	var kycProvider usecase.KYCProvider = kyc.NewAllowAllProvider()
	if cfg.KYCProviderURL != "" {
		kycProvider = kyc.NewHTTPProvider(cfg.KYCProviderURL, cfg.RoutingTimeout)
	} else {
		log.Warn().Msg("KYC provider URL not set, treating all owners as verified")
	}

	// Policy values
	externalFee := mustDecimal(cfg.ExternalTransferFee, "EXTERNAL_TRANSFER_FEE")
	kycThreshold := mustDecimal(cfg.KYCThreshold, "KYC_THRESHOLD")
	rateTable := buildRateTable(cfg)
	depositPolicy := usecase.DepositPolicy{
		MinDurationMonths: cfg.DepositMinMonths,
		MaxDurationMonths: cfg.DepositMaxMonths,
		BreakRetention:    mustDecimal(cfg.DepositBreakRetention, "DEPOSIT_BREAK_RETENTION"),
	}

	// Initialize use cases
	quotes := usecase.NewQuoteCalculator(rates, externalFee)
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, transactionRepo, quotes, gateway, kycProvider, idGen, kycThreshold, appLogger, m).WithRetrier(retrier)
	accountUC := usecase.NewAccountUseCase(accountRepo, transactionRepo, idGen, m)
	depositUC := usecase.NewFixedDepositUseCase(txManager, accountRepo, transactionRepo, depositRepo, rateTable, depositPolicy, idGen, appLogger, m).WithRetrier(retrier)
	accrualUC := usecase.NewInterestAccrualUseCase(accountRepo, transferUC, rateTable, cfg.AccrualWorkers, appLogger, m)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, appLogger)

	// Initialize handlers
	accountHandler := handler.NewAccountHandler(accountUC, transferUC)
	transferHandler := handler.NewTransferHandler(transferUC)
	depositHandler := handler.NewDepositHandler(depositUC)
	accrualHandler := handler.NewAccrualHandler(accrualUC)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:   accountHandler,
		TransferHandler:  transferHandler,
		DepositHandler:   depositHandler,
		AccrualHandler:   accrualHandler,
		LedgerHandler:    ledgerHandler,
		HealthHandler:    healthHandler,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
		Logger:           appLogger,
		Metrics:          m,
		Registry:         registry,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

func mustDecimal(value, name string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		log.Fatal().Err(err).Str("name", name).Str("value", value).Msg("invalid decimal config value")
	}
	return d
}

const rateTableVersion = "v1"

// buildRateTable assembles the interest policy from config. Account types
// without their own tier fall back to the default tier.
func buildRateTable(cfg *config.Config) *domain.InterestRateTable {
	minBalance := mustDecimal(cfg.InterestMinBalance, "INTEREST_MIN_BALANCE")

	tiers := map[domain.AccountType]domain.RateTier{
		domain.AccountTypeSavings: {
			AnnualRate:     mustDecimal(cfg.InterestRateSavings, "INTEREST_RATE_SAVINGS"),
			MinimumBalance: minBalance,
		},
		domain.AccountTypeChecking: {
			AnnualRate:     mustDecimal(cfg.InterestRateChecking, "INTEREST_RATE_CHECKING"),
			MinimumBalance: minBalance,
		},
		domain.AccountTypeBusiness: {
			AnnualRate:     mustDecimal(cfg.InterestRateBusiness, "INTEREST_RATE_BUSINESS"),
			MinimumBalance: minBalance,
		},
	}

	defaultTier := domain.RateTier{
		AnnualRate:     mustDecimal(cfg.InterestRateDefault, "INTEREST_RATE_DEFAULT"),
		MinimumBalance: minBalance,
	}

	depositTiers := []domain.DepositTier{
		{MinMonths: 3, AnnualRate: mustDecimal(cfg.DepositRate3M, "DEPOSIT_RATE_3M")},
		{MinMonths: 6, AnnualRate: mustDecimal(cfg.DepositRate6M, "DEPOSIT_RATE_6M")},
		{MinMonths: 12, AnnualRate: mustDecimal(cfg.DepositRate12M, "DEPOSIT_RATE_12M")},
		{MinMonths: 24, AnnualRate: mustDecimal(cfg.DepositRate24M, "DEPOSIT_RATE_24M")},
	}

	return domain.NewInterestRateTable(rateTableVersion, tiers, defaultTier, depositTiers)
}
