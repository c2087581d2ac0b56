package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"returns-settlement-engine/config"
	httpHandler "returns-settlement-engine/internal/adapter/http/handler"
	"returns-settlement-engine/internal/adapter/storage/memory"
	pgStorage "returns-settlement-engine/internal/adapter/storage/postgres"
	redisStorage "returns-settlement-engine/internal/adapter/storage/redis"
	"returns-settlement-engine/internal/core/ports"
	"returns-settlement-engine/internal/service"
	"returns-settlement-engine/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config.yaml or ./config/config.yaml)")
	hashPIN := flag.String("hash-pin", "", "print the Argon2id hash of a manager PIN for returns.manager_pin_hash and exit")
	issueToken := flag.String("issue-token", "", "print a staff token for staff_id:role and exit")
	flag.Parse()

	if *hashPIN != "" {
		hash, err := service.NewPINHasher().Hash(*hashPIN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to hash PIN: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("jwt.secret must be set (RSE_JWT_SECRET)")
	}
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	if *issueToken != "" {
		staffID, role, _ := strings.Cut(*issueToken, ":")
		token, expiry, err := tokenSvc.Generate(staffID, role)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to issue staff token")
		}
		fmt.Printf("%s\n# expires %s\n", token, expiry.Format(time.RFC3339))
		return
	}

	log.Info().
		Str("mode", cfg.Server.Mode).
		Str("storage", cfg.Storage.Driver).
		Bool("redis", cfg.Redis.Enabled).
		Int("port", cfg.Server.Port).
		Msg("Starting Returns Settlement Engine")

	ctx := context.Background()
	loc, _ := cfg.Returns.Location() // validated by config.Load

	// Storage
	var st storage
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		st = postgresStorage(pool, cfg.Database.LockTimeout)
	case "memory":
		log.Warn().Msg("Using in-memory storage with demo data; nothing survives a restart")
		st = memoryStorage(memory.NewSeeded(time.Now()))
	}

	// Redis layer: caches, in-flight guard, rate limits. Without Redis the
	// caches stay nil and the guard and limiter run in process.
	var (
		idempCache  ports.IdempotencyCache
		lookupCache ports.LookupCache
		inFlight    ports.InFlightGuard   = memory.NewInFlightGuard()
		rateLimits  ports.RateLimitStore = memory.NewRateLimitStore()
	)
	if cfg.Redis.Enabled {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		idempCache, lookupCache, inFlight, rateLimits = redisLayer(rdb)
		st.health = append(st.health, redisStorage.NewHealthCheck(rdb))
	}

	// Collaborators
	hasher := service.NewPINHasher()
	if cfg.Returns.ManagerPINHash == "" {
		log.Warn().Msg("returns.manager_pin_hash is empty; manager overrides are not PIN-checked")
	}
	authorizer := service.NewManagerPINAuthorizer(hasher, cfg.Returns.ManagerPINHash, log)
	notifier := service.NewNotificationService(
		cfg.Notification.URL,
		cfg.Notification.Secret,
		service.NewHMACSigner(),
		st.notificationLogs,
		&http.Client{Timeout: cfg.Notification.Timeout},
		log,
	)
	auditSvc := service.NewAuditService(st.audit, log)

	// Business services
	returnSvc := service.NewReturnService(service.ReturnDeps{
		SaleRepo:    st.sales,
		PolicyRepo:  st.policies,
		ReturnRepo:  st.returns,
		SlipRepo:    st.slips,
		CreditRepo:  st.credits,
		InvRepo:     st.inventory,
		BarcodeRepo: st.barcodes,
		SeqRepo:     st.sequences,
		IdempRepo:   st.idempotency,
		IdempCache:  idempCache,
		InFlight:    inFlight,
		LookupCache: lookupCache,
		Authorizer:  authorizer,
		Notifier:    notifier,
		Transactor:  st.transactor,
	}, service.ReturnSettings{
		ReturnPrefix:      cfg.Returns.ReturnPrefix,
		SlipPrefix:        cfg.Returns.SlipPrefix,
		SlipValidityDays:  cfg.Returns.SlipValidityDays,
		SettlementTimeout: cfg.Returns.SettlementTimeout,
		IdempotencyTTL:    cfg.Returns.IdempotencyTTL,
		InFlightTTL:       cfg.Returns.InFlightTTL,
		Location:          loc,
	}, log)
	slipSvc := service.NewExchangeSlipService(st.slips, st.customers, st.transactor, lookupCache, notifier, cfg.Returns.LookupCacheTTL, log)
	creditSvc := service.NewOverpaymentService(st.credits, st.customers, st.transactor, lookupCache, notifier, log)
	lookupSvc := service.NewSaleLookupService(st.sales, st.customers, st.products, lookupCache, cfg.Returns.LookupCacheTTL, log)
	reportingSvc := service.NewReportingService(st.returns, st.customers)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		ReturnSvc:      returnSvc,
		SlipSvc:        slipSvc,
		CreditSvc:      creditSvc,
		LookupSvc:      lookupSvc,
		ReportingSvc:   reportingSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimits,
		AuditSvc:       auditSvc,
		HealthCheckers: st.health,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Mode:           cfg.Server.Mode,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// storage bundles the repositories of one storage driver.
type storage struct {
	sales            ports.SaleRepository
	policies         ports.PolicyRepository
	returns          ports.ReturnRepository
	slips            ports.ExchangeSlipRepository
	credits          ports.OverpaymentRepository
	inventory        ports.InventoryRepository
	barcodes         ports.BarcodeRepository
	sequences        ports.SequenceRepository
	idempotency      ports.IdempotencyRepository
	customers        ports.CustomerRepository
	products         ports.ProductRepository
	audit            ports.AuditRepository
	notificationLogs ports.NotificationLogRepository
	transactor       ports.DBTransactor
	health           []ports.HealthChecker
}

func postgresStorage(pool pgStorage.Pool, lockTimeout time.Duration) storage {
	return storage{
		sales:            pgStorage.NewSaleRepo(pool),
		policies:         pgStorage.NewPolicyRepo(pool),
		returns:          pgStorage.NewReturnRepo(pool),
		slips:            pgStorage.NewSlipRepo(pool),
		credits:          pgStorage.NewOverpaymentRepo(pool),
		inventory:        pgStorage.NewInventoryRepo(pool),
		barcodes:         pgStorage.NewBarcodeRepo(),
		sequences:        pgStorage.NewSequenceRepo(),
		idempotency:      pgStorage.NewIdempotencyRepo(pool),
		customers:        pgStorage.NewCustomerRepo(pool),
		products:         pgStorage.NewProductRepo(pool),
		audit:            pgStorage.NewAuditRepo(pool),
		notificationLogs: pgStorage.NewNotificationLogRepo(pool),
		transactor:       pgStorage.NewTransactor(pool, lockTimeout),
		health:           []ports.HealthChecker{pgStorage.NewHealthCheck(pool)},
	}
}

func memoryStorage(s *memory.Store) storage {
	return storage{
		sales:            memory.NewSaleRepo(s),
		policies:         memory.NewPolicyRepo(s),
		returns:          memory.NewReturnRepo(s),
		slips:            memory.NewSlipRepo(s),
		credits:          memory.NewOverpaymentRepo(s),
		inventory:        memory.NewInventoryRepo(s),
		barcodes:         memory.NewBarcodeRepo(s),
		sequences:        memory.NewSequenceRepo(s),
		idempotency:      memory.NewIdempotencyRepo(s),
		customers:        memory.NewCustomerRepo(s),
		products:         memory.NewProductRepo(s),
		audit:            memory.NewAuditRepo(s),
		notificationLogs: memory.NewNotificationLogRepo(s),
		transactor:       memory.NewTransactor(s),
		health:           []ports.HealthChecker{memory.NewHealthCheck()},
	}
}

func redisLayer(rdb *goredis.Client) (ports.IdempotencyCache, ports.LookupCache, ports.InFlightGuard, ports.RateLimitStore) {
	return redisStorage.NewIdempotencyCache(rdb),
		redisStorage.NewLookupCache(rdb),
		redisStorage.NewInFlightGuard(rdb),
		redisStorage.NewRateLimitStore(rdb)
}
