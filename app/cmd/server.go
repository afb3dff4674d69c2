package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/bbmart/marketplace/app/configs"
	"github.com/bbmart/marketplace/app/handlers"
	"github.com/bbmart/marketplace/app/handlers/admin"
	"github.com/bbmart/marketplace/app/middlewares"
	"github.com/bbmart/marketplace/app/repositories"
	"github.com/bbmart/marketplace/app/routes"
	"github.com/bbmart/marketplace/app/services"
	"github.com/bbmart/marketplace/app/utils/renderer"
	"github.com/bbmart/marketplace/app/utils/sessions"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

// optionalStores connects the quote cache and the audit store when they are
// configured. Either one failing to connect only degrades the service.
func optionalStores(ctx context.Context, env configs.ENV, logger *zap.Logger) (repositories.QuoteCache, repositories.AuditRepository, func()) {
	var (
		cache   repositories.QuoteCache
		audit   repositories.AuditRepository
		closers []func()
	)

	if env.RedisAddr != "" {
		redisCache := repositories.NewRedisQuoteCache(env.RedisAddr, env.RedisPassword, env.RedisDB, env.QuoteCacheTTL)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, delivery quotes will not be cached", zap.String("addr", env.RedisAddr), zap.Error(err))
			_ = redisCache.Close()
		} else {
			logger.Info("delivery quote cache enabled", zap.String("addr", env.RedisAddr), zap.Duration("ttl", env.QuoteCacheTTL))
			cache = redisCache
			closers = append(closers, func() { _ = redisCache.Close() })
		}
	}

	if env.MongoURI != "" {
		mongoAudit, err := repositories.NewMongoAuditRepository(env.MongoURI, env.MongoDatabase, env.MongoCollection)
		if err != nil {
			logger.Warn("mongodb unavailable, order audit trail disabled", zap.Error(err))
		} else {
			logger.Info("order audit trail enabled", zap.String("database", env.MongoDatabase), zap.String("collection", env.MongoCollection))
			audit = mongoAudit
			closers = append(closers, func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = mongoAudit.Close(ctx)
			})
		}
	}

	return cache, audit, func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}
}

func newPaymentGateway(env configs.ENV, logger *zap.Logger) services.PaymentGateway {
	snapClient, coreClient := configs.NewMidtransClients(env)
	if snapClient == nil {
		logger.Warn("MIDTRANS_SERVER_KEY not set, online payments are unavailable")
		return nil
	}
	return services.NewMidtransGateway(snapClient, coreClient, env.PaymentCurrency, env.AppURL, logger)
}

func buildRouter(ctx context.Context, env configs.ENV, logger *zap.Logger) (http.Handler, func(), error) {
	keys, err := configs.LoadSessionKeys(env)
	if err != nil {
		return nil, nil, err
	}
	db, err := configs.OpenConnection(env, logger)
	if err != nil {
		return nil, nil, err
	}
	if env.PaymentSecret == "" {
		logger.Warn("PAYMENT_SIGNATURE_SECRET not set, payment verification will reject every signature")
	}

	cache, audit, closeStores := optionalStores(ctx, env, logger)

	tx := repositories.NewTransactor(db)
	productRepo := repositories.NewProductRepository(db)
	vendorRepo := repositories.NewVendorRepository(db)
	cartRepo := repositories.NewCartRepository(db)
	orderRepo := repositories.NewOrderRepository(db)

	aggregator := services.NewShiprocketClient(services.ShiprocketConfig{
		BaseURL:  env.ShiprocketBaseURL,
		Email:    env.ShiprocketEmail,
		Password: env.ShiprocketPassword,
		TokenTTL: env.ShiprocketTokenTTL,
	}, logger)
	mailer := services.NewMailer(services.MailConfig{
		Host:     env.EmailHost,
		Port:     env.EmailPort,
		Username: env.EmailUsername,
		Password: env.EmailPassword,
		From:     env.EmailFrom,
		Currency: env.PaymentCurrency,
	}, logger)
	if !mailer.Enabled() {
		logger.Info("EMAIL_HOST not set, order emails are disabled")
	}
	gateway := newPaymentGateway(env, logger)

	cartSvc := services.NewCartService(cartRepo, productRepo)
	deliverySvc := services.NewDeliveryService(aggregator, vendorRepo, cartRepo, cache, logger)
	checkoutSvc := services.NewCheckoutService(tx, cartRepo, productRepo, orderRepo, audit, deliverySvc, gateway, mailer, logger)
	paymentSvc := services.NewPaymentService(tx, orderRepo, cartRepo, audit, gateway, env.PaymentSecret, logger)
	shipmentSvc := services.NewShipmentService(tx, orderRepo, vendorRepo, audit, aggregator, logger)
	orderSvc := services.NewOrderService(tx, orderRepo, productRepo, audit, shipmentSvc, logger)
	vendorSvc := services.NewVendorService(vendorRepo, aggregator, logger)
	catalogSvc := services.NewCatalogService(productRepo, logger)
	reportSvc := services.NewReportService(orderRepo, productRepo, vendorRepo, env.PaymentCurrency)

	rnd := renderer.New(env.IsProduction())
	base := handlers.NewBase(rnd, validator.New(), logger, env.IsProduction())

	tokens := sessions.NewTokenCodec(keys.AuthKey, keys.EncKey, env.TokenTTL)
	sessionStore := sessions.NewCookieSessionStore(logger, env.IsProduction(), keys.AuthKey, keys.EncKey)
	auth := middlewares.NewAuth(tokens, sessionStore, vendorSvc, rnd, logger)

	router := routes.NewRouter(routes.Handlers{
		Products:     handlers.NewProductHandler(base, catalogSvc),
		Cart:         handlers.NewCartHandler(base, cartSvc),
		Checkout:     handlers.NewCheckoutHandler(base, checkoutSvc, deliverySvc),
		Payments:     handlers.NewPaymentHandler(base, paymentSvc),
		Orders:       handlers.NewOrderHandler(base, orderSvc, shipmentSvc),
		VendorOrders: handlers.NewVendorOrderHandler(base, orderSvc, shipmentSvc),
		Vendor:       handlers.NewVendorHandler(base, vendorSvc, catalogSvc, reportSvc),
		Sessions:     handlers.NewSessionHandler(base, sessionStore),
		Admin:        admin.NewAdminHandler(base, orderSvc, catalogSvc, vendorSvc, reportSvc),
	}, auth, rnd, logger)

	cleanup := func() {
		closeStores()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return router, cleanup, nil
}

func serve(ctx context.Context) error {
	env := configs.LoadEnv()
	logger, err := configs.NewLogger(env)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router, cleanup, err := buildRouter(ctx, env, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	server := &http.Server{
		Addr:              env.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr), zap.String("app_url", env.AppURL))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
