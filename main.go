package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gclient/config"
	"gclient/cron"
	"gclient/database"
	invoiceRepo "gclient/database/repository/invoice"
	recordsRepo "gclient/database/repository/records"
	trackRepo "gclient/database/repository/track"
	userRepoPkg "gclient/database/repository/user"
	"gclient/handlers"
	"gclient/middleware"
	"gclient/models"
	"gclient/routes"
	"gclient/services/invoice"
	"gclient/services/notification"
	"gclient/services/payment"
	"gclient/services/tasks"
	"gclient/services/track"
	"gclient/services/user"
	"gclient/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg := config.LoadConfig()
	utils.InitializeLogger(cfg.Env, cfg.LogLevel)
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	authCache, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisAuthDB)
	if err != nil {
		logger.Sugar().Fatalf("main: auth cache: %v", err)
	}
	queueRedis, err := utils.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisQueueDB)
	if err != nil {
		logger.Sugar().Fatalf("main: queue redis: %v", err)
	}

	// repositories.
	users := userRepoPkg.NewMongoUserRepo(db)
	tracks := trackRepo.NewMongoTrackRepo(db)
	invoices := invoiceRepo.NewMongoInvoiceRepo(db)
	records := recordsRepo.NewMongoRecordRepo(db)

	tokens, err := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	var push notification.PushSender
	if cfg.FirebaseCredentialsFile != "" {
		fcm, err := utils.NewFCMClient(ctx, cfg.FirebaseCredentialsFile)
		if err != nil {
			logger.Warn("Push notifications disabled", zap.Error(err))
		} else {
			push = fcm
		}
	}
	notifier, err := notification.NewDefaultNotificationService(notification.NewSMTPMailer(cfg.Mail()), push, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	gateway, err := payment.NewGateway(cfg.Payment(), logger)
	if err != nil {
		logger.Sugar().Fatalf("main: payment gateway: %v", err)
	}

	queueOpt := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
	queue := asynq.NewClient(queueOpt)
	defer queue.Close()

	// services.
	userService, err := user.NewDefaultUserService(users, utils.NewOTPStore(authCache), tokens, notifier, middleware.NewAuthCache(authCache), logger)
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}
	trackService := track.NewDefaultTrackService(tracks, logger)
	invoiceService, err := invoice.NewDefaultInvoiceService(invoice.Dependencies{
		Invoices:  invoices,
		Records:   records,
		Users:     users,
		Tracks:    tracks,
		Gateway:   gateway,
		Webhooks:  payment.NewWebhookParsers(cfg.Payment(), logger),
		Notifier:  notifier,
		Reminders: tasks.NewReminderScheduler(queue),
		Billing:   cfg.Billing(),
		Logger:    logger,
	})
	if err != nil {
		logger.Sugar().Fatalf("main: %v", err)
	}

	worker := cron.NewReminderWorker(queueOpt, invoiceService, queueRedis, logger)
	worker.Start(ctx)

	utils.StartHealthMonitor(ctx, []*redis.Client{authCache, queueRedis}, database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewUserHandler(userService),
		handlers.NewTrackHandler(trackService),
		handlers.NewInvoiceHandler(invoiceService),
	)
	handlerBundle.Auth = middleware.JWTAuthMiddleware(tokens, users, authCache)
	handlerBundle.AdminOnly = middleware.RequireRole(models.RoleAdmin)
	billingAdmins := cfg.BillingAdmins()
	if len(billingAdmins) == 0 {
		logger.Warn("BILLING_ADMIN_EMAILS is empty; invoice updates are disabled")
	}
	handlerBundle.BillingAdmins = middleware.BillingAdminMiddleware(billingAdmins)

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Sugar().Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	worker.Shutdown()
	_ = authCache.Close()
	_ = queueRedis.Close()
	if err := database.CloseDB(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: mongo disconnect: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
