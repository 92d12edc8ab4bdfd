package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shutterbook/config"
	"shutterbook/cron"
	"shutterbook/database"
	bookingRepoPkg "shutterbook/database/repository/booking"
	userRepoPkg "shutterbook/database/repository/user"
	"shutterbook/handlers"
	"shutterbook/routes"
	"shutterbook/services/booking"
	"shutterbook/services/tasks"
	"shutterbook/services/user"
	"shutterbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync() //nolint:errcheck

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// repositories.
	var (
		userRepo    userRepoPkg.UserRepository
		bookingRepo bookingRepoPkg.BookingRepository
		otpStore    user.OTPStore
		notifier    booking.Notifier
		worker      *asynq.Server
		queue       *asynq.Client
	)

	if config.UsesMemoryStorage() {
		logger.Warn("main: STORAGE_DRIVER=memory, data will not survive a restart")
		userRepo = userRepoPkg.NewMemoryUserRepo()
		bookingRepo = bookingRepoPkg.NewMemoryBookingRepo()
		otpStore = utils.NewMemoryOTPStore()
	} else {
		if err := database.InitDB(); err != nil {
			logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
		}
		mongoUsers := userRepoPkg.NewMongoUserRepo(database.Collection("users"))
		mongoBookings := bookingRepoPkg.NewMongoBookingRepo(database.Collection("bookings"))
		if err := mongoUsers.EnsureIndexes(rootCtx); err != nil {
			logger.Fatal("main: failed to create user indexes", zap.Error(err))
		}
		if err := mongoBookings.EnsureIndexes(rootCtx); err != nil {
			logger.Fatal("main: failed to create booking indexes", zap.Error(err))
		}
		userRepo, bookingRepo = mongoUsers, mongoBookings

		if err := utils.InitOTPCache(); err != nil {
			logger.Fatal("main: failed to connect to Redis", zap.Error(err))
		}
		otpStore = utils.NewRedisOTPStore(utils.GetOTPCacheClient())

		queue = asynq.NewClient(cron.RedisOpts())
		notifier = tasks.NewAsynqNotifier(queue)
		worker = cron.InitNotificationWorker(rootCtx, cron.LogDeliverer{})
	}
	utils.StartHealthMonitor(rootCtx, utils.GetOTPCacheClient(), database.MongoClient)

	// services.
	userService := &user.DefaultUserService{
		Repo:     userRepo,
		OTP:      otpStore,
		Sender:   user.LogOTPSender{},
		TokenTTL: time.Duration(config.AppConfig.TokenTTLHours) * time.Hour,
		OTPTTL:   time.Duration(config.AppConfig.OTPTTLMinutes) * time.Minute,
	}
	if config.AppConfig.AdminEmail != "" {
		if err := userService.EnsureAdmin(rootCtx, config.AppConfig.AdminName, config.AppConfig.AdminEmail, config.AppConfig.AdminPassword); err != nil {
			logger.Fatal("main: failed to seed admin account", zap.Error(err))
		}
	} else {
		logger.Warn("main: ADMIN_EMAIL not set, no administrator account seeded")
	}
	bookingService := booking.NewBookingService(bookingRepo, notifier)

	// Assemble the handler bundle.
	handlerBundle := handlers.NewHandlerBundle(
		userRepo,
		handlers.NewUserHandler(userService),
		handlers.NewBookingHandler(bookingService),
	)
	router := routes.NewRouter(handlerBundle, routes.RouterOptions{
		AllowedOrigins:    config.AppConfig.AllowedOrigins,
		MaxRequestsPerMin: config.AppConfig.MaxRequestsPerMin,
	})

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queue != nil {
		if err := queue.Close(); err != nil {
			logger.Warn("main: failed to close task queue client", zap.Error(err))
		}
	}
	if err := database.Disconnect(ctx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
