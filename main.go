// File: tutorly/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutorly/config"
	"tutorly/cron"
	"tutorly/database"
	availabilityRepo "tutorly/database/repository/availability"
	bookingRepo "tutorly/database/repository/booking"
	rescheduleRepo "tutorly/database/repository/reschedule"
	sessionRepo "tutorly/database/repository/session"
	"tutorly/handlers"
	"tutorly/middleware"
	"tutorly/routes"
	"tutorly/services/availability"
	"tutorly/services/notification"
	"tutorly/services/scheduling"
	"tutorly/services/tasks"
	"tutorly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	availRepo := availabilityRepo.NewMongoAvailabilityRepo()
	bookRepo := bookingRepo.NewMongoBookingRepo()
	sessRepo := sessionRepo.NewMongoSessionRepo()
	reschedRepo := rescheduleRepo.NewMongoRescheduleRepo()

	// core engine.
	conflictChecker := &scheduling.ConflictChecker{Bookings: bookRepo}
	ledger := &scheduling.BookingLedger{
		Bookings:  bookRepo,
		Conflicts: conflictChecker,
		Logger:    logger,
	}
	workflow := &scheduling.RescheduleWorkflow{
		Requests:   reschedRepo,
		Bookings:   bookRepo,
		Sessions:   sessRepo,
		Conflicts:  conflictChecker,
		MaxPending: config.AppConfig.MaxPendingReschedules,
		Logger:     logger,
	}

	// services.
	availabilitySvc := &availability.DefaultAvailabilityService{
		Repo:      availRepo,
		Conflicts: conflictChecker,
		Cache:     utils.GetCacheClient(),
		Logger:    logger,
	}
	notificationSvc := &notification.DefaultNotificationService{
		Sender: &notification.LogSender{Logger: logger},
		Logger: logger,
	}

	// background notification worker.
	cron.InitNotificationWorker(notificationSvc)
	queueClient := tasks.NewQueueClient()
	defer queueClient.Close()

	// handlers.
	availabilityHandler := handlers.NewAvailabilityHandler(availabilitySvc)
	bookingHandler := handlers.NewBookingHandler(ledger, sessRepo, availabilitySvc, queueClient)
	rescheduleHandler := handlers.NewRescheduleHandler(workflow, availabilitySvc)

	routes.RegisterRoutes(router, availabilityHandler, bookingHandler, rescheduleHandler)

	utils.StartHealthMonitor(utils.GetCacheClient(), database.MongoClient)

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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
