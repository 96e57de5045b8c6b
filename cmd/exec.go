package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	pubnub "github.com/pubnub/go"

	"tripease/config"
	"tripease/internal/assistant"
	"tripease/internal/handlers"
	"tripease/internal/services"
	"tripease/monitoring"
	"tripease/security"
	"tripease/utils"

	_ "tripease/migrations"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub
	pnConfig := pubnub.NewConfig()
	pnConfig.PublishKey = cfg.PubNubPublishKey
	pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
	pnConfig.SecretKey = cfg.PubNubSecretKey

	pn := pubnub.NewPubNub(pnConfig)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize services
	notifier := services.NewNotifier(pn)
	monitor := monitoring.NewMonitor()
	reconciler := services.NewReconciler(app, notifier, cfg, monitor)
	bookingService := services.NewBookingService(app, notifier, cfg, monitor)
	tripService := services.NewTripService(app, notifier, cfg, reconciler)
	recentLogins := services.NewRecentLoginService(redisClient, cfg.RecentLoginLimit)
	rateLimiter := security.NewRateLimiter(redisClient, cfg.BookingRateLimit, cfg.BookingRateWindow)
	aiAssistant := assistant.New(ctx, cfg)

	// Initialize handlers
	tripHandler := handlers.NewTripHandler(tripService)
	bookingHandler := handlers.NewBookingHandler(bookingService, rateLimiter)
	adminHandler := handlers.NewAdminHandler(app)
	profileHandler := handlers.NewProfileHandler(app, recentLogins)
	assistantHandler := handlers.NewAssistantHandler(aiAssistant)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// New accounts start as plain passengers with a short member code.
	app.OnRecordCreate("users").BindFunc(func(e *core.RecordEvent) error {
		if e.Record.GetString("role") == "" {
			e.Record.Set("role", "user")
		}
		if e.Record.GetString("user_code") == "" {
			if code, err := utils.GenerateCode(3); err == nil {
				e.Record.Set("user_code", code)
			}
		}
		return e.Next()
	})

	// Setup graceful shutdown
	go handleShutdown(cancel, reconciler)

	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Trip endpoints
		e.Router.GET("/api/v1/trips", tripHandler.ListTrips)
		e.Router.GET("/api/v1/trips/managed", tripHandler.ListManagedTrips)
		e.Router.POST("/api/v1/trips", tripHandler.PostTrips)
		e.Router.PATCH("/api/v1/trips/{tripId}/status", tripHandler.UpdateTripStatus)

		// Booking endpoints
		e.Router.POST("/api/v1/bookings", bookingHandler.CreateBooking)
		e.Router.GET("/api/v1/bookings/my", bookingHandler.MyBookings)
		e.Router.GET("/api/v1/bookings/queue", bookingHandler.StaffBookings)
		e.Router.PATCH("/api/v1/bookings/{bookingId}/status", bookingHandler.UpdateBookingStatus)
		e.Router.DELETE("/api/v1/bookings/{bookingId}", bookingHandler.DeleteBooking)

		// Profile endpoints
		e.Router.GET("/api/v1/me", profileHandler.Me)
		e.Router.PATCH("/api/v1/me", profileHandler.UpdateMe)
		e.Router.GET("/api/v1/me/stats", tripHandler.UserStats)
		e.Router.GET("/api/v1/recent-logins/{deviceKey}", profileHandler.RecentLogins)
		e.Router.POST("/api/v1/recent-logins", profileHandler.RememberLogin)
		e.Router.POST("/api/v1/recent-logins/forget", profileHandler.ForgetLogin)

		// Admin endpoints
		e.Router.GET("/api/v1/admin/users", adminHandler.ListUsers)
		e.Router.PATCH("/api/v1/admin/users/{userId}/role", adminHandler.UpdateUserRole)
		e.Router.DELETE("/api/v1/admin/users/{userId}", adminHandler.DeleteUser)

		// Assistant endpoints
		e.Router.POST("/api/v1/assistant/chat", assistantHandler.Chat)
		e.Router.POST("/api/v1/assistant/route", assistantHandler.AnalyzeRoute)
		e.Router.GET("/api/v1/places/search", assistantHandler.SearchPlaces)

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		reconciler.Start(ctx)

		if cfg.EnableMetrics {
			monitoring.StartMetricsServer(cfg.MetricsPort, redisClient)
		}

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc, reconciler *services.Reconciler) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	reconciler.Stop()
	cancel()
}
