package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devevents/config"
	_ "devevents/docs"
	"devevents/internal/adapters/email"
	"devevents/internal/adapters/imagestore"
	httpdelivery "devevents/internal/delivery/http"
	"devevents/internal/delivery/http/controllers"
	"devevents/internal/delivery/http/middleware"
	"devevents/internal/repository/mongodb"
	"devevents/internal/services"
)

const (
	serviceTimeout  = 10 * time.Second
	shutdownTimeout = 15 * time.Second
)

// @title           DevEvents API
// @version         1.0
// @description     Event listing and booking API: browse events, view details, create events with image upload, and book a spot via email.

// @host      localhost:8080
// @BasePath
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	// The connection itself is lazy; establish it at boot so startup failures
	// surface immediately instead of on the first request.
	conn := mongodb.NewConn(cfg.MongoURI, cfg.MongoDatabase)
	{
		ctx, cancel := context.WithTimeout(context.Background(), serviceTimeout)
		if _, err := conn.Database(ctx); err != nil {
			logger.Warn("mongodb not reachable at startup, will retry on first request", "err", err)
		} else {
			logger.Info("mongodb connected", "database", cfg.MongoDatabase)
		}
		cancel()
	}

	eventRepo := mongodb.NewEventRepository(conn)
	bookingRepo := mongodb.NewBookingRepository(conn)

	uploader, err := imagestore.NewCloudinaryUploader(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	if err != nil {
		logger.Error("failed to init image store", "err", err)
		os.Exit(1)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to init mailer", "err", err)
		os.Exit(1)
	}

	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer())
	eventService := services.NewEventService(eventRepo, serviceTimeout)
	bookingService := services.NewBookingService(eventRepo, bookingRepo, emailService, serviceTimeout)
	ingestionService := services.NewIngestionService(uploader, eventService)

	eventController := controllers.NewEventController(logger, eventService, ingestionService)
	bookingController := controllers.NewBookingController(logger, bookingService)

	mux := httpdelivery.NewRouter(eventController, bookingController)
	handler := middleware.Recovery(logger,
		middleware.CORS(cfg.CORSOrigins,
			middleware.LoggingMiddleware(logger, mux)))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "err", err)
	}
	if err := conn.Disconnect(shutdownCtx); err != nil {
		logger.Error("mongodb disconnect failed", "err", err)
	}
	logger.Info("server stopped")
}
