package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bea-chatbot/internal/config"
	"bea-chatbot/internal/logging"
	"bea-chatbot/internal/widget" // The internal package for this service

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// main is the entry point for the WidgetService.
// It holds one conversation controller per browser session and relays
// questions to the answer service.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	// Initialize the HTTP client for the answer service.
	answerClient := widget.NewHTTPAnswerClient(cfg.Widget.AnswerServiceURL, cfg.Widget.RequestTimeout)

	// Initialize the service, injecting dependencies.
	widgetService := widget.NewService(answerClient, widget.ServiceOptions{
		PlaceholderDelay: cfg.Widget.PlaceholderDelay,
		SessionTTL:       cfg.Widget.SessionTTL,
		Logger:           logger,
	})
	defer widgetService.Close()

	// Initialize the handler.
	widgetHandler := widget.NewHandler(widgetService, cfg.Widget.AllowedOrigins, logger)

	// Set up the chi router.
	r := chi.NewRouter()
	r.Use(middleware.Logger)    // Log incoming requests.
	r.Use(middleware.Recoverer) // Prevent panics from crashing the server.
	r.Use(corsHandler(cfg.Widget.AllowedOrigins))

	// Simple health check endpoint.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("WidgetService OK"))
	})

	// Register all the API routes from the handler.
	widgetHandler.RegisterRoutes(r)

	// Serve the widget page itself when configured.
	if cfg.Widget.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.Widget.StaticDir)))
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Widget.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
	}()

	logger.Info("WidgetService starting",
		"port", cfg.Widget.Port,
		"answer_service", cfg.Widget.AnswerServiceURL,
		"placeholder_delay", cfg.Widget.PlaceholderDelay)

	// Block and run the web server.
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Could not start server: %v", err)
	}
}

// corsHandler lets the widget script call the API from the bank's pages.
// No origins configured means any origin.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}
