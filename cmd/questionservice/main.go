package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"

	"bea-chatbot/internal/config"
	"bea-chatbot/internal/logging"
	"bea-chatbot/internal/question" // The internal package for this service

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/redis/go-redis/v9"
)

// main is the entry point for the QuestionService.
// It answers widget questions and exposes the admin API.
func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatalf("Could not load configuration: %v", err)
	}
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	// Must get the database connection string from the environment.
	if cfg.Question.DatabaseURL == "" {
		log.Fatal("DB_CONNECTION_STRING not set")
	}

	db, err := connectDB(cfg.Question.DatabaseURL)
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connected!")

	if err := question.EnsureSchema(context.Background(), db); err != nil {
		log.Fatalf("Could not prepare database: %v", err)
	}

	// Initialize the repository.
	questionRepo := question.NewPostgresRepository(db)

	// The cache is optional.
	var cache question.AnswerCache
	if cfg.Question.RedisURL != "" {
		rdb, err := connectRedis(cfg.Question.RedisURL)
		if err != nil {
			log.Fatalf("Could not connect to redis: %v", err)
		}
		defer rdb.Close()
		cache = question.NewRedisCache(rdb, cfg.Question.CacheTTL)
		logger.Info("Answer cache enabled", "ttl", cfg.Question.CacheTTL)
	}

	// The classifier is optional too.
	var nlpClient question.NLPClient
	if cfg.Question.NLPServiceURL != "" {
		nlpClient = question.NewHTTPNLPClient(cfg.Question.NLPServiceURL, cfg.Question.NLPTimeout)
		logger.Info("NLP classifier enabled", "url", cfg.Question.NLPServiceURL)
	}

	// Initialize the service, injecting dependencies.
	questionService := question.NewService(questionRepo, cache, nlpClient, question.ServiceOptions{
		MinConfidence: cfg.Question.MinConfidence,
		Logger:        logger,
	})

	// Initialize the handler.
	questionHandler := question.NewHandler(questionService)

	// Set up the chi router.
	r := chi.NewRouter()
	r.Use(middleware.Logger)    // Log incoming requests.
	r.Use(middleware.Recoverer) // Prevent panics from crashing the server.
	r.Use(corsHandler(cfg.Question.AllowedOrigins))

	// Simple health check endpoint.
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("QuestionService OK"))
	})

	// Register all the API routes from the handler.
	questionHandler.RegisterRoutes(r)

	logger.Info("QuestionService starting", "port", cfg.Question.Port)

	// Block and run the web server.
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Question.Port), r); err != nil {
		log.Fatalf("Could not start server: %v", err)
	}
}

// connectDB opens and verifies the database connection.
func connectDB(connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, err
	}
	// Ping() verifies the connection is actually alive.
	if err = db.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// connectRedis parses a redis:// URL and checks the server answers.
func connectRedis(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// corsHandler lets the browser widget and the admin pages call this service.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	})
}
