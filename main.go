package main

import (
	"context"
	"encoding/base64"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	firebase "firebase.google.com/go/v4"
	gorilllaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/api/option"

	"ktpPortalAPI/handlers"
	"ktpPortalAPI/internal/workers"
	"ktpPortalAPI/middleware"
	"ktpPortalAPI/services"

	_ "net/http/pprof"
)

const defaultLeetCodeAPIBaseURL = "https://leetcode-stats-api.herokuapp.com/"

var (
	dbPool          *pgxpool.Pool
	leetcodeService *services.LeetCodeService
	runHistory      *services.RunHistoryService
	tokenVerifier   middleware.TokenVerifier
	syncInterval    time.Duration
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	databaseURL := os.Getenv("FIREBASE_DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("FIREBASE_DATABASE_URL environment variable is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opt, err := firebaseCredentials("./serviceAccountKey.json")
	if err != nil {
		log.Fatal("Failed to load Firebase credentials:", err)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL}, opt)
	if err != nil {
		log.Fatal("Failed to initialize Firebase app:", err)
	}

	dbClient, err := app.Database(ctx)
	if err != nil {
		log.Fatal("Failed to create Realtime Database client:", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatal("Failed to create Firebase Auth client:", err)
	}
	tokenVerifier = &middleware.FirebaseVerifier{Client: authClient}

	log.Println("Firebase initialized successfully")

	baseURL := os.Getenv("LEETCODE_API_BASE_URL")
	if baseURL == "" {
		baseURL = defaultLeetCodeAPIBaseURL
	}

	profileStore := services.NewFirebaseProfileStore(dbClient)
	fetcher := services.NewLeetCodeFetcher(baseURL)
	leetcodeService = services.NewLeetCodeService(profileStore, fetcher)

	syncInterval = 10 * time.Minute
	if raw := os.Getenv("SYNC_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatal("Invalid SYNC_INTERVAL:", err)
		}
		syncInterval = parsed
	}

	// Run history is optional; without a Postgres URL run summaries only go
	// to the logs.
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		poolConfig, err := pgxpool.ParseConfig(dbURL)
		if err != nil {
			log.Fatal("Failed to parse database URL:", err)
		}

		poolConfig.MaxConns = 10
		poolConfig.MinConns = 2
		poolConfig.MaxConnLifetime = time.Hour
		poolConfig.MaxConnIdleTime = 30 * time.Minute
		poolConfig.HealthCheckPeriod = time.Minute

		dbPool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err != nil {
			log.Fatal("Failed to create connection pool:", err)
		}

		if err := dbPool.Ping(ctx); err != nil {
			log.Fatal("Failed to ping database:", err)
		}

		runHistory = services.NewRunHistoryService(dbPool)
		if err := runHistory.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to prepare run history schema:", err)
		}

		log.Println("Run history database connected")
	} else {
		log.Println("DATABASE_URL not set, run history disabled")
	}

	middleware.InitPrometheus()
	services.InitMetrics()
}

// firebaseCredentials prefers base64 credentials from the environment and
// falls back to a local service account key file.
func firebaseCredentials(localFilePath string) (option.ClientOption, error) {
	if encoded := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); encoded != "" {
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, err
		}
		log.Println("Firebase: initializing from FIREBASE_SERVICE_ACCOUNT_JSON environment variable")
		return option.WithCredentialsJSON(decoded), nil
	}

	if _, err := os.Stat(localFilePath); err != nil {
		return nil, err
	}
	log.Printf("Firebase: initializing from local file: %s", localFilePath)
	return option.WithCredentialsFile(localFilePath), nil
}

func main() {
	defer func() {
		if dbPool != nil {
			log.Println("Closing database connection pool...")
			dbPool.Close()
		}
	}()

	leetcodeHandler := handlers.NewLeetCodeHandler(leetcodeService, runHistory)
	leaderboardHandler := handlers.NewLeaderboardHandler(leetcodeService)

	worker := workers.StartLeetCodeWorker(leetcodeService, runHistory, syncInterval)

	r := mux.NewRouter()

	go middleware.CleanupVisitors()

	r.Use(middleware.RateLimitMiddleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(promhttp.Handler()))
	r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(http.DefaultServeMux))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if dbPool != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := dbPool.Ping(ctx); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "ktp-portal-api"}`))
	}).Methods("GET")

	// -------------------------------------------------------------------------
	// API V1 SUBROUTER (all routes require auth)
	// -------------------------------------------------------------------------
	api := r.PathPrefix("/api/v1").Subrouter()

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.FirebaseAuthMiddleware(tokenVerifier))

	protected.HandleFunc("/leaderboard", leaderboardHandler.GetLeaderboard).Methods("GET")

	protected.HandleFunc("/admin/leetcode/update", leetcodeHandler.TriggerUpdate).Methods("POST")
	protected.HandleFunc("/admin/leetcode/reset-offsets", leetcodeHandler.ResetOffsets).Methods("POST")
	protected.HandleFunc("/admin/leetcode/runs", leetcodeHandler.GetRunHistory).Methods("GET")

	// CORS configuration
	corsHandler := gorilllaHandlers.CORS(
		gorilllaHandlers.AllowedOrigins([]string{"*"}),
		gorilllaHandlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		gorilllaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorilllaHandlers.ExposedHeaders([]string{"Content-Length"}),
		gorilllaHandlers.AllowCredentials(),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3333"
	}
	port = ":" + port

	server := http.Server{
		Addr:         port,
		Handler:      corsHandler(r),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Minute, // manual sync runs respond slowly
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server:", err)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	sig := <-sigChan
	log.Println("Got signal:", sig)

	worker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server shutdown complete")
}
