package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/chronolab/carbondate/internal/adapter/curvedata"
	"github.com/chronolab/carbondate/internal/adapter/handler"
	"github.com/chronolab/carbondate/internal/adapter/repository"
	"github.com/chronolab/carbondate/internal/core/ports"
)

func main() {
	ctx := context.Background()

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found (this is fine)")
	}

	// Result persistence is optional: no DATABASE_URL means a stateless
	// calibration service.
	var repo ports.ResultRepository
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		dbPool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			log.Fatalf("❌ Failed to connect to database: %v", err)
		}
		defer dbPool.Close()
		repo = repository.NewPostgresRepository(dbPool)
		log.Println("✅ Result persistence enabled")
	} else {
		log.Println("⚠️  Result persistence disabled (no DATABASE_URL)")
	}

	// Curve provider: local directory by default, public mirrors when
	// CURVE_SOURCE=remote.
	var provider ports.CurveProvider
	if getEnv("CURVE_SOURCE", "dir") == "remote" {
		provider = curvedata.NewHTTPProvider(nil)
		log.Println("📡 Curve source: intcal.org mirrors")
	} else {
		curveDir := getEnv("CURVE_DIR", "data/curves")
		provider = curvedata.NewDirProvider(curveDir)
		log.Printf("📁 Curve source: %s", curveDir)
	}

	curvedata.InitMetrics()
	log.Println("✅ Prometheus metrics initialized")

	// Warm the curve cache so the first calibration doesn't pay for the
	// load. A failure here is not fatal: the handler retries per request.
	loadCtx, cancelLoad := context.WithTimeout(ctx, 2*time.Minute)
	if _, err := provider.LoadCurves(loadCtx); err != nil {
		log.Printf("⚠️  Curve preload failed (will retry on demand): %v", err)
	}
	cancelLoad()

	// HTTP router
	router := mux.NewRouter()

	restHandler := handler.NewRestHandler(provider, repo)

	// Health check
	router.HandleFunc("/api/v1/health", restHandler.Health).Methods("GET")

	// Calibration endpoints
	router.HandleFunc("/api/v1/calibrate", restHandler.Calibrate).Methods("POST")
	router.HandleFunc("/api/v1/calibrate/batch", restHandler.CalibrateBatch).Methods("POST")
	router.HandleFunc("/api/v1/curves", restHandler.ListCurves).Methods("GET")

	// Metrics endpoint (requires authentication)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Middleware
	router.Use(loggingMiddleware)
	router.Use(authMiddleware)

	// HTTP server
	port := getEnv("REST_API_PORT", "8080")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Printf("🚀 carbondate REST API listening on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("→ %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
		log.Printf("← %s %s (%v)", r.Method, r.URL.Path, time.Since(start))
	})
}

func authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip auth for health check
		if r.URL.Path == "/api/v1/health" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("Authorization")
		expectedToken := os.Getenv("REST_API_AUTH_TOKEN")

		// If no token configured, allow all requests (development mode)
		if expectedToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		if token != "Bearer "+expectedToken {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}
