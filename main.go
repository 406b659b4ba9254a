package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"roteiro/auth"
	"roteiro/db"
	"roteiro/filemgr"
	"roteiro/itemstate"
	"roteiro/itinerary"
	"roteiro/live"
	"roteiro/memories"
	"roteiro/middleware"
	"roteiro/panels"
	"roteiro/ratelim"
	"roteiro/rdx"
	"roteiro/routes"
	"roteiro/utils"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := db.Init(ctx); err != nil {
		log.Fatalf("❌ Mongo connection failed: %v", err)
	}
	if err := rdx.Init(ctx); err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	cancel()

	source, err := itinerary.LoadFile(envOr("ROTEIRO_HTML", "static/roteiro.html"))
	if err != nil {
		log.Fatalf("❌ Could not load itinerary: %v", err)
	}

	store, err := itemstate.Open(envOr("STATE_FILE", "data/estado.json"))
	if err != nil {
		log.Fatalf("❌ Could not open item state store: %v", err)
	}

	creds, err := auth.ParseCredentials(os.Getenv("ROTEIRO_USERS"))
	if err != nil {
		log.Fatalf("❌ Bad ROTEIRO_USERS: %v", err)
	}

	if err := utils.EnsureDir(filemgr.UploadDir); err != nil {
		log.Fatalf("❌ Could not create upload dir: %v", err)
	}

	hub := live.NewHub()
	go hub.Run()

	dayIDs := make([]string, 0, len(source.Days))
	for _, d := range source.Days {
		dayIDs = append(dayIDs, strconv.Itoa(d.ID))
	}
	view := memories.NewView(hub, dayIDs)
	middleware.SessionInvalidated = view.ClearAll
	controller := panels.NewController(source.Days, store, view, source.DiaryHTML)

	rateLimiter := ratelim.NewRateLimiter()
	router := httprouter.New()
	router.GET("/health", Index)
	routes.RoutesWrapper(router, rateLimiter, routes.Deps{
		Auth:       auth.NewHandlers(creds, view),
		Memories:   memories.NewHandlers(view, hub),
		Controller: controller,
		Hub:        hub,
	})

	// mirror Redis reaction counters into Mongo in the background
	go rdx.FlushReactions(db.MemoriesCollection, db.CommentsCollection)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{envOr("CORS_ORIGIN", "http://localhost:8080")},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("🛑 Closing live connections...")
		hub.Stop()
	})

	go func() {
		log.Printf("🚀 Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("🛑 Shutdown signal received; shutting down gracefully...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Graceful shutdown failed: %v", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		log.Printf("Mongo close: %v", err)
	}

	log.Println("✅ Server stopped cleanly")
}
