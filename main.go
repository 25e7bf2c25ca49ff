package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voltshop/auth"
	"voltshop/cart"
	"voltshop/config"
	"voltshop/courier"
	"voltshop/db"
	"voltshop/middleware"
	"voltshop/orders"
	"voltshop/ratelim"
	"voltshop/rdx"
	"voltshop/routes"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains; preload")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s from %s - %v", r.Method, r.RequestURI, r.RemoteAddr, time.Since(start))
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func setupRouter(cfg config.Config) *httprouter.Router {
	router := httprouter.New()
	router.GET("/health", Index)

	authMiddleware := middleware.NewAuth(cfg.JWTSecret)
	rateLimiter := ratelim.NewRateLimiter()
	authService := auth.NewService(cfg)
	cartService := cart.NewService(cfg.GuestCartTTL)
	orderService := orders.NewService(cfg)

	routes.AddAuthRoutes(router, authService, rateLimiter)
	routes.AddProductRoutes(router, authMiddleware)
	routes.AddCartRoutes(router, cartService, authMiddleware)
	routes.AddCouponRoutes(router, authMiddleware)
	routes.AddShippingRoutes(router, authMiddleware)
	routes.AddOrderRoutes(router, orderService, authMiddleware, rateLimiter)
	routes.AddCourierRoutes(router, authMiddleware)
	routes.AddWarrantyRoutes(router, authMiddleware, cfg.PublicBaseURL)

	return router
}

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Init(ctx, cfg); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	rdx.Init(cfg)

	router := setupRouter(cfg)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              cfg.Port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Delivery-status reconciliation runs until shutdown.
	go courier.StartSyncLoop(ctx, cfg)

	go func() {
		log.Println("Server started on port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("Server shutdown error:", err)
	}
	if err := db.Close(shutdownCtx); err != nil {
		log.Println("MongoDB disconnect error:", err)
	}
}
