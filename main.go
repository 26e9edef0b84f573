package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"FlashSaleSwiggy/config/database"
	"FlashSaleSwiggy/config/environment"
	"FlashSaleSwiggy/middleware"
	v1 "FlashSaleSwiggy/routes/v1"
	"FlashSaleSwiggy/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := environment.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reportStore := newReportStore(ctx, cfg)

	fetcher, closeFetcher := services.NewMenuFetcher(cfg)
	defer closeFetcher()

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin router
	r := gin.Default()
	r.MaxMultipartMemory = cfg.MaxUploadBytes

	r.Use(middleware.ErrorHandlerMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: !allowsAnyOrigin(cfg.CORSAllowOrigins),
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1.RegisterRoutes(r, v1.Dependencies{
		Config:      cfg,
		FlashSale:   services.NewFlashSaleService(fetcher, cfg.FetchConcurrency),
		ReportStore: reportStore,
	})

	serveStatic(r, cfg.PublicDir)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server running on http://localhost%s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️  Forced shutdown: %v", err)
	}

	if client := database.GetFirestoreClient(); client != nil {
		client.Close()
	}
}

// newReportStore uses Firestore when credentials are configured and falls back to memory.
func newReportStore(ctx context.Context, cfg *environment.Config) services.ReportStore {
	if !cfg.FirestoreEnabled() {
		log.Println("⚠️  Firebase not configured, keeping report history in memory")
		return services.NewMemoryReportStore()
	}

	client, err := database.InitFirebase(ctx, cfg)
	if err != nil {
		log.Printf("⚠️  Firebase unavailable, keeping report history in memory: %v", err)
		return services.NewMemoryReportStore()
	}
	return services.NewFirestoreReportStore(client)
}

// serveStatic serves the upload UI for any GET route the API does not own.
func serveStatic(r *gin.Engine, dir string) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		log.Printf("⚠️  Static directory %q not found, UI disabled", dir)
		return
	}

	fileServer := http.FileServer(http.Dir(dir))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"status": "error", "message": "Not Found"})
			return
		}
		if _, err := os.Stat(filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))); err != nil {
			c.File(filepath.Join(dir, "index.html"))
			return
		}
		fileServer.ServeHTTP(c.Writer, c.Request)
	})
}

func allowsAnyOrigin(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
