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

	"github.com/gin-gonic/gin"

	"github.com/jack/golang-url-alias-service/internal/config"
	"github.com/jack/golang-url-alias-service/internal/geo"
	"github.com/jack/golang-url-alias-service/internal/handler"
	"github.com/jack/golang-url-alias-service/internal/logsink"
	"github.com/jack/golang-url-alias-service/internal/middleware"
	"github.com/jack/golang-url-alias-service/internal/service"
	"github.com/jack/golang-url-alias-service/internal/shortcode"
	"github.com/jack/golang-url-alias-service/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	aliasStore, closeStore, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("Failed to build alias store: %v", err)
	}
	defer closeStore()
	log.Printf("Alias store ready (backend: %s)", cfg.Store.Backend)

	sink := logsink.New(&cfg.Sink)
	sink.Start()
	defer sink.Stop()

	codes, err := shortcode.NewGenerator(cfg.Alias.ShortCodeLength)
	if err != nil {
		log.Fatalf("Failed to build shortcode generator: %v", err)
	}

	aliasService := service.NewAliasService(aliasStore, codes, geo.NewStaticResolver(), sink, cfg)

	h := handler.NewHandler(aliasService, aliasStore)

	router := gin.New()

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Printf("panic recovered: path=%s err=%v", c.Request.URL.Path, recovered)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "Internal server error",
		})
	}))
	router.Use(gin.Logger())

	// Behind Nginx/Proxy the client address comes from forwarded headers;
	// without trusted proxies ClientIP() could be spoofed.
	router.SetTrustedProxies(cfg.App.TrustedProxies)

	router.GET("/health", h.Health)
	router.GET("/health/detailed", h.HealthDetailed)

	router.POST("/shorturls", h.CreateShortURL)
	router.GET("/shorturls/:code", h.GetStats)
	router.GET("/:code", middleware.ClickMeta(), h.Redirect)
	router.NoRoute(h.NotFound)

	SetupSwagger(router, &cfg.Auth)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}

func buildStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return store.NewMemory(), func() {}, nil
	case "redis":
		r, err := store.NewRedis(&cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return r, func() { _ = r.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
