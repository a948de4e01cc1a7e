package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"planthub/internal/feed"
	"planthub/internal/plants"
	"planthub/internal/webexport"
	"planthub/pkg/database"
)

func main() {
	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	router := gin.Default()

	// Optional: avoid "trusted all proxies" warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	hub := feed.NewHub()
	router.GET("/ws", feed.WSHandler(hub))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": cfg.Path})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":     "not_ready",
				"db_error":   err.Error(),
				"ws_clients": stats.WSClients,
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":     "ready",
			"db":         "ok",
			"ws_clients": stats.WSClients,
		})
	})

	repo := plants.NewRepo(db)
	handler := plants.NewHandler(repo)
	exporter := webexport.NewExporter(repo)

	api := router.Group("/api")
	handler.RegisterRoutes(api.Group("/plants"))
	handler.RegisterCategoryRoutes(api.Group("/categories"))
	api.GET("/stats", handler.StatsHandler)

	// export documents, same shapes the static files carry
	api.GET("/export/catalog", func(c *gin.Context) {
		doc, err := exporter.BuildCatalog(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.JSON(http.StatusOK, doc)
	})
	api.GET("/export/by-category", func(c *gin.Context) {
		doc, err := exporter.BuildByCategory(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.JSON(http.StatusOK, doc)
	})
	api.GET("/export/index", func(c *gin.Context) {
		doc, err := exporter.BuildIndex(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	log.Println("[api] listening on :8080")
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("api server failed: %v", err)
	}
}
