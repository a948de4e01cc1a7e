package plants

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.search)          // GET /plants?q=ros&category=fleurs
	rg.GET("/:name", h.getByName) // GET /plants/Rosa%20rugosa
}

func (h *Handler) RegisterCategoryRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.categories)           // GET /categories
	rg.GET("/:category", h.byCategory) // GET /categories/fleurs
}

func (h *Handler) search(c *gin.Context) {
	q := SearchQuery{
		Q:        c.Query("q"),
		Category: c.Query("category"),
		Limit:    parseInt(c.Query("limit"), 50),
	}

	items, err := h.Repo.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total": len(items),
		"items": items,
	})
}

func (h *Handler) getByName(c *gin.Context) {
	name := c.Param("name")
	p, err := h.Repo.GetByName(c.Request.Context(), name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) categories(c *gin.Context) {
	stats, err := h.Repo.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": stats.Categories})
}

func (h *Handler) byCategory(c *gin.Context) {
	category := c.Param("category")
	limit := parseInt(c.Query("limit"), 100)

	items, err := h.Repo.ByCategory(c.Request.Context(), category, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"category": category,
		"total":    len(items),
		"items":    items,
	})
}

func (h *Handler) StatsHandler(c *gin.Context) {
	stats, err := h.Repo.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats failed"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
