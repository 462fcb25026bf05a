package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/database"
	"github.com/lysyi3m/folio/app/listing"
)

func NewHandler(site *config.SiteConfig, cardRepo database.CardRepositoryInterface,
	rebuilder Rebuilder, outputDir string) *Handler {
	return &Handler{
		site:      site,
		cardRepo:  cardRepo,
		rebuilder: rebuilder,
		outputDir: outputDir,
	}
}

// ServeSite serves the built static site for every path no other route claims
func (h *Handler) ServeSite() gin.HandlerFunc {
	return gin.WrapH(http.FileServer(http.Dir(h.outputDir)))
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp":   time.Now().In(time.Local).Format(time.RFC3339),
		"collections": len(h.site.Collections),
	}

	if cardCount, err := h.cardRepo.Count(c.Request.Context()); err == nil {
		health["cards"] = cardCount
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.cardRepo.Stats(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total := 0
	for _, s := range stats {
		total += s.Cards
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"collections": stats,
		"total":       total,
	})
}

// APIGetCollection returns the same payload a collection page embeds
func (h *Handler) APIGetCollection(c *gin.Context) {
	name := c.Param("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing collection name parameter"})
		return
	}

	coll := h.site.Collection(name)
	if coll == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Collection not found"})
		return
	}

	cards, err := h.cardRepo.Cards(c.Request.Context(), name)
	if err != nil {
		slog.Error("Database error", "operation", "get_cards", "collection", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	published := make([]card.Card, 0, len(cards))
	for _, item := range cards {
		if !item.Draft {
			published = append(published, item)
		}
	}

	c.Header("X-Collection-Cards", strconv.Itoa(len(published)))
	c.JSON(http.StatusOK, listing.Payload{Variant: coll.Variant(), Cards: published})
}

func (h *Handler) APIRebuild(c *gin.Context) {
	if err := h.rebuilder.Rebuild("api"); err != nil {
		slog.Error("Failed to enqueue rebuild", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to enqueue rebuild", "message": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "task": "build_site"})
}

func (h *Handler) APIRefresh(c *gin.Context) {
	if err := h.rebuilder.Refresh("api"); err != nil {
		slog.Error("Failed to enqueue refresh", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to enqueue refresh", "message": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "task": "refresh_sources"})
}
