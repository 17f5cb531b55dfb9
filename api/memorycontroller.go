package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rajconnects/rss-to-linkedin/memory"
)

// RegisterMemoryRoutes registers the read-only memory views.
func RegisterMemoryRoutes(r *gin.Engine, store *memory.Store) {
	g := r.Group("/api/memory")
	g.GET("/summary", handleSummary(store))
	g.GET("/recent", handleRecent(store))
	g.GET("/search", handleSearch(store))
	g.GET("/pillars", handlePillars(store))
}

// handleSummary returns total counts, pillar stats, and the last few
// records in one view.
func handleSummary(store *memory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		total, err := store.Count(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		stats, err := store.PillarStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		recent, err := store.QuerySince(c.Request.Context(), time.Now().AddDate(0, 0, -7))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if len(recent) > 5 {
			recent = recent[:5]
		}
		c.JSON(http.StatusOK, gin.H{
			"total_records": total,
			"pillars":       stats,
			"recent":        recent,
		})
	}
}

// handleRecent returns records from the last N days (default 7).
func handleRecent(store *memory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := 7
		if v := c.Query("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
				return
			}
			days = n
		}
		records, err := store.QuerySince(c.Request.Context(), time.Now().AddDate(0, 0, -days))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"days": days, "count": len(records), "records": records})
	}
}

// handleSearch matches a substring across title, hook, and pillar.
func handleSearch(store *memory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		if q == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
			return
		}
		records, err := store.Search(c.Request.Context(), q)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"query": q, "count": len(records), "records": records})
	}
}

// handlePillars returns aggregate counts by pillar.
func handlePillars(store *memory.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := store.PillarStats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"pillars": stats})
	}
}
