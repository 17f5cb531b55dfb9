package api

import (
	"github.com/gin-gonic/gin"

	"github.com/rajconnects/rss-to-linkedin/memory"
)

// NewRouter constructs a Gin engine with the read-only operator routes.
// Everything served here is diagnostic: no handler mutates the memory
// store or participates in the selection algorithm, so none of them needs
// the run lock.
func NewRouter(store *memory.Store) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterMemoryRoutes(r, store)
	RegisterHealthRoutes(r)
	return r
}
