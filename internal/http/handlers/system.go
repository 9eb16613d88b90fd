package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	intconfig "sessiondesk/internal/config"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// SetRouter stores the active gin engine for /api/routes.
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

// Health GET /api/health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "sessiondesk"})
}

// JournalCheck GET /api/db-check reports whether the mutation journal is
// reachable. A service running without JOURNAL_DSN is healthy with the
// journal disabled.
func JournalCheck(c *gin.Context) {
	db := intconfig.DB
	if db == nil {
		c.JSON(http.StatusOK, gin.H{"journal": "disabled"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	var entries int64
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mutation_journal").Scan(&entries); err != nil {
		respondError(c, http.StatusServiceUnavailable, "journal_unavailable", "journal database query failed", gin.H{"cause": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"journal": "ok", "entries": entries})
}

// Routes GET /api/routes lists the mounted routes.
func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "not_ready", "router not ready", nil)
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{"method": rt.Method, "path": rt.Path})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out, "count": len(out)})
}
