package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminSessions GET /api/admin/sessions
func (h *SessionHandler) AdminSessions(c *gin.Context) {
	sum, err := h.Service.Summary(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions":          h.views(sum.Sessions),
		"counts":            sum.Counts,
		"total":             sum.Total,
		"unmatchedPayments": sum.UnmatchedPayments,
		"fetchedAt":         sum.FetchedAt,
		"currency":          h.Currency,
	})
}

// AdminJournal GET /api/admin/journal?booking_id=&limit=
func (h *SessionHandler) AdminJournal(c *gin.Context) {
	if h.Journal == nil || !h.Journal.Enabled() {
		respondError(c, http.StatusNotFound, "journal_disabled", "mutation journal is not configured", nil)
		return
	}

	limit := 100
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			respondError(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 500", gin.H{"field": "limit"})
			return
		}
		limit = n
	}

	entries, err := h.Journal.Recent(c.Request.Context(), strings.TrimSpace(c.Query("booking_id")), limit)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "failed to read journal", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}
