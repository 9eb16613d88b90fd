package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"sessiondesk/internal/domain"
	"sessiondesk/internal/domain/models"
	"sessiondesk/internal/repositories"
	"sessiondesk/internal/services"
	"sessiondesk/internal/utils"

	"github.com/gin-gonic/gin"
)

// JournalReader lists recorded mutation steps.
type JournalReader interface {
	Enabled() bool
	Recent(ctx context.Context, bookingID string, limit int) ([]repositories.JournalEntry, error)
}

// SessionHandler serves the tutor and admin session endpoints.
type SessionHandler struct {
	Service  *services.SessionService
	Journal  JournalReader
	Currency string
}

func NewSessionHandler(svc *services.SessionService, journal JournalReader, currency string) *SessionHandler {
	return &SessionHandler{Service: svc, Journal: journal, Currency: currency}
}

type editBookingRequest struct {
	Subject         *string `json:"subject"`
	SessionDateTime *string `json:"sessionDateTime"`
	Status          *string `json:"status"`
}

type paymentRequest struct {
	Status Stringish `json:"status"`
	Amount Stringish `json:"amount"`
}

type sessionView struct {
	models.EnrichedBooking
	AmountLabel string
}

// MarshalJSON adds the formatted amount to the flattened enriched booking.
func (v sessionView) MarshalJSON() ([]byte, error) {
	base, err := v.EnrichedBooking.MarshalJSON()
	if err != nil || v.AmountLabel == "" {
		return base, err
	}
	label, err := json.Marshal(v.AmountLabel)
	if err != nil {
		return nil, err
	}
	if len(base) < 2 || base[len(base)-1] != '}' {
		return base, nil
	}
	out := make([]byte, 0, len(base)+len(label)+24)
	out = append(out, base[:len(base)-1]...)
	if len(base) > 2 {
		out = append(out, ',')
	}
	out = append(out, `"paymentAmountLabel":`...)
	out = append(out, label...)
	out = append(out, '}')
	return out, nil
}

func (h *SessionHandler) views(list []models.EnrichedBooking) []sessionView {
	out := make([]sessionView, 0, len(list))
	for _, eb := range list {
		v := sessionView{EnrichedBooking: eb}
		if eb.HasPayment() {
			v.AmountLabel = utils.FormatAmount(h.Currency, eb.PaymentAmount)
		}
		out = append(out, v)
	}
	return out
}

// sessionsPayload re-filters snap for the caller after a mutation.
func (h *SessionHandler) sessionsPayload(rc domain.RequestContext, snap *services.Snapshot) gin.H {
	list := snap.Enriched
	if !rc.IsAdmin() || rc.TutorID != "" {
		list = snap.ForTutor(rc.TutorID)
	}
	return gin.H{
		"sessions":  h.views(list),
		"count":     len(list),
		"fetchedAt": snap.FetchedAt,
		"currency":  h.Currency,
	}
}

// ListSessions GET /api/tutor/sessions
func (h *SessionHandler) ListSessions(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	_, snap, err := h.Service.TutorSessions(c.Request.Context(), rc)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionsPayload(rc, snap))
}

// RefreshSessions POST /api/tutor/sessions/refresh
func (h *SessionHandler) RefreshSessions(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	snap, err := h.Service.Refresh(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.sessionsPayload(rc, snap))
}

// UpdateSession PUT /api/tutor/sessions/:id
func (h *SessionHandler) UpdateSession(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req editBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	patch := models.BookingPatch{Subject: req.Subject, SessionDateTime: req.SessionDateTime, Status: req.Status}
	snap, err := h.Service.EditBooking(c.Request.Context(), rc, models.ID(c.Param("id")), patch)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	payload := h.sessionsPayload(rc, snap)
	payload["message"] = "session updated"
	c.JSON(http.StatusOK, payload)
}

// DeleteSession DELETE /api/tutor/sessions/:id?confirm=true
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	confirmed, _ := strconv.ParseBool(strings.TrimSpace(c.Query("confirm")))

	snap, err := h.Service.DeleteBooking(c.Request.Context(), rc, models.ID(c.Param("id")), confirmed)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	payload := h.sessionsPayload(rc, snap)
	payload["message"] = "session deleted"
	c.JSON(http.StatusOK, payload)
}

// GetPayment GET /api/tutor/sessions/:id/payment
func (h *SessionHandler) GetPayment(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	form, err := h.Service.PaymentForm(c.Request.Context(), rc, models.ID(c.Param("id")))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// UpsertPayment PUT /api/tutor/sessions/:id/payment
func (h *SessionHandler) UpsertPayment(c *gin.Context) {
	rc, ok := requestContext(c)
	if !ok {
		return
	}
	var req paymentRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	in := services.PaymentInput{Status: req.Status.String(), Amount: req.Amount.String()}
	res, err := h.Service.UpsertPayment(c.Request.Context(), rc, models.ID(c.Param("id")), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	target := res.Write.Values()
	message := "payment saved: " + target.Status
	if target.Status == models.PaymentCompleted {
		message += " " + utils.FormatAmount(h.Currency, target.Amount)
	}

	payload := h.sessionsPayload(rc, res.Snapshot)
	payload["message"] = message
	payload["action"] = res.Action()
	payload["response"] = res.Response
	c.JSON(http.StatusOK, payload)
}
