// Package httpapi exposes the advising pipeline over HTTP. Responses
// use an ok/error envelope so the frontend can branch on one field.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dvc-advising/transferbot-go/internal/advisor"
	domerrors "github.com/dvc-advising/transferbot-go/internal/errors"
	"github.com/dvc-advising/transferbot-go/internal/logger"
	"github.com/dvc-advising/transferbot-go/internal/sentry"
	"github.com/dvc-advising/transferbot-go/internal/session"
	"github.com/dvc-advising/transferbot-go/internal/storage"
)

// Handler serves the chat API.
type Handler struct {
	advisor  *advisor.Advisor
	sessions *session.Manager
	db       *storage.DB
	log      *logger.Logger
}

// NewHandler creates the API handler.
func NewHandler(adv *advisor.Advisor, sessions *session.Manager, db *storage.DB, log *logger.Logger) *Handler {
	return &Handler{
		advisor:  adv,
		sessions: sessions,
		db:       db,
		log:      log.WithModule("httpapi"),
	}
}

// chatRequest is one conversation turn from the frontend. A missing
// session_id starts a new session.
type chatRequest struct {
	SessionID string `json:"session_id"`
	Prompt    string `json:"prompt" binding:"required"`

	// Campuses pre-selects campuses by key or alias.
	Campuses []string `json:"campuses"`

	Plain bool `json:"plain"`
}

// Chat handles POST /api/chat.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorReply(c, http.StatusBadRequest, "MISSING_PROMPT", "No prompt provided.")
		return
	}

	resp, err := h.advisor.Handle(c.Request.Context(), advisor.Request{
		SessionID: req.SessionID,
		Query:     req.Prompt,
		Campuses:  req.Campuses,
		Plain:     req.Plain,
	})
	if err != nil {
		h.replyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"response": resp.Reply,
		"data": gin.H{
			"text": resp.Reply,
			"meta": gin.H{
				"session_id": resp.SessionID,
				"status":     resp.Status,
				"campuses":   resp.Campuses,
				"turn":       resp.Turn,
			},
		},
	})
}

// SessionState handles GET /api/session/:id.
func (h *Handler) SessionState(c *gin.Context) {
	id := c.Param("id")
	state, ok := h.sessions.Peek(id)
	if !ok {
		errorReply(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Unknown session.")
		return
	}

	campuses := make([]string, len(state.Campuses))
	for i, key := range state.Campuses {
		campuses[i] = key.String()
	}

	c.JSON(http.StatusOK, gin.H{
		"ok": true,
		"data": gin.H{
			"session_id": id,
			"status":     state.Status.String(),
			"campuses":   campuses,
			"turn":       state.Turn,
			"filters": gin.H{
				"focus_only":        string(state.Filters.Focus),
				"required_only":     state.Filters.RequiredOnly,
				"completed_courses": state.Filters.CompletedCourses,
				"domains_completed": state.Filters.CompletedDomains,
				"categories":        state.Filters.Categories,
			},
		},
	})
}

// EndSession handles DELETE /api/session/:id.
func (h *Handler) EndSession(c *gin.Context) {
	id := c.Param("id")
	h.sessions.Delete(id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// replyError maps domain errors to HTTP status codes.
func (h *Handler) replyError(c *gin.Context, err error) {
	var valErr *domerrors.ValidationError

	switch {
	case errors.As(err, &valErr):
		errorReply(c, http.StatusBadRequest, "INVALID_REQUEST", valErr.Error())
	case errors.Is(err, domerrors.ErrSessionTerminated):
		errorReply(c, http.StatusConflict, "SESSION_TERMINATED", "This session is finished. Start a new one.")
	case errors.Is(err, domerrors.ErrRateLimitExceeded):
		errorReply(c, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Try again later.")
	default:
		h.log.WithError(err).Error("chat turn failed")
		sentry.CaptureExceptionWithContext(c.Request.Context(), err)
		errorReply(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate response.")
	}
}

func errorReply(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"ok": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
