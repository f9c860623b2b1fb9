package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"civicgo/backend/internal/models"
)

type chatRequest struct {
	Query     string `json:"query"`
	UserID    string `json:"userId"`
	SessionID string `json:"sessionId"`
	Anonymous *bool  `json:"anonymous"`
}

// Chat handles POST /api/chat: one turn of the intake conversation over
// plain HTTP. Anonymous visitors get a generated session id in the response
// and echo it back on their next turn.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Malformed chat request"})
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Empty query"})
		return
	}

	// A valid token wins over whatever user id the body claims.
	userID := req.UserID
	if token := bearerToken(c); token != "" {
		if id, err := h.userIDFromToken(token); err == nil {
			userID = id
		}
	}

	sessionID := userID
	if sessionID == "" {
		sessionID = req.SessionID
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if req.Anonymous != nil {
		h.Engine.SetAnonymous(sessionID, *req.Anonymous)
	}

	reply := h.Engine.Process(c.Request.Context(), sessionID, userID, req.Query)
	h.Metrics.ChatTurns.Inc()

	resp := gin.H{
		"response":  reply.Text,
		"sessionId": sessionID,
	}
	if reply.ReportID != "" {
		resp["complaintId"] = reply.ReportID
		h.Metrics.ReportsFiled.WithLabelValues(reply.ReportType).Inc()

		update := models.ChatMessage{
			SenderID: "system",
			Type:     "report_update",
			Content:  "New report filed",
			ReportID: reply.ReportID,
		}
		if err := h.Storage.PublishReportUpdate(update); err != nil {
			h.Log.Error("failed to publish report update", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, resp)
}

// Health handles GET /api/health. A degraded store (persistence failing,
// records held in memory only) is reported here while the server keeps
// serving.
func (h *Handler) Health(c *gin.Context) {
	if err := h.Store.LastError(); err != nil {
		c.JSON(http.StatusOK, gin.H{"status": "degraded", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
