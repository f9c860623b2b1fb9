package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"civicgo/backend/internal/config"
	"civicgo/backend/internal/models"
	"civicgo/backend/internal/store"
)

// complaintView is the listing shape the portal front end renders.
type complaintView struct {
	ComplaintID string `json:"complaintId"`
	Status      string `json:"status"`
	Type        string `json:"type"`
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
	Response    string `json:"response,omitempty"`
}

// GetUserComplaints handles GET /api/complaints/:userId. The caller must
// present a token for the same user. Optional ?type= and ?status= query
// filters match the widget's filter dropdowns and are ANDed together.
func (h *Handler) GetUserComplaints(c *gin.Context) {
	token := bearerToken(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
		return
	}
	tokenUserID, err := h.userIDFromToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
		return
	}

	userID := c.Param("userId")
	if tokenUserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not authorized for this user"})
		return
	}

	typeFilter := c.DefaultQuery("type", "all")
	statusFilter := c.DefaultQuery("status", "all")

	views := []complaintView{}
	for _, r := range h.Store.ForUser(userID) {
		typeMatch := typeFilter == "all" ||
			(typeFilter == "complaints" && !r.IsPermit) ||
			(typeFilter == "permits" && r.IsPermit)
		statusMatch := statusFilter == "all" || store.NormalizeStatus(r.Status) == statusFilter
		if !typeMatch || !statusMatch {
			continue
		}
		views = append(views, toComplaintView(r))
	}

	c.JSON(http.StatusOK, views)
}

func toComplaintView(r models.Report) complaintView {
	v := complaintView{
		ComplaintID: r.ID,
		Status:      r.Status,
		Type:        r.Type,
		Timestamp:   r.DateSubmitted.Format(time.RFC3339),
		Description: r.Description,
	}
	// The trail is seeded with the Submitted entry; anything after it is a
	// staff response worth surfacing.
	if len(r.Updates) > 0 {
		if last := r.Updates[len(r.Updates)-1]; last.Status != config.StatusSubmitted {
			v.Response = last.Message
		}
	}
	return v
}
