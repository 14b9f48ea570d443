package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/matchpoint-app/server/audit"
	mw "github.com/matchpoint-app/server/middleware"
	"github.com/matchpoint-app/server/social"
)

// InviteHandler handles activity invite REST endpoints.
type InviteHandler struct {
	svc   *social.InviteService
	aud   *audit.Service
	retry social.RetryPolicy
}

// NewInviteHandler creates a new InviteHandler.
func NewInviteHandler(svc *social.InviteService, aud *audit.Service, retry social.RetryPolicy) *InviteHandler {
	return &InviteHandler{svc: svc, aud: aud, retry: retry}
}

// List handles GET /api/invites.
func (h *InviteHandler) List(c *gin.Context) {
	userID := mw.GetUserID(c)
	invites, err := h.svc.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	result := make([]gin.H, 0, len(invites))
	for i := range invites {
		entry := gin.H{
			"id":    invites[i].ID,
			"sport": invites[i].SportName,
		}
		if invites[i].Inviter != nil {
			entry["from"] = invites[i].Inviter.Label()
		}
		result = append(result, entry)
	}
	c.JSON(http.StatusOK, gin.H{"invites": result})
}

// Send handles POST /api/invites.
func (h *InviteHandler) Send(c *gin.Context) {
	userID := mw.GetUserID(c)
	var req struct {
		InviteeID int64  `json:"invitee_id" binding:"required"`
		Sport     string `json:"sport" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := social.Retry(c.Request.Context(), h.retry, func() error {
		return h.svc.Send(c.Request.Context(), userID, req.InviteeID, req.Sport)
	})
	h.logAction(c, userID, "invite.send", req, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true})
}

// Respond handles POST /api/invites/:id/respond.
func (h *InviteHandler) Respond(c *gin.Context) {
	userID := mw.GetUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Response string `json:"response" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var accept bool
	switch req.Response {
	case "accepted":
		accept = true
	case "declined":
		accept = false
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "response must be accepted or declined"})
		return
	}

	err = social.Retry(c.Request.Context(), h.retry, func() error {
		return h.svc.Respond(c.Request.Context(), userID, id, accept)
	})
	h.logAction(c, userID, "invite.respond", gin.H{"id": id, "response": req.Response}, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *InviteHandler) logAction(c *gin.Context, userID int64, action string, req interface{}, err error) {
	if h.aud == nil {
		return
	}
	entry := audit.AuditEntry{
		TraceID: mw.GetTraceID(c),
		UserID:  &userID,
		Action:  action,
		Request: req,
		IP:      c.ClientIP(),
	}
	if err != nil {
		entry.Error = err.Error()
	}
	h.aud.Log(entry)
}
