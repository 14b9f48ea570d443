package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/matchpoint-app/server/audit"
	mw "github.com/matchpoint-app/server/middleware"
	"github.com/matchpoint-app/server/social"
)

// FriendHandler handles friendship REST endpoints.
type FriendHandler struct {
	svc   *social.FriendshipService
	aud   *audit.Service
	retry social.RetryPolicy
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(svc *social.FriendshipService, aud *audit.Service, retry social.RetryPolicy) *FriendHandler {
	return &FriendHandler{svc: svc, aud: aud, retry: retry}
}

// List handles GET /api/friends.
func (h *FriendHandler) List(c *gin.Context) {
	userID := mw.GetUserID(c)
	friends, err := h.svc.ListFriends(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	result := make([]gin.H, 0, len(friends))
	for i := range friends {
		result = append(result, gin.H{
			"id":       friends[i].ID,
			"username": friends[i].Username,
			"label":    friends[i].Label(),
		})
	}
	c.JSON(http.StatusOK, gin.H{"friends": result})
}

// ListRequests handles GET /api/friends/requests.
func (h *FriendHandler) ListRequests(c *gin.Context) {
	userID := mw.GetUserID(c)
	pending, err := h.svc.ListIncoming(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	result := make([]gin.H, 0, len(pending))
	for i := range pending {
		entry := gin.H{"id": pending[i].ID}
		if pending[i].Requester != nil {
			entry["from"] = pending[i].Requester.Label()
		}
		result = append(result, entry)
	}
	c.JSON(http.StatusOK, gin.H{"requests": result})
}

// SendRequest handles POST /api/friends/request.
func (h *FriendHandler) SendRequest(c *gin.Context) {
	userID := mw.GetUserID(c)
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var id int64
	err := social.Retry(c.Request.Context(), h.retry, func() error {
		var err error
		id, err = h.svc.SendRequest(c.Request.Context(), userID, req.Username)
		return err
	})
	h.logAction(c, userID, "friend.request", req, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// Accept handles POST /api/friends/accept/:id.
func (h *FriendHandler) Accept(c *gin.Context) {
	h.mutate(c, "friend.accept", h.svc.Accept)
}

// Reject handles DELETE /api/friends/reject/:id.
func (h *FriendHandler) Reject(c *gin.Context) {
	h.mutate(c, "friend.reject", h.svc.Reject)
}

// Remove handles DELETE /api/friends/:id.
func (h *FriendHandler) Remove(c *gin.Context) {
	h.mutate(c, "friend.remove", h.svc.Remove)
}

// Block handles POST /api/friends/block/:id.
func (h *FriendHandler) Block(c *gin.Context) {
	h.mutate(c, "friend.block", h.svc.Block)
}

// mutate runs one of the actor+id state transitions with retry and audit.
func (h *FriendHandler) mutate(c *gin.Context, action string, fn func(ctx context.Context, actorID, id int64) error) {
	userID := mw.GetUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	err = social.Retry(c.Request.Context(), h.retry, func() error {
		return fn(c.Request.Context(), userID, id)
	})
	h.logAction(c, userID, action, gin.H{"id": id}, err)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// logAction records a mutating call in the audit trail.
func (h *FriendHandler) logAction(c *gin.Context, userID int64, action string, req interface{}, err error) {
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
