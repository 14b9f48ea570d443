package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	mw "github.com/matchpoint-app/server/middleware"
	"github.com/matchpoint-app/server/social"
)

// SportHandler handles roster and sport directory REST endpoints.
type SportHandler struct {
	roster *social.RosterService
	dir    *social.DirectoryService
	retry  social.RetryPolicy
}

// NewSportHandler creates a new SportHandler.
func NewSportHandler(roster *social.RosterService, dir *social.DirectoryService, retry social.RetryPolicy) *SportHandler {
	return &SportHandler{roster: roster, dir: dir, retry: retry}
}

// List handles GET /api/sports.
func (h *SportHandler) List(c *gin.Context) {
	userID := mw.GetUserID(c)
	sports, err := h.roster.List(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sports": sports})
}

// Add handles POST /api/sports.
func (h *SportHandler) Add(c *gin.Context) {
	userID := mw.GetUserID(c)
	var req struct {
		Sport string `json:"sport" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := social.Retry(c.Request.Context(), h.retry, func() error {
		return h.roster.Add(c.Request.Context(), userID, req.Sport)
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Remove handles DELETE /api/sports/:name.
func (h *SportHandler) Remove(c *gin.Context) {
	userID := mw.GetUserID(c)
	err := social.Retry(c.Request.Context(), h.retry, func() error {
		return h.roster.Remove(c.Request.Context(), userID, c.Param("name"))
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Participants handles GET /api/sports/:name/participants.
func (h *SportHandler) Participants(c *gin.Context) {
	userID := mw.GetUserID(c)
	users, err := h.roster.Participants(c.Request.Context(), c.Param("name"), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	labels := make([]string, 0, len(users))
	for i := range users {
		labels = append(labels, users[i].Label())
	}
	c.JSON(http.StatusOK, gin.H{"participants": labels})
}

// Popular handles GET /api/sports/popular.
func (h *SportHandler) Popular(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	names, err := h.dir.PopularSports(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sports": names})
}
