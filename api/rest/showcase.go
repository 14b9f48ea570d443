package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	mw "github.com/matchpoint-app/server/middleware"
	"github.com/matchpoint-app/server/model"
	"gorm.io/gorm"
)

// ShowcaseHandler handles sport showcase REST endpoints.
type ShowcaseHandler struct {
	db *gorm.DB
}

// NewShowcaseHandler creates a new ShowcaseHandler.
func NewShowcaseHandler(db *gorm.DB) *ShowcaseHandler {
	return &ShowcaseHandler{db: db}
}

// List handles GET /api/showcase. Optional ?sport= filter.
func (h *ShowcaseHandler) List(c *gin.Context) {
	q := h.db.Preload("User").Order("id DESC").Limit(100)
	if sport := c.Query("sport"); sport != "" {
		q = q.Where("sport_name = ?", sport)
	}
	var entries []model.SportPost
	if err := q.Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// Create handles POST /api/showcase.
func (h *ShowcaseHandler) Create(c *gin.Context) {
	userID := mw.GetUserID(c)
	var req struct {
		Sport       string `json:"sport" binding:"required,max=64"`
		Description string `json:"description" binding:"required,max=2000"`
		Image       string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry := model.SportPost{
		UserID:      userID,
		SportName:   req.Sport,
		Description: req.Description,
		Image:       req.Image,
	}
	if err := h.db.Create(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": entry.ID})
}

// Delete handles DELETE /api/showcase/:id. Owner only.
func (h *ShowcaseHandler) Delete(c *gin.Context) {
	userID := mw.GetUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var entry model.SportPost
	if err := h.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	if entry.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.db.Delete(&entry).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
