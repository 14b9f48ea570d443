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

// PostHandler handles the feed REST endpoints. Image is an opaque string; the
// server never touches file contents.
type PostHandler struct {
	db *gorm.DB
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{db: db}
}

// List handles GET /api/posts, newest first.
func (h *PostHandler) List(c *gin.Context) {
	var posts []model.Post
	if err := h.db.Order("id DESC").Limit(100).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(c *gin.Context) {
	userID := mw.GetUserID(c)
	var req struct {
		Content string `json:"content" binding:"required,max=2000"`
		Image   string `json:"image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	post := model.Post{
		UserID:  userID,
		Content: req.Content,
		Image:   req.Image,
	}
	if err := h.db.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": post.ID})
}

// Delete handles DELETE /api/posts/:id. Owner only.
func (h *PostHandler) Delete(c *gin.Context) {
	userID := mw.GetUserID(c)
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var post model.Post
	if err := h.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		}
		return
	}
	if post.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	if err := h.db.Delete(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
