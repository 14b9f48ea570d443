package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/matchpoint-app/server/model"
	"github.com/matchpoint-app/server/scheduler"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdminHandler handles admin-only REST endpoints.
// Routes should be protected by AdminAuth middleware.
type AdminHandler struct {
	db     *gorm.DB
	sched  *scheduler.Scheduler
	logger *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(db *gorm.DB, sched *scheduler.Scheduler, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{db: db, sched: sched, logger: logger}
}

// Stats returns aggregate service counts.
// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	var users, friendships, accepted, pendingInvites, memberships int64
	h.db.Model(&model.User{}).Count(&users)
	h.db.Model(&model.Friendship{}).Count(&friendships)
	h.db.Model(&model.Friendship{}).Where("status = ?", model.FriendshipAccepted).Count(&accepted)
	h.db.Model(&model.ActivityInvite{}).Where("status = ?", model.InvitePending).Count(&pendingInvites)
	h.db.Model(&model.SportMembership{}).Count(&memberships)

	c.JSON(http.StatusOK, gin.H{
		"users":                users,
		"friendships":          friendships,
		"accepted_friendships": accepted,
		"pending_invites":      pendingInvites,
		"sport_memberships":    memberships,
	})
}

// BanUser bans or unbans a user.
// POST /api/admin/users/:id/ban
func (h *AdminHandler) BanUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		Ban bool `json:"ban"`
	}
	_ = c.ShouldBindJSON(&req)

	status := 1
	if req.Ban {
		status = 0
	}
	result := h.db.Model(&model.User{}).Where("id = ?", userID).Update("status", status)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	h.logger.Info("admin changed user status",
		zap.Int64("user_id", userID), zap.Bool("banned", req.Ban))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// ListSchedulerTasks returns the registered periodic tasks.
// GET /api/admin/scheduler
func (h *AdminHandler) ListSchedulerTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": h.sched.ListTickers()})
}

// AdminAuth guards the admin route group with a shared key header.
func AdminAuth(adminKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if adminKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": "admin endpoints disabled: set server.admin_key in config"})
			return
		}
		key := c.GetHeader("X-Admin-Key")
		if key != adminKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
