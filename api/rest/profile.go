package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	mw "github.com/matchpoint-app/server/middleware"
	"github.com/matchpoint-app/server/model"
	"github.com/matchpoint-app/server/social"
	"gorm.io/gorm"
)

// ProfileHandler handles profile and directory REST endpoints.
type ProfileHandler struct {
	db      *gorm.DB
	friends *social.FriendshipService
	roster  *social.RosterService
	invites *social.InviteService
	dir     *social.DirectoryService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(
	db *gorm.DB,
	friends *social.FriendshipService,
	roster *social.RosterService,
	invites *social.InviteService,
	dir *social.DirectoryService,
) *ProfileHandler {
	return &ProfileHandler{db: db, friends: friends, roster: roster, invites: invites, dir: dir}
}

func profileJSON(u *model.User) gin.H {
	return gin.H{
		"id":       u.ID,
		"username": u.Username,
		"pronouns": u.Pronouns,
		"bio":      u.Bio,
		"avatar":   u.Avatar,
		"label":    u.Label(),
	}
}

// Me handles GET /api/profile.
func (h *ProfileHandler) Me(c *gin.Context) {
	userID := mw.GetUserID(c)
	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, profileJSON(&user))
}

// Update handles PUT /api/profile. Username is immutable; only the free-form
// profile fields can change.
func (h *ProfileHandler) Update(c *gin.Context) {
	userID := mw.GetUserID(c)
	var req struct {
		Pronouns *string `json:"pronouns"`
		Bio      *string `json:"bio"`
		Avatar   *string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.Pronouns != nil {
		updates["pronouns"] = *req.Pronouns
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}
	if req.Avatar != nil {
		updates["avatar"] = *req.Avatar
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}
	if err := h.db.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// User handles GET /api/users/:username.
func (h *ProfileHandler) User(c *gin.Context) {
	var user model.User
	err := h.db.Where("username = ?", c.Param("username")).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	sports, err := h.roster.List(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	friends, err := h.friends.ListFriends(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	friendLabels := make([]string, 0, len(friends))
	for i := range friends {
		friendLabels = append(friendLabels, friends[i].Label())
	}

	resp := profileJSON(&user)
	resp["sports"] = sports
	resp["friends"] = friendLabels
	c.JSON(http.StatusOK, resp)
}

// Overview handles GET /api/profile/overview: the caller's sports mapped to
// the other players of each, plus friends and pending inbound requests and
// invites, in one response.
func (h *ProfileHandler) Overview(c *gin.Context) {
	userID := mw.GetUserID(c)
	ctx := c.Request.Context()

	bySport, err := h.dir.SportParticipantsForUser(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	friends, err := h.friends.ListFriends(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	requests, err := h.friends.ListIncoming(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}
	invites, err := h.invites.ListIncoming(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	friendLabels := make([]string, 0, len(friends))
	for i := range friends {
		friendLabels = append(friendLabels, friends[i].Label())
	}
	requestList := make([]gin.H, 0, len(requests))
	for i := range requests {
		entry := gin.H{"id": requests[i].ID}
		if requests[i].Requester != nil {
			entry["from"] = requests[i].Requester.Label()
		}
		requestList = append(requestList, entry)
	}
	inviteList := make([]gin.H, 0, len(invites))
	for i := range invites {
		entry := gin.H{"id": invites[i].ID, "sport": invites[i].SportName}
		if invites[i].Inviter != nil {
			entry["from"] = invites[i].Inviter.Label()
		}
		inviteList = append(inviteList, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"sports":   bySport,
		"friends":  friendLabels,
		"requests": requestList,
		"invites":  inviteList,
	})
}
