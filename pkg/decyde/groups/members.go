package groups

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ross-mclain-br/decyde/pkg/decyde/auth"
	"github.com/ross-mclain-br/decyde/pkg/decyde/models"
)

// MemberResponse represents a group member in API responses
type MemberResponse struct {
	ID        uint   `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	IsOwner   bool   `json:"is_owner"`
}

// ListMembers returns all members of a group
func (h *Handler) ListMembers(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	// Check membership
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&models.UserGroup{}).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var memberships []models.UserGroup
	if err := h.db.Preload("User").Where("group_id = ?", groupID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	members := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = MemberResponse{
			ID:        m.User.ID,
			Email:     m.User.Email,
			Name:      m.User.Name,
			AvatarURL: m.User.AvatarURL,
			IsOwner:   m.User.ID == group.OwnerID,
		}
	}

	c.JSON(http.StatusOK, members)
}

// RemoveMember removes a user from a group. The owner may remove anyone
// but themselves; a member may remove only themselves (leave the group).
func (h *Handler) RemoveMember(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}
	memberID, err := strconv.ParseUint(c.Param("userId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	if userID != group.OwnerID && userID != uint(memberID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Owner access required"})
		return
	}

	// The group must always keep its owner as a member
	if uint(memberID) == group.OwnerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot remove the group owner"})
		return
	}

	result := h.db.Where("user_id = ? AND group_id = ?", memberID, groupID).Delete(&models.UserGroup{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove member"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// RegisterMemberRoutes registers member management routes
func (h *Handler) RegisterMemberRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/members", h.ListMembers)
	rg.DELETE("/:id/members/:userId", h.RemoveMember)
}
