package invites

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ross-mclain-br/decyde/pkg/decyde/auth"
	"github.com/ross-mclain-br/decyde/pkg/decyde/models"
	"gorm.io/gorm"
)

// Handler handles invite-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new invites handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// IssueInviteRequest represents the request to issue or retry an invite
type IssueInviteRequest struct {
	GroupID uint   `json:"group_id" binding:"required"`
	UserID  uint   `json:"user_id"`
	Email   string `json:"email" binding:"omitempty,email"`
}

// InviteResponse represents an invite in API responses
type InviteResponse struct {
	ID          uint   `json:"id"`
	GroupID     uint   `json:"group_id"`
	GroupName   string `json:"group_name,omitempty"`
	SenderID    uint   `json:"sender_id"`
	SenderName  string `json:"sender_name,omitempty"`
	UserID      *uint  `json:"user_id,omitempty"`
	Email       string `json:"email"`
	Status      string `json:"status"`
	SentAt      string `json:"sent_at"`
	RespondedAt string `json:"responded_at,omitempty"`
	CancelledAt string `json:"cancelled_at,omitempty"`
}

func inviteToResponse(invite models.GroupInvite) InviteResponse {
	resp := InviteResponse{
		ID:         invite.ID,
		GroupID:    invite.GroupID,
		GroupName:  invite.Group.Name,
		SenderID:   invite.SenderID,
		SenderName: invite.Sender.Name,
		UserID:     invite.UserID,
		Email:      invite.Email,
		Status:     string(invite.Status),
		SentAt:     invite.SentAt.Format("2006-01-02T15:04:05Z"),
	}
	if invite.RespondedAt != nil {
		resp.RespondedAt = invite.RespondedAt.Format("2006-01-02T15:04:05Z")
	}
	if invite.CancelledAt != nil {
		resp.CancelledAt = invite.CancelledAt.Format("2006-01-02T15:04:05Z")
	}
	return resp
}

// Issue issues a new invite, or retries one that was rejected or cancelled
// @Summary Issue or retry a group invite
// @Description Invite a user to a group by user id or email address
// @Tags invites
// @Accept json
// @Produce json
// @Param request body IssueInviteRequest true "Invite target"
// @Success 201 {object} InviteResponse
// @Failure 400 {object} map[string]string "Missing target"
// @Failure 409 {object} map[string]string "Lifecycle conflict"
// @Security BearerAuth
// @Router /invites [post]
func (h *Handler) Issue(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req IssueInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Only members may invite into a group
	if err := h.db.Where("user_id = ? AND group_id = ?", userID, req.GroupID).First(&models.UserGroup{}).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	invite, err := IssueInvite(h.db, req.GroupID, userID, req.UserID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingTarget):
			c.JSON(http.StatusBadRequest, gin.H{"error": "A user id or email address is required"})
		case errors.Is(err, ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, ErrAlreadyMember):
			c.JSON(http.StatusConflict, gin.H{"error": "User is already a member of this group"})
		case errors.Is(err, ErrAlreadyPending):
			c.JSON(http.StatusConflict, gin.H{"error": "An invite for this user is already pending"})
		case errors.Is(err, ErrAlreadyAccepted):
			c.JSON(http.StatusConflict, gin.H{"error": "User has already accepted an invite to this group"})
		default:
			log.Printf("Failed to issue invite for group %d: %v", req.GroupID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue invite"})
		}
		return
	}

	c.JSON(http.StatusCreated, inviteToResponse(*invite))
}

// ListReceived returns pending invites addressed to the current user,
// matched by account id or by email for invites sent before they registered
// @Summary List received invites
// @Tags invites
// @Produce json
// @Success 200 {array} InviteResponse
// @Security BearerAuth
// @Router /invites [get]
func (h *Handler) ListReceived(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	email, _ := auth.GetEmail(c)

	var invites []models.GroupInvite
	err := h.db.Preload("Group").Preload("Sender").
		Where("status = ?", models.InviteStatusPending).
		Where("user_id = ? OR email = ?", userID, email).
		Order("sent_at DESC").
		Find(&invites).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invites"})
		return
	}

	resp := make([]InviteResponse, len(invites))
	for i, invite := range invites {
		resp[i] = inviteToResponse(invite)
	}

	c.JSON(http.StatusOK, resp)
}

// ListForGroup returns all invites for a group, newest first (members only)
// @Summary List a group's invites
// @Tags invites
// @Produce json
// @Param id path int true "Group ID"
// @Success 200 {array} InviteResponse
// @Security BearerAuth
// @Router /groups/{id}/invites [get]
func (h *Handler) ListForGroup(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	if err := h.db.Where("user_id = ? AND group_id = ?", userID, groupID).First(&models.UserGroup{}).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var invites []models.GroupInvite
	if err := h.db.Preload("Group").Preload("Sender").
		Where("group_id = ?", groupID).
		Order("sent_at DESC").
		Find(&invites).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invites"})
		return
	}

	resp := make([]InviteResponse, len(invites))
	for i, invite := range invites {
		resp[i] = inviteToResponse(invite)
	}

	c.JSON(http.StatusOK, resp)
}

// Accept accepts a pending invite addressed to the current user
// @Summary Accept an invite
// @Tags invites
// @Produce json
// @Param id path int true "Invite ID"
// @Success 200 {object} InviteResponse
// @Failure 409 {object} map[string]string "Invite no longer pending"
// @Security BearerAuth
// @Router /invites/{id}/accept [post]
func (h *Handler) Accept(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	email, _ := auth.GetEmail(c)
	inviteID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invite ID"})
		return
	}

	invite, err := AcceptInvite(h.db, uint(inviteID), userID, email)
	if err != nil {
		h.respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, inviteToResponse(*invite))
}

// AcceptByToken accepts a pending invite via its link token
// @Summary Accept an invite by token
// @Tags invites
// @Produce json
// @Param token path string true "Invite token"
// @Success 200 {object} InviteResponse
// @Security BearerAuth
// @Router /invites/token/{token}/accept [post]
func (h *Handler) AcceptByToken(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	email, _ := auth.GetEmail(c)

	invite, err := AcceptInviteByToken(h.db, c.Param("token"), userID, email)
	if err != nil {
		h.respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, inviteToResponse(*invite))
}

// Reject rejects a pending invite addressed to the current user
// @Summary Reject an invite
// @Tags invites
// @Produce json
// @Param id path int true "Invite ID"
// @Success 200 {object} InviteResponse
// @Security BearerAuth
// @Router /invites/{id}/reject [post]
func (h *Handler) Reject(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	email, _ := auth.GetEmail(c)
	inviteID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invite ID"})
		return
	}

	invite, err := RejectInvite(h.db, uint(inviteID), userID, email)
	if err != nil {
		h.respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, inviteToResponse(*invite))
}

// Cancel cancels a pending invite (sender or group owner only)
// @Summary Cancel an invite
// @Tags invites
// @Produce json
// @Param id path int true "Invite ID"
// @Success 200 {object} InviteResponse
// @Security BearerAuth
// @Router /invites/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	inviteID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid invite ID"})
		return
	}

	invite, err := CancelInvite(h.db, uint(inviteID), userID)
	if err != nil {
		h.respondTransitionError(c, err)
		return
	}

	c.JSON(http.StatusOK, inviteToResponse(*invite))
}

func (h *Handler) respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invite not found"})
	case errors.Is(err, ErrNotInvitee):
		c.JSON(http.StatusForbidden, gin.H{"error": "This invite is not addressed to you"})
	case errors.Is(err, ErrNotSender):
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the sender or group owner may cancel an invite"})
	case errors.Is(err, ErrNotPending):
		c.JSON(http.StatusConflict, gin.H{"error": "Invite is no longer pending"})
	default:
		log.Printf("Invite transition failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update invite"})
	}
}

// RegisterRoutes registers invite routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListReceived)
	rg.POST("", h.Issue)
	rg.POST("/:id/accept", h.Accept)
	rg.POST("/:id/reject", h.Reject)
	rg.POST("/:id/cancel", h.Cancel)
	rg.POST("/token/:token/accept", h.AcceptByToken)
}

// RegisterGroupRoutes registers the per-group invite listing
func (h *Handler) RegisterGroupRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/invites", h.ListForGroup)
}
