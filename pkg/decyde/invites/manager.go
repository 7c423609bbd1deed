package invites

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ross-mclain-br/decyde/pkg/decyde/models"
	"gorm.io/gorm"
)

var (
	// ErrMissingTarget means neither a user id nor an email address was supplied
	ErrMissingTarget = errors.New("invite requires a user id or an email address")
	// ErrUserNotFound means the supplied user id matches no account
	ErrUserNotFound = errors.New("invited user not found")
	// ErrAlreadyMember means the target user already belongs to the group
	ErrAlreadyMember = errors.New("user is already a member of this group")
	// ErrAlreadyPending means a pending invite for this target already exists
	ErrAlreadyPending = errors.New("an invite for this user is already pending")
	// ErrAlreadyAccepted means the target has already accepted an invite to this group
	ErrAlreadyAccepted = errors.New("user has already accepted an invite to this group")
	// ErrNotPending means the invite is in a terminal state and cannot transition
	ErrNotPending = errors.New("invite is no longer pending")
	// ErrNotInvitee means the invite does not target the acting user
	ErrNotInvitee = errors.New("invite does not belong to this user")
	// ErrNotSender means the acting user may not cancel this invite
	ErrNotSender = errors.New("only the sender or group owner may cancel an invite")
)

// IssueInvite creates a new PENDING invite for a group, or refuses if the
// target is already a member, already invited, or already accepted. A target
// whose most recent invite was rejected or cancelled gets a fresh row; the
// terminal row is kept as history and never reused.
//
// Exactly one of targetUserID/email must identify the target; an email that
// matches no account still produces a valid invite (the invitee can accept
// by token after registering). The whole read-then-insert sequence runs in
// one transaction so concurrent issuers cannot both pass the pending check.
func IssueInvite(db *gorm.DB, groupID, senderID, targetUserID uint, email string) (*models.GroupInvite, error) {
	if targetUserID == 0 && email == "" {
		return nil, ErrMissingTarget
	}

	var invite models.GroupInvite
	err := db.Transaction(func(tx *gorm.DB) error {
		// Resolve the target account. Email-only invites may not resolve.
		var target *models.User
		if targetUserID != 0 {
			var user models.User
			if err := tx.First(&user, targetUserID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrUserNotFound
				}
				return err
			}
			target = &user
		} else {
			var user models.User
			err := tx.Where("email = ?", email).First(&user).Error
			if err == nil {
				target = &user
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		// Membership guard: an existing member never gets an invite,
		// regardless of prior invite history.
		if target != nil {
			err := tx.Where("user_id = ? AND group_id = ?", target.ID, groupID).
				First(&models.UserGroup{}).Error
			if err == nil {
				return ErrAlreadyMember
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		// Branch on the most recent invite for this target. The explicit
		// sent_at ordering keeps the decision deterministic when multiple
		// terminal rows exist.
		query := tx.Where("group_id = ?", groupID)
		switch {
		case target != nil:
			query = query.Where("user_id = ? OR email = ?", target.ID, target.Email)
		default:
			query = query.Where("email = ?", email)
		}

		var last models.GroupInvite
		err := query.Order("sent_at DESC").First(&last).Error
		if err == nil {
			switch last.Status {
			case models.InviteStatusPending:
				return ErrAlreadyPending
			case models.InviteStatusAccepted:
				return ErrAlreadyAccepted
			}
			// REJECTED and CANCELLED permit a retry via a new row
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Prefer the account's stored email over the caller-supplied one
		finalEmail := email
		if target != nil {
			finalEmail = target.Email
		}
		if finalEmail == "" {
			return ErrMissingTarget
		}

		invite = models.GroupInvite{
			GroupID:  groupID,
			SenderID: senderID,
			Email:    finalEmail,
			Status:   models.InviteStatusPending,
			Token:    uuid.NewString(),
			SentAt:   time.Now(),
		}
		if target != nil {
			invite.UserID = &target.ID
		}
		return tx.Create(&invite).Error
	})
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// targetsUser reports whether the invite is addressed to the given account,
// either by resolved user id or by email match.
func targetsUser(invite *models.GroupInvite, userID uint, email string) bool {
	if invite.UserID != nil && *invite.UserID == userID {
		return true
	}
	return invite.Email != "" && invite.Email == email
}

// AcceptInvite transitions a PENDING invite to ACCEPTED and creates the
// membership row in the same transaction. An invite that matched the user
// by email alone gets its user id bound on acceptance.
func AcceptInvite(db *gorm.DB, inviteID, userID uint, email string) (*models.GroupInvite, error) {
	var invite models.GroupInvite
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invite, inviteID).Error; err != nil {
			return err
		}
		return acceptLocked(tx, &invite, userID, email)
	})
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// AcceptInviteByToken is the accept path for email-only invitees following
// an invite link after registering.
func AcceptInviteByToken(db *gorm.DB, token string, userID uint, email string) (*models.GroupInvite, error) {
	var invite models.GroupInvite
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("token = ?", token).First(&invite).Error; err != nil {
			return err
		}
		return acceptLocked(tx, &invite, userID, email)
	})
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func acceptLocked(tx *gorm.DB, invite *models.GroupInvite, userID uint, email string) error {
	if !targetsUser(invite, userID, email) {
		return ErrNotInvitee
	}
	if invite.Status != models.InviteStatusPending {
		return ErrNotPending
	}

	now := time.Now()
	invite.Status = models.InviteStatusAccepted
	invite.RespondedAt = &now
	invite.UserID = &userID
	if err := tx.Save(invite).Error; err != nil {
		return err
	}

	// The membership may already exist if the user joined through another
	// invite between issue and accept
	err := tx.Where("user_id = ? AND group_id = ?", userID, invite.GroupID).
		First(&models.UserGroup{}).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return tx.Create(&models.UserGroup{UserID: userID, GroupID: invite.GroupID}).Error
}

// RejectInvite transitions a PENDING invite to REJECTED. The row stays in
// place as history; the sender may issue a fresh invite afterwards.
func RejectInvite(db *gorm.DB, inviteID, userID uint, email string) (*models.GroupInvite, error) {
	var invite models.GroupInvite
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invite, inviteID).Error; err != nil {
			return err
		}
		if !targetsUser(&invite, userID, email) {
			return ErrNotInvitee
		}
		if invite.Status != models.InviteStatusPending {
			return ErrNotPending
		}

		now := time.Now()
		invite.Status = models.InviteStatusRejected
		invite.RespondedAt = &now
		invite.UserID = &userID
		return tx.Save(&invite).Error
	})
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// CancelInvite transitions a PENDING invite to CANCELLED. Only the original
// sender or the group owner may cancel.
func CancelInvite(db *gorm.DB, inviteID, actorID uint) (*models.GroupInvite, error) {
	var invite models.GroupInvite
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&invite, inviteID).Error; err != nil {
			return err
		}

		var group models.Group
		if err := tx.First(&group, invite.GroupID).Error; err != nil {
			return err
		}
		if actorID != invite.SenderID && actorID != group.OwnerID {
			return ErrNotSender
		}
		if invite.Status != models.InviteStatusPending {
			return ErrNotPending
		}

		now := time.Now()
		invite.Status = models.InviteStatusCancelled
		invite.CancelledAt = &now
		return tx.Save(&invite).Error
	})
	if err != nil {
		return nil, err
	}
	return &invite, nil
}
