package models

import (
	"time"
)

// DefaultAvatar is assigned to users who never picked one
const DefaultAvatar = "default.png"

// Equipment holds the cosmetic items a user currently displays
type Equipment struct {
	Title  string `db:"equipped_title" json:"title"`
	Frame  string `db:"equipped_frame" json:"frame"`
	Badge  string `db:"equipped_badge" json:"badge"`
	Effect string `db:"equipped_effect" json:"effect"`
}

// User represents an arcade player
type User struct {
	ID                 int64     `db:"id"`
	Username           string    `db:"username"`
	Avatar             string    `db:"avatar"`
	IsAdmin            bool      `db:"is_admin"`
	IsSuspect          bool      `db:"is_suspect"`
	WarningPending     bool      `db:"warning_pending"`
	ValidationFailures int       `db:"validation_failures"`
	SpentPoints        int64     `db:"spent_points"`
	Equipped           Equipment `db:"-"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// ModerationStatus is the flag state shown to a player
type ModerationStatus struct {
	IsSuspect          bool `json:"is_suspect"`
	WarningPending     bool `json:"warning_pending"`
	ValidationFailures int  `json:"validation_failures"`
}

// Slot returns the item equipped in a category's slot
func (e Equipment) Slot(category ItemCategory) string {
	switch category {
	case CategoryTitle:
		return e.Title
	case CategoryAvatarFrame:
		return e.Frame
	case CategoryBadge:
		return e.Badge
	case CategoryLobbyEffect:
		return e.Effect
	default:
		return ""
	}
}

// Status returns the user's moderation flags
func (u *User) Status() *ModerationStatus {
	return &ModerationStatus{
		IsSuspect:          u.IsSuspect,
		WarningPending:     u.WarningPending,
		ValidationFailures: u.ValidationFailures,
	}
}
