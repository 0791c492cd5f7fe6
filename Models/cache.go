package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SessionRow is the single persisted session (token + user identity). There
// is at most one row; login replaces it and logout/401 deletes it.
type SessionRow struct {
	gorm.Model
	Token        string `json:"token"`
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	MobileNumber string `json:"mobile_number"`
	Role         string `json:"role"`
}

// TravelDraft is a locally-drafted trip start that has not been confirmed by
// the server yet. Drafts carry a placeholder identity and are display-only
// until a refetch replaces them with the authoritative row.
type TravelDraft struct {
	gorm.Model
	DraftID   string         `json:"draft_id" gorm:"uniqueIndex"`
	Payload   datatypes.JSON `json:"payload"`
	Submitted bool           `json:"submitted" gorm:"default:false"`
}
