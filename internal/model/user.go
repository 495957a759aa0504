package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a resident or staff member of a condominium. Authentication is
// handled elsewhere; the ledger only needs users to validate the creator of
// an occurrence and to attribute history entries.
type User struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Email         string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Apartment     string    `gorm:"size:32" json:"apartment,omitempty"`
	Role          string    `gorm:"size:32;not null" json:"role"`
	CondominiumID string    `gorm:"size:36;not null;index" json:"condominiumId"`
	CreatedAt     time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"not null" json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
