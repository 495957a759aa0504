package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Condominium is the tenant boundary: every occurrence, user and statistic
// is scoped to exactly one condominium.
type Condominium struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128;not null" json:"name"`
	Address   string    `gorm:"size:256" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`

	// Associations
	Users []User `gorm:"foreignKey:CondominiumID" json:"-"`
}

func (c *Condominium) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
