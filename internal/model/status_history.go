package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusHistoryEntry records one status an occurrence has held. Entries are
// append-only: exactly one OPEN entry is written at creation time and one
// entry per real status change afterwards. Existing rows are never updated.
type StatusHistoryEntry struct {
	ID           string           `gorm:"primaryKey;size:36" json:"id"`
	OccurrenceID string           `gorm:"size:36;not null;index" json:"occurrenceId"`
	Status       OccurrenceStatus `gorm:"size:16;not null" json:"status"`
	Comment      string           `gorm:"size:500" json:"comment"`
	ChangedByID  string           `gorm:"size:36;not null" json:"changedById"`
	CreatedAt    time.Time        `gorm:"not null;index" json:"createdAt"`
}

// BeforeCreate assigns the record identity.
func (e *StatusHistoryEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
