package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is a file linked to an occurrence. Upload and download handling
// live with the file-storage collaborator; the ledger only owns the relation
// so deletes can cascade.
type Attachment struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	OccurrenceID string    `gorm:"size:36;not null;index" json:"occurrenceId"`
	FileName     string    `gorm:"size:256;not null" json:"fileName"`
	ContentType  string    `gorm:"size:128" json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	UploadedByID string    `gorm:"size:36;not null" json:"uploadedById"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}

func (a *Attachment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
