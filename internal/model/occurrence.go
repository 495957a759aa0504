package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OccurrenceStatus is the lifecycle state of an occurrence.
type OccurrenceStatus string

const (
	StatusOpen       OccurrenceStatus = "OPEN"
	StatusInProgress OccurrenceStatus = "IN_PROGRESS"
	StatusResolved   OccurrenceStatus = "RESOLVED"
	StatusCancelled  OccurrenceStatus = "CANCELLED"
)

// OccurrenceType categorizes what an occurrence is about.
type OccurrenceType string

const (
	TypeElevator    OccurrenceType = "ELEVATOR"
	TypeMaintenance OccurrenceType = "MAINTENANCE"
	TypeNoise       OccurrenceType = "NOISE"
	TypeSecurity    OccurrenceType = "SECURITY"
	TypeCleaning    OccurrenceType = "CLEANING"
	TypeFrontDesk   OccurrenceType = "FRONT_DESK"
	TypeParkingSpot OccurrenceType = "PARKING_SPOT"
	TypeRenovation  OccurrenceType = "RENOVATION"
	TypeAnimal      OccurrenceType = "ANIMAL"
	TypeOther       OccurrenceType = "OTHER"
)

// OccurrencePriority is the severity assigned to an occurrence.
type OccurrencePriority string

const (
	PriorityLow    OccurrencePriority = "LOW"
	PriorityMedium OccurrencePriority = "MEDIUM"
	PriorityHigh   OccurrencePriority = "HIGH"
	PriorityUrgent OccurrencePriority = "URGENT"
)

// Occurrence is a condominium-scoped incident record. The protocol is
// assigned once at creation and is unique across the whole store.
type Occurrence struct {
	ID            string             `gorm:"primaryKey;size:36" json:"id"`
	Protocol      string             `gorm:"uniqueIndex;size:32;not null" json:"protocol"`
	Title         string             `gorm:"size:100;not null" json:"title"`
	Description   string             `gorm:"size:1000;not null" json:"description"`
	Type          OccurrenceType     `gorm:"size:32;not null" json:"type"`
	Priority      OccurrencePriority `gorm:"size:16;not null" json:"priority"`
	Status        OccurrenceStatus   `gorm:"size:16;not null;index" json:"status"`
	Location      string             `gorm:"size:100" json:"location,omitempty"`
	InternalNotes string             `gorm:"size:500" json:"internalNotes,omitempty"`
	CondominiumID string             `gorm:"size:36;not null;index" json:"condominiumId"`
	CreatedByID   string             `gorm:"size:36;not null;index" json:"createdById"`
	AssignedToID  *string            `gorm:"size:36;index" json:"assignedToId,omitempty"`
	CreatedAt     time.Time          `gorm:"not null;index" json:"createdAt"`
	UpdatedAt     time.Time          `gorm:"not null" json:"updatedAt"`
	ResolvedAt    *time.Time         `json:"resolvedAt,omitempty"`

	// Associations
	StatusHistory []StatusHistoryEntry `gorm:"foreignKey:OccurrenceID" json:"statusHistory,omitempty"`
	Attachments   []Attachment         `gorm:"foreignKey:OccurrenceID" json:"attachments,omitempty"`
}

// BeforeCreate assigns the record identity.
func (o *Occurrence) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
