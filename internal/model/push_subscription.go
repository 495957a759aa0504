package model

import "time"

// PushSubscription holds the information for a browser push subscription.
// A subscription is linked to the occurrences its owner wants to follow and
// receives a push whenever one of them changes status.
type PushSubscription struct {
	Endpoint  string    `gorm:"primaryKey"`
	P256DH    string    `gorm:"column:p256dh;not null"`
	Auth      string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null"`

	// Associations
	Occurrences []*Occurrence `gorm:"many2many:subscription_occurrence_mapping;"`
}
