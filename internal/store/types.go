package store

import (
	"errors"

	"sindico-backend/internal/model"
)

// ErrNotFound reports that a record does not exist in the caller's
// condominium. Cross-tenant lookups deliberately return the same error as
// truly missing records.
var ErrNotFound = errors.New("record not found")

// ErrConflict reports that protocol allocation kept colliding with
// concurrently issued protocols even after retrying.
var ErrConflict = errors.New("protocol conflict")

// Filter holds the optional predicates for listing occurrences. Zero values
// mean "not filtered". Search matches title, description or protocol,
// case-insensitively.
type Filter struct {
	Status       model.OccurrenceStatus
	Type         model.OccurrenceType
	Priority     model.OccurrencePriority
	CreatedByID  string
	AssignedToID string
	Search       string
}

// GroupCount is one bucket of a grouped aggregate.
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// Stats is the raw aggregate snapshot for one condominium. The cancelled
// count is derived by the ledger service, not queried.
type Stats struct {
	Total      int64
	Open       int64
	InProgress int64
	Resolved   int64
	ByType     []GroupCount
	ByPriority []GroupCount
	Recent     []model.Occurrence
}
