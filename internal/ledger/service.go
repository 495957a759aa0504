package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sindico-backend/internal/model"
	"sindico-backend/internal/store"
)

// Notifier dispatches a push-notification job for an occurrence whose
// status just changed. Implemented by the notification worker pool.
type Notifier interface {
	Dispatch(occurrenceID string)
}

// Service composes the protocol sequencer and the occurrence store into the
// ledger operations exposed over HTTP.
type Service struct {
	store           store.Store
	notifier        Notifier
	logger          *zap.Logger
	defaultPriority model.OccurrencePriority
	now             func() time.Time
}

// NewService creates a ledger service. notifier may be nil when push
// notifications are disabled.
func NewService(s store.Store, notifier Notifier, logger *zap.Logger, defaultPriority model.OccurrencePriority) *Service {
	if defaultPriority == "" {
		defaultPriority = model.PriorityMedium
	}
	return &Service{
		store:           s,
		notifier:        notifier,
		logger:          logger,
		defaultPriority: defaultPriority,
		now:             time.Now,
	}
}

// CreateInput carries the caller-settable fields of a new occurrence.
// Status is not among them: every occurrence starts OPEN.
type CreateInput struct {
	Title       string
	Description string
	Type        model.OccurrenceType
	Priority    model.OccurrencePriority
	Location    string
}

// Create validates the acting user, then lets the store allocate the
// protocol and persist record plus initial history entry atomically.
func (s *Service) Create(ctx context.Context, in CreateInput, userID, condominiumID string) (*model.Occurrence, error) {
	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return nil, &StoreError{Op: "create occurrence", Err: err}
	}
	if !exists {
		return nil, &ValidationError{Msg: "user not found"}
	}

	priority := in.Priority
	if priority == "" {
		priority = s.defaultPriority
	}

	occ := &model.Occurrence{
		Title:         in.Title,
		Description:   in.Description,
		Type:          in.Type,
		Priority:      priority,
		Status:        model.StatusOpen,
		Location:      in.Location,
		CondominiumID: condominiumID,
		CreatedByID:   userID,
	}

	if err := s.store.CreateOccurrence(ctx, occ, "created"); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, err
		}
		return nil, &StoreError{Op: "create occurrence", Err: err}
	}

	s.logger.Info("occurrence created",
		zap.String("id", occ.ID),
		zap.String("protocol", occ.Protocol),
		zap.String("condominium_id", condominiumID),
	)
	return occ, nil
}

// Get returns one occurrence with history and attachments.
func (s *Service) Get(ctx context.Context, id, condominiumID string) (*model.Occurrence, error) {
	occ, err := s.store.GetOccurrence(ctx, id, condominiumID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &StoreError{Op: "load occurrence", Err: err}
	}
	return occ, nil
}

// Pagination is the metadata block accompanying every list page.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// List returns one page of occurrences matching the filter.
func (s *Service) List(ctx context.Context, condominiumID string, f store.Filter, page, limit int) ([]model.Occurrence, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	rows, total, err := s.store.ListOccurrences(ctx, condominiumID, f, page, limit)
	if err != nil {
		return nil, Pagination{}, &StoreError{Op: "list occurrences", Err: err}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return rows, Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}, nil
}

// UpdateInput carries the patchable fields. Nil means "leave unchanged".
type UpdateInput struct {
	Title         *string
	Description   *string
	Type          *model.OccurrenceType
	Priority      *model.OccurrencePriority
	Status        *model.OccurrenceStatus
	Location      *string
	InternalNotes *string
	AssignedToID  *string
}

// Update applies a field patch. A status different from the current one
// appends a history entry and stamps resolvedAt on the first transition
// into RESOLVED; re-setting the current status changes nothing but the
// other fields. Any status may follow any other.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput, userID, condominiumID string) (*model.Occurrence, error) {
	occ, err := s.store.GetOccurrence(ctx, id, condominiumID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &StoreError{Op: "update occurrence", Err: err}
	}

	if in.Title != nil {
		occ.Title = *in.Title
	}
	if in.Description != nil {
		occ.Description = *in.Description
	}
	if in.Type != nil {
		occ.Type = *in.Type
	}
	if in.Priority != nil {
		occ.Priority = *in.Priority
	}
	if in.Location != nil {
		occ.Location = *in.Location
	}
	if in.InternalNotes != nil {
		occ.InternalNotes = *in.InternalNotes
	}
	if in.AssignedToID != nil {
		occ.AssignedToID = in.AssignedToID
	}

	var entry *model.StatusHistoryEntry
	if in.Status != nil && *in.Status != occ.Status {
		previous := occ.Status
		occ.Status = *in.Status
		if occ.Status == model.StatusResolved && occ.ResolvedAt == nil {
			resolvedAt := s.now()
			occ.ResolvedAt = &resolvedAt
		}
		entry = &model.StatusHistoryEntry{
			OccurrenceID: occ.ID,
			Status:       occ.Status,
			Comment:      fmt.Sprintf("status changed from %s to %s", previous, occ.Status),
			ChangedByID:  userID,
			CreatedAt:    s.now(),
		}
	}

	if err := s.store.UpdateOccurrence(ctx, occ, entry); err != nil {
		return nil, &StoreError{Op: "update occurrence", Err: err}
	}

	if entry != nil {
		occ.StatusHistory = append([]model.StatusHistoryEntry{*entry}, occ.StatusHistory...)
		if s.notifier != nil {
			s.notifier.Dispatch(occ.ID)
		}
		s.logger.Info("occurrence status changed",
			zap.String("id", occ.ID),
			zap.String("protocol", occ.Protocol),
			zap.String("status", string(occ.Status)),
		)
	}
	return occ, nil
}

// Remove hard-deletes an occurrence and its dependents.
func (s *Service) Remove(ctx context.Context, id, condominiumID string) error {
	err := s.store.DeleteOccurrence(ctx, id, condominiumID)
	if errors.Is(err, store.ErrNotFound) {
		return err
	}
	if err != nil {
		return &StoreError{Op: "remove occurrence", Err: err}
	}
	s.logger.Info("occurrence removed",
		zap.String("id", id),
		zap.String("condominium_id", condominiumID),
	)
	return nil
}

// StatusCounts breaks the total down by lifecycle state. Cancelled is
// derived from the other counts so the four numbers always sum to total.
type StatusCounts struct {
	Open       int64 `json:"open"`
	InProgress int64 `json:"inProgress"`
	Resolved   int64 `json:"resolved"`
	Cancelled  int64 `json:"cancelled"`
}

// Statistics is the aggregate payload for the dashboard.
type Statistics struct {
	Total      int64              `json:"total"`
	ByStatus   StatusCounts       `json:"byStatus"`
	ByType     []store.GroupCount `json:"byType"`
	ByPriority []store.GroupCount `json:"byPriority"`
	Recent     []model.Occurrence `json:"recentOccurrences"`
}

// Statistics aggregates the condominium's occurrences.
func (s *Service) Statistics(ctx context.Context, condominiumID string) (*Statistics, error) {
	stats, err := s.store.AggregateStats(ctx, condominiumID)
	if err != nil {
		return nil, &StoreError{Op: "aggregate statistics", Err: err}
	}

	return &Statistics{
		Total: stats.Total,
		ByStatus: StatusCounts{
			Open:       stats.Open,
			InProgress: stats.InProgress,
			Resolved:   stats.Resolved,
			Cancelled:  stats.Total - stats.Open - stats.InProgress - stats.Resolved,
		},
		ByType:     stats.ByType,
		ByPriority: stats.ByPriority,
		Recent:     stats.Recent,
	}, nil
}
