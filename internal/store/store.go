package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sindico-backend/internal/model"
	"sindico-backend/internal/protocol"
)

// Store defines the interface for all database operations of the ledger.
type Store interface {
	DB() *gorm.DB
	CreateOccurrence(ctx context.Context, occ *model.Occurrence, historyComment string) error
	GetOccurrence(ctx context.Context, id, condominiumID string) (*model.Occurrence, error)
	ListOccurrences(ctx context.Context, condominiumID string, f Filter, page, limit int) ([]model.Occurrence, int64, error)
	UpdateOccurrence(ctx context.Context, occ *model.Occurrence, entry *model.StatusHistoryEntry) error
	DeleteOccurrence(ctx context.Context, id, condominiumID string) error
	AppendHistory(ctx context.Context, entry *model.StatusHistoryEntry) error
	AggregateStats(ctx context.Context, condominiumID string) (*Stats, error)
	UserExists(ctx context.Context, id string) (bool, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db          *gorm.DB
	maxAttempts int

	// seams for tests
	now          func() time.Time
	nextProtocol func(tx *gorm.DB, day time.Time) (string, error)
}

// NewGormStore creates a new GORM-backed store. maxProtocolAttempts bounds
// how often protocol allocation is retried after a uniqueness conflict.
func NewGormStore(db *gorm.DB, maxProtocolAttempts int) Store {
	if maxProtocolAttempts < 1 {
		maxProtocolAttempts = 1
	}
	s := &gormStore{
		db:          db,
		maxAttempts: maxProtocolAttempts,
		now:         time.Now,
	}
	s.nextProtocol = s.deriveProtocol
	return s
}

// DB exposes the underlying connection for collaborators that run their own
// queries (subscription handlers, notification workers).
func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// deriveProtocol computes the next protocol for the given day from the
// greatest protocol already stored under the day's prefix. Suffixes are
// zero-padded, so within one width lexicographic order equals numeric
// order; ordering by length first keeps suffixes that widened past 9999
// above the four-digit ones. No counter table exists; the sequence is
// derived from the data.
func (s *gormStore) deriveProtocol(tx *gorm.DB, day time.Time) (string, error) {
	prefix := protocol.Prefix(day)

	var lastIssued model.Occurrence
	err := tx.Select("protocol").
		Where("protocol LIKE ?", prefix+"-%").
		Order("LENGTH(protocol) DESC, protocol DESC").
		First(&lastIssued).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("failed to look up last protocol for %s: %w", prefix, err)
	}

	return protocol.Next(prefix, lastIssued.Protocol)
}

// CreateOccurrence allocates a protocol, inserts the occurrence and appends
// its initial history entry, all inside one transaction. The derived
// protocol can collide under concurrent creation; the unique index on
// protocol turns that race into gorm.ErrDuplicatedKey, which triggers a
// bounded re-derivation before ErrConflict is surfaced.
func (s *gormStore) CreateOccurrence(ctx context.Context, occ *model.Occurrence, historyComment string) error {
	var lastErr error
	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			next, err := s.nextProtocol(tx, s.now())
			if err != nil {
				return err
			}
			occ.Protocol = next

			if err := tx.Omit(clause.Associations).Create(occ).Error; err != nil {
				return err
			}

			entry := &model.StatusHistoryEntry{
				OccurrenceID: occ.ID,
				Status:       occ.Status,
				Comment:      historyComment,
				ChangedByID:  occ.CreatedByID,
				CreatedAt:    occ.CreatedAt,
			}
			return tx.Create(entry).Error
		})
		if err == nil {
			return nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			lastErr = err
			continue
		}
		return err
	}
	return fmt.Errorf("%w: gave up after %d attempts: %v", ErrConflict, s.maxAttempts, lastErr)
}

// GetOccurrence loads one occurrence with its history (newest first) and
// attachments, scoped to the condominium.
func (s *gormStore) GetOccurrence(ctx context.Context, id, condominiumID string) (*model.Occurrence, error) {
	var occ model.Occurrence
	err := s.db.WithContext(ctx).
		Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Attachments").
		Where("id = ? AND condominium_id = ?", id, condominiumID).
		First(&occ).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &occ, nil
}

// listQuery builds the conjunctive filter query for one condominium. The
// text search is a disjunctive LIKE group ANDed with the exact filters.
func (s *gormStore) listQuery(ctx context.Context, condominiumID string, f Filter) *gorm.DB {
	q := s.db.WithContext(ctx).
		Model(&model.Occurrence{}).
		Where("condominium_id = ?", condominiumID)

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.CreatedByID != "" {
		q = q.Where("created_by_id = ?", f.CreatedByID)
	}
	if f.AssignedToID != "" {
		q = q.Where("assigned_to_id = ?", f.AssignedToID)
	}
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(protocol) LIKE ?", term, term, term)
	}
	return q
}

// ListOccurrences returns one page ordered by creation time descending,
// plus the total match count for pagination metadata.
func (s *gormStore) ListOccurrences(ctx context.Context, condominiumID string, f Filter, page, limit int) ([]model.Occurrence, int64, error) {
	var total int64
	if err := s.listQuery(ctx, condominiumID, f).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count occurrences: %w", err)
	}

	var rows []model.Occurrence
	err := s.listQuery(ctx, condominiumID, f).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list occurrences: %w", err)
	}
	return rows, total, nil
}

// UpdateOccurrence persists the patched record and, when a status changed,
// its new history entry, as one atomic unit.
func (s *gormStore) UpdateOccurrence(ctx context.Context, occ *model.Occurrence, entry *model.StatusHistoryEntry) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(occ).Error; err != nil {
			return err
		}
		if entry != nil {
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteOccurrence hard-removes the record and everything hanging off it.
// The existence check runs inside the transaction so a cross-tenant id
// fails with ErrNotFound before anything is touched.
func (s *gormStore) DeleteOccurrence(ctx context.Context, id, condominiumID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var occ model.Occurrence
		err := tx.Select("id").
			Where("id = ? AND condominium_id = ?", id, condominiumID).
			First(&occ).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.Where("occurrence_id = ?", id).Delete(&model.StatusHistoryEntry{}).Error; err != nil {
			return fmt.Errorf("failed to delete status history for occurrence %s: %w", id, err)
		}
		if err := tx.Where("occurrence_id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
			return fmt.Errorf("failed to delete attachments for occurrence %s: %w", id, err)
		}
		if err := tx.Exec("DELETE FROM subscription_occurrence_mapping WHERE occurrence_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to unlink subscriptions for occurrence %s: %w", id, err)
		}
		return tx.Delete(&model.Occurrence{ID: id}).Error
	})
}

// AppendHistory inserts a history entry. Entries are append-only; nothing
// in the store ever updates or deletes one except a cascade delete of the
// owning occurrence.
func (s *gormStore) AppendHistory(ctx context.Context, entry *model.StatusHistoryEntry) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// AggregateStats computes the dashboard numbers for one condominium.
func (s *gormStore) AggregateStats(ctx context.Context, condominiumID string) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		status model.OccurrenceStatus
		dest   *int64
	}{
		{"", &stats.Total},
		{model.StatusOpen, &stats.Open},
		{model.StatusInProgress, &stats.InProgress},
		{model.StatusResolved, &stats.Resolved},
	}
	for _, c := range counts {
		q := s.db.WithContext(ctx).
			Model(&model.Occurrence{}).
			Where("condominium_id = ?", condominiumID)
		if c.status != "" {
			q = q.Where("status = ?", c.status)
		}
		if err := q.Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("failed to count occurrences: %w", err)
		}
	}

	if err := s.groupCount(ctx, condominiumID, "type", &stats.ByType); err != nil {
		return nil, err
	}
	if err := s.groupCount(ctx, condominiumID, "priority", &stats.ByPriority); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).
		Select("id", "protocol", "title", "status", "priority", "created_at").
		Where("condominium_id = ?", condominiumID).
		Order("created_at DESC").
		Limit(5).
		Find(&stats.Recent).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent occurrences: %w", err)
	}

	return stats, nil
}

func (s *gormStore) groupCount(ctx context.Context, condominiumID, column string, dest *[]GroupCount) error {
	err := s.db.WithContext(ctx).
		Model(&model.Occurrence{}).
		Select(column+" as key, COUNT(*) as count").
		Where("condominium_id = ?", condominiumID).
		Group(column).
		Order("count DESC").
		Scan(dest).Error
	if err != nil {
		return fmt.Errorf("failed to group occurrences by %s: %w", column, err)
	}
	return nil
}

// UserExists reports whether the given user id refers to a stored user.
func (s *gormStore) UserExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
