package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartstore/backend/internal/domain/history"
)

// historyQueryLimit caps activity log reads; the log is append-only and
// unbounded.
const historyQueryLimit = 500

// GormHistoryRepository implements history.Repository using GORM.
// The table is append-only; there are no update or delete paths.
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GormHistoryRepository
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Append inserts one activity entry
func (r *GormHistoryRepository) Append(ctx context.Context, entry *history.Entry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindAll returns activity entries, most recent first
func (r *GormHistoryRepository) FindAll(ctx context.Context) ([]history.Entry, error) {
	var entries []history.Entry
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(historyQueryLimit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByUser returns one user's activity, most recent first
func (r *GormHistoryRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]history.Entry, error) {
	var entries []history.Entry
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(historyQueryLimit).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
