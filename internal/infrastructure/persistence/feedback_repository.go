package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartstore/backend/internal/domain/feedback"
	"github.com/smartstore/backend/internal/domain/shared"
)

// GormFeedbackRepository implements feedback.Repository using GORM
type GormFeedbackRepository struct {
	db *gorm.DB
}

// NewGormFeedbackRepository creates a new GormFeedbackRepository
func NewGormFeedbackRepository(db *gorm.DB) *GormFeedbackRepository {
	return &GormFeedbackRepository{db: db}
}

// FindByID finds a feedback record by ID
func (r *GormFeedbackRepository) FindByID(ctx context.Context, id uuid.UUID) (*feedback.Feedback, error) {
	var record feedback.Feedback
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAll finds all feedback records matching the filter
func (r *GormFeedbackRepository) FindAll(ctx context.Context, filter shared.Filter) ([]feedback.Feedback, error) {
	var records []feedback.Feedback
	query := r.db.WithContext(ctx).Model(&feedback.Feedback{})
	if err := applyFilter(query, filter).Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByUser finds a user's feedback records, most recent first
func (r *GormFeedbackRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]feedback.Feedback, error) {
	var records []feedback.Feedback
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindPending finds records awaiting an admin reply, oldest first
func (r *GormFeedbackRepository) FindPending(ctx context.Context) ([]feedback.Feedback, error) {
	var records []feedback.Feedback
	if err := r.db.WithContext(ctx).
		Where("status = ?", feedback.StatusPending).
		Order("created_at ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save inserts or updates a feedback record
func (r *GormFeedbackRepository) Save(ctx context.Context, record *feedback.Feedback) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// Delete removes a feedback record
func (r *GormFeedbackRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&feedback.Feedback{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts feedback records matching the filter
func (r *GormFeedbackRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&feedback.Feedback{})
	if err := applyCountFilter(query, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
