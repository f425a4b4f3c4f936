package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartstore/backend/internal/domain/cart"
)

// CartEntryModel is the relational row backing one cart line
type CartEntryModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:1"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_user_product,priority:2"`
	Quantity  int       `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (CartEntryModel) TableName() string {
	return "cart_entries"
}

// GormCartRepository implements cart.Repository using GORM. ReplaceCart
// swaps the user's entry set inside a transaction so readers never see a
// half-written cart.
type GormCartRepository struct {
	db *gorm.DB
}

// NewGormCartRepository creates a new GormCartRepository
func NewGormCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// GetCart returns a user's cart entries
func (r *GormCartRepository) GetCart(ctx context.Context, userID uuid.UUID) ([]cart.Entry, error) {
	var rows []CartEntryModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]cart.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, cart.Entry{ProductID: row.ProductID, Quantity: row.Quantity})
	}
	return entries, nil
}

// ReplaceCart replaces the user's entry set wholesale
func (r *GormCartRepository) ReplaceCart(ctx context.Context, userID uuid.UUID, entries []cart.Entry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&CartEntryModel{}).Error; err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		rows := make([]CartEntryModel, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, CartEntryModel{
				ID:        uuid.New(),
				UserID:    userID,
				ProductID: e.ProductID,
				Quantity:  e.Quantity,
			})
		}
		return tx.Create(&rows).Error
	})
}

// ClearCart removes all of a user's entries
func (r *GormCartRepository) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&CartEntryModel{}).Error
}
