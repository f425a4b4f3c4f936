package history

import (
	"github.com/google/uuid"

	"github.com/smartstore/backend/internal/domain/shared"
)

// EntryType tags a history entry by the kind of activity it records
type EntryType string

const (
	TypePurchase    EntryType = "purchase"
	TypeAdminAction EntryType = "admin_action"
	TypeFeedback    EntryType = "feedback"
	TypePayment     EntryType = "payment"
)

// IsValid checks if the entry type is valid
func (t EntryType) IsValid() bool {
	switch t {
	case TypePurchase, TypeAdminAction, TypeFeedback, TypePayment:
		return true
	}
	return false
}

// Entry is one append-only history record. Entries are never mutated after
// creation; queries return them most-recent-first.
type Entry struct {
	shared.BaseEntity
	UserID   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserName string    `gorm:"type:varchar(100);not null"`
	Action   string    `gorm:"type:varchar(100);not null"`
	Details  string    `gorm:"type:text"`
	Type     EntryType `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (Entry) TableName() string {
	return "history_entries"
}

// NewEntry creates a history entry with generated id and timestamp
func NewEntry(userID uuid.UUID, userName, action, details string, entryType EntryType) (*Entry, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if action == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Action cannot be empty")
	}
	if !entryType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown history entry type")
	}

	return &Entry{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
		UserName:   userName,
		Action:     action,
		Details:    details,
		Type:       entryType,
	}, nil
}
