package feedback

import (
	"time"

	"github.com/google/uuid"

	"github.com/smartstore/backend/internal/domain/shared"
)

// Kind distinguishes feedback from enquiries
type Kind string

const (
	KindFeedback Kind = "feedback"
	KindEnquiry  Kind = "enquiry"
)

// IsValid checks if the kind is valid
func (k Kind) IsValid() bool {
	return k == KindFeedback || k == KindEnquiry
}

// Status is the reply workflow state
type Status string

const (
	StatusPending Status = "pending"
	StatusReplied Status = "replied"
)

// Feedback is a customer feedback or enquiry record, optionally tied to a
// product, with a single admin reply.
type Feedback struct {
	shared.BaseAggregateRoot
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserName    string     `gorm:"type:varchar(100);not null"`
	Kind        Kind       `gorm:"type:varchar(20);not null"`
	Subject     string     `gorm:"type:varchar(200);not null"`
	Message     string     `gorm:"type:text;not null"`
	ProductID   *uuid.UUID `gorm:"type:uuid"`
	ProductName string     `gorm:"type:varchar(200)"`
	Reply       string     `gorm:"type:text"`
	Status      Status     `gorm:"type:varchar(20);not null;default:'pending'"`
	RepliedAt   *time.Time
}

// TableName returns the table name for GORM
func (Feedback) TableName() string {
	return "feedback"
}

// New creates a new pending feedback record
func New(userID uuid.UUID, userName string, kind Kind, subject, message string) (*Feedback, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Feedback kind must be feedback or enquiry")
	}
	if subject == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject cannot be empty")
	}
	if message == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message cannot be empty")
	}

	return &Feedback{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		UserID:            userID,
		UserName:          userName,
		Kind:              kind,
		Subject:           subject,
		Message:           message,
		Status:            StatusPending,
	}, nil
}

// AttachProduct associates the feedback with a product snapshot
func (f *Feedback) AttachProduct(productID uuid.UUID, productName string) {
	f.ProductID = &productID
	f.ProductName = productName
	f.UpdatedAt = time.Now()
}

// ReplyTo records the admin reply and marks the record replied
func (f *Feedback) ReplyTo(reply string) error {
	if reply == "" {
		return shared.NewDomainError("INVALID_REPLY", "Reply cannot be empty")
	}
	if f.Status == StatusReplied {
		return shared.NewDomainError("INVALID_STATE", "Feedback has already been replied to")
	}

	now := time.Now()
	f.Reply = reply
	f.Status = StatusReplied
	f.RepliedAt = &now
	f.UpdatedAt = now

	return nil
}
