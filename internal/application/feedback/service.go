package feedback

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	appHistory "github.com/smartstore/backend/internal/application/history"
	"github.com/smartstore/backend/internal/domain/catalog"
	"github.com/smartstore/backend/internal/domain/feedback"
	"github.com/smartstore/backend/internal/domain/history"
)

// SubmitRequest represents a new feedback or enquiry
type SubmitRequest struct {
	Kind      string     `json:"kind" binding:"required,oneof=feedback enquiry"`
	Subject   string     `json:"subject" binding:"required,min=1,max=200"`
	Message   string     `json:"message" binding:"required,min=1"`
	ProductID *uuid.UUID `json:"product_id"`
}

// ReplyRequest represents an admin reply
type ReplyRequest struct {
	Reply string `json:"reply" binding:"required,min=1"`
}

// Response represents a feedback record in API responses
type Response struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	UserName    string     `json:"user_name"`
	Kind        string     `json:"kind"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	ProductID   *uuid.UUID `json:"product_id,omitempty"`
	ProductName string     `json:"product_name,omitempty"`
	Reply       string     `json:"reply,omitempty"`
	Status      string     `json:"status"`
	RepliedAt   *time.Time `json:"replied_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Service handles feedback submission and the admin reply workflow
type Service struct {
	feedback feedback.Repository
	products catalog.ProductRepository
	recorder *appHistory.Recorder
}

// NewService creates a feedback service
func NewService(repo feedback.Repository, products catalog.ProductRepository, recorder *appHistory.Recorder) *Service {
	return &Service{feedback: repo, products: products, recorder: recorder}
}

// Submit records a new feedback or enquiry from a customer
func (s *Service) Submit(ctx context.Context, actor appHistory.Actor, req SubmitRequest) (*Response, error) {
	record, err := feedback.New(actor.ID, actor.Name, feedback.Kind(req.Kind), req.Subject, req.Message)
	if err != nil {
		return nil, err
	}
	if req.ProductID != nil {
		product, err := s.products.FindByID(ctx, *req.ProductID)
		if err != nil {
			return nil, err
		}
		record.AttachProduct(product.ID, product.Name)
	}
	if err := s.feedback.Save(ctx, record); err != nil {
		return nil, err
	}

	s.recorder.Record(ctx, actor, "Feedback submitted",
		fmt.Sprintf("Submitted %s: %s", record.Kind, record.Subject), history.TypeFeedback)

	resp := toResponse(record)
	return &resp, nil
}

// Reply records the admin reply on a pending record
func (s *Service) Reply(ctx context.Context, actor appHistory.Actor, id uuid.UUID, req ReplyRequest) (*Response, error) {
	record, err := s.feedback.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := record.ReplyTo(req.Reply); err != nil {
		return nil, err
	}
	if err := s.feedback.Save(ctx, record); err != nil {
		return nil, err
	}

	s.recorder.RecordAdminAction(ctx, actor, "Feedback replied",
		fmt.Sprintf("Replied to %s from %s: %s", record.Kind, record.UserName, record.Subject))

	resp := toResponse(record)
	return &resp, nil
}

// ListForUser returns a customer's own feedback records
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]Response, error) {
	records, err := s.feedback.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(records), nil
}

// ListPending returns records awaiting an admin reply
func (s *Service) ListPending(ctx context.Context) ([]Response, error) {
	records, err := s.feedback.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(records), nil
}

func toResponse(f *feedback.Feedback) Response {
	return Response{
		ID:          f.ID,
		UserID:      f.UserID,
		UserName:    f.UserName,
		Kind:        string(f.Kind),
		Subject:     f.Subject,
		Message:     f.Message,
		ProductID:   f.ProductID,
		ProductName: f.ProductName,
		Reply:       f.Reply,
		Status:      string(f.Status),
		RepliedAt:   f.RepliedAt,
		CreatedAt:   f.CreatedAt,
	}
}

func toResponses(records []feedback.Feedback) []Response {
	out := make([]Response, 0, len(records))
	for i := range records {
		out = append(out, toResponse(&records[i]))
	}
	return out
}
