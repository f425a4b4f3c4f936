package history

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/smartstore/backend/internal/domain/history"
)

// EntryResponse represents an activity entry in API responses
type EntryResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Service answers activity log queries. Entries come back most recent
// first; the store owns that ordering.
type Service struct {
	repo history.Repository
}

// NewService creates a history query service
func NewService(repo history.Repository) *Service {
	return &Service{repo: repo}
}

// List returns the full activity log
func (s *Service) List(ctx context.Context) ([]EntryResponse, error) {
	entries, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(entries), nil
}

// ListForUser returns one user's activity
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]EntryResponse, error) {
	entries, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(entries), nil
}

func toResponses(entries []history.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryResponse{
			ID:        e.ID,
			UserID:    e.UserID,
			UserName:  e.UserName,
			Action:    e.Action,
			Details:   e.Details,
			Type:      string(e.Type),
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
