package history

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/smartstore/backend/internal/domain/history"
)

// Actor identifies the user an activity entry is attributed to
type Actor struct {
	ID   uuid.UUID
	Name string
}

// Recorder appends activity entries on behalf of other services. Appends
// are best-effort: a failed append is logged and never propagated, so
// bookkeeping cannot fail the operation it describes.
type Recorder struct {
	repo   history.Repository
	logger *zap.Logger
}

// NewRecorder creates an activity recorder
func NewRecorder(repo history.Repository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{repo: repo, logger: logger}
}

// Record appends one activity entry
func (r *Recorder) Record(ctx context.Context, actor Actor, action, details string, entryType history.EntryType) {
	entry, err := history.NewEntry(actor.ID, actor.Name, action, details, entryType)
	if err == nil {
		err = r.repo.Append(ctx, entry)
	}
	if err != nil {
		r.logger.Error("activity append failed",
			zap.String("action", action),
			zap.String("actor", actor.Name),
			zap.Error(err))
	}
}

// RecordAdminAction appends an admin_action entry
func (r *Recorder) RecordAdminAction(ctx context.Context, actor Actor, action, details string) {
	r.Record(ctx, actor, action, details, history.TypeAdminAction)
}
