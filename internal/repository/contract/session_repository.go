package contract

import (
	"context"

	"ai-studynotes-be/pkg/store"
)

// SessionRepository keeps the per-session pipeline cache. Implementations store copies:
// mutating a returned session has no effect until it is saved.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*store.Session, bool, error)
	Save(ctx context.Context, session *store.Session) error
	Delete(ctx context.Context, sessionID string) error
}
