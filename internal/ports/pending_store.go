package ports

import (
	"context"
	"garage-spot-service/internal/domain"
)

// What is kept of a drag session between requests: enough to rebuild it
// after a restart.
type SessionSnapshot struct {
	Garage     string                 `json:"garage"`
	Scale      float64                `json:"scale"`
	PanelWidth float64                `json:"panel_width"`
	Changes    []domain.PendingChange `json:"changes"`
}

// Port: storage for pending-change overlays keyed by session id.
type PendingStore interface {
	// Load returns the snapshot and false when the session is unknown.
	Load(ctx context.Context, sessionID string) (SessionSnapshot, bool, error)
	Save(ctx context.Context, sessionID string, snap SessionSnapshot) error
	Delete(ctx context.Context, sessionID string) error
}
