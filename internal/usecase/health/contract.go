package health

import (
	"context"

	"github.com/chromalens/chromalens-go/internal/repository/system"
)

// Pinger checks server liveness.
type Pinger interface {
	Heartbeat(ctx context.Context) (int64, error)
}

// LimitsReader fetches the server's pre-flight limits.
type LimitsReader interface {
	PreFlight(ctx context.Context) (system.Limits, error)
}
