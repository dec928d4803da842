package lichess

import (
	"context"

	"github.com/replaylens/replaylens/internal/models"
)

// ClientInterface defines the interface for Lichess API operations.
// This interface enables testability by allowing mock implementations.
type ClientInterface interface {
	// FetchGame retrieves a full game record, falling back through the
	// extraction strategies when the canonical export is unavailable.
	FetchGame(ctx context.Context, gameID string) (models.GameRecord, error)

	// FetchAnnotatedPGN retrieves the PGN export with embedded [%eval]
	// annotations for the stats endpoints.
	FetchAnnotatedPGN(ctx context.Context, gameID string) (string, error)

	// FetchCloudEval retrieves the cloud engine evaluation for a position.
	FetchCloudEval(ctx context.Context, fen string, depth int) (models.CloudEval, error)
}

// Ensure both implementations satisfy the interface
var (
	_ ClientInterface = (*Client)(nil)
	_ ClientInterface = (*CachingClient)(nil)
)
