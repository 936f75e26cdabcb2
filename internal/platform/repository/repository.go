package repository

import (
	"context"

	"b2y-backend/internal/platform/domain"
)

// CredentialStore persists per-user platform connection records.
//
// UpsertPlatform is a merge at the platform-field level: it never disturbs
// other platforms' sub-records or unrelated user fields, it creates the
// parent record when missing, and repeating it with identical input is a
// no-op. DeletePlatform is a no-op when the sub-record is absent.
// Store failures surface as *domain.StorageError; nothing is retried here.
type CredentialStore interface {
	// Get returns the user's record, or (nil, nil) when none exists yet.
	Get(ctx context.Context, userID string) (*domain.ConnectionRecord, error)

	UpsertPlatform(ctx context.Context, userID string, platform domain.Platform, conn domain.PlatformConnection) error

	DeletePlatform(ctx context.Context, userID string, platform domain.Platform) error

	// ListConnections reports presence only, never token material. It is the
	// basis of the client-facing status endpoint.
	ListConnections(ctx context.Context, userID string) (domain.StatusMap, error)
}
