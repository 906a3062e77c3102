package repositories

import (
	"context"
	"errors"

	"github.com/hayasaka/monban/internal/entities"
)

// ErrHolderNotFound is returned by services when a referenced user, role, or
// group ID does not resolve to an existing record.
var ErrHolderNotFound = errors.New("holder not found")

// ErrVersionConflict is returned by Replace when the stored holder version
// differs from the version the holder was read at, meaning a concurrent
// writer got there first.
var ErrVersionConflict = errors.New("holder version conflict")

// HolderRepository defines the interface for holder (user/role/group) data access
type HolderRepository interface {
	// Get retrieves a holder by ID and type.
	// Returns nil without error when the ID does not resolve.
	Get(ctx context.Context, id string, holderType entities.HolderType) (entities.Holder, error)

	// GetMany retrieves holders of one type by ID set.
	// Missing IDs are simply absent from the result.
	GetMany(ctx context.Context, ids []string, holderType entities.HolderType) ([]entities.Holder, error)

	// Replace persists the full holder document, guarded by the version the
	// holder was read at. On success the holder's version is bumped.
	// Returns ErrVersionConflict when the stored version differs.
	Replace(ctx context.Context, holder entities.Holder) error
}
