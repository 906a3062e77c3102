package repositories

import (
	"context"

	"github.com/hayasaka/monban/internal/entities"
)

// PermissionFilter defines filter criteria for querying permission records
type PermissionFilter struct {
	IDs            []string                // Filter by ID set (required; an empty set matches nothing)
	PermissionType entities.PermissionType // Filter by permission type (optional, empty = any)
}

// ResourcePermissionRepository defines the interface for resource permission data access
type ResourcePermissionRepository interface {
	// Create persists a new resource permission record
	Create(ctx context.Context, perm *entities.ResourcePermission) error

	// GetByID retrieves a single record by ID.
	// Returns nil without error when the ID does not resolve.
	GetByID(ctx context.Context, id string) (*entities.ResourcePermission, error)

	// List retrieves records matching the filter.
	// Unresolvable IDs are simply absent from the result.
	List(ctx context.Context, filter *PermissionFilter) ([]*entities.ResourcePermission, error)

	// Delete removes a record by ID. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error
}

// UiPermissionRepository defines the interface for UI permission data access
type UiPermissionRepository interface {
	// Create persists a new UI permission record
	Create(ctx context.Context, perm *entities.UiPermission) error

	// GetByID retrieves a single record by ID.
	// Returns nil without error when the ID does not resolve.
	GetByID(ctx context.Context, id string) (*entities.UiPermission, error)

	// List retrieves records matching the filter.
	// Unresolvable IDs are simply absent from the result.
	List(ctx context.Context, filter *PermissionFilter) ([]*entities.UiPermission, error)

	// Delete removes a record by ID. Deleting a missing ID is not an error.
	Delete(ctx context.Context, id string) error
}
