package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hayasaka/monban/internal/entities"
	"github.com/hayasaka/monban/internal/repositories"
)

// PermissionServiceInterface defines the interface for permission record management
type PermissionServiceInterface interface {
	CreateResourcePermission(ctx context.Context, perm *entities.ResourcePermission) (string, error)
	CreateUiPermission(ctx context.Context, perm *entities.UiPermission) (string, error)
	DeleteResourcePermission(ctx context.Context, id string)
	DeleteUiPermission(ctx context.Context, id string)
	ListResourcePermissions(ctx context.Context, ids []string) ([]*entities.ResourcePermission, error)
	ListUiPermissions(ctx context.Context, ids []string) ([]*entities.UiPermission, error)
}

// PermissionService owns the policy of how permission records are created:
// URL and method canonicalization, identity minting, and generated UI codes.
// It deliberately performs no dedup — every create call mints a new record.
type PermissionService struct {
	resourceRepo repositories.ResourcePermissionRepository
	uiRepo       repositories.UiPermissionRepository
	logger       zerolog.Logger
}

// NewPermissionService creates a new PermissionService
func NewPermissionService(
	resourceRepo repositories.ResourcePermissionRepository,
	uiRepo repositories.UiPermissionRepository,
	logger zerolog.Logger,
) *PermissionService {
	return &PermissionService{
		resourceRepo: resourceRepo,
		uiRepo:       uiRepo,
		logger:       logger,
	}
}

// CreateResourcePermission normalizes the URL and method to their canonical
// upper-case forms, mints an identity, and persists the record.
func (s *PermissionService) CreateResourcePermission(ctx context.Context, perm *entities.ResourcePermission) (string, error) {
	if err := perm.Validate(); err != nil {
		return "", fmt.Errorf("invalid resource permission: %w", err)
	}

	if perm.ID == "" {
		perm.ID = uuid.NewString()
	}
	perm.NormalizedURL = strings.ToUpper(perm.URL)
	perm.NormalizedMethod = strings.ToUpper(perm.Method)
	now := time.Now().UTC()
	perm.DateCreated = now
	perm.DateUpdated = now

	if err := s.resourceRepo.Create(ctx, perm); err != nil {
		return "", fmt.Errorf("failed to persist resource permission: %w", err)
	}
	return perm.ID, nil
}

// CreateUiPermission persists a UI permission, generating an opaque code
// when the caller does not supply one.
func (s *PermissionService) CreateUiPermission(ctx context.Context, perm *entities.UiPermission) (string, error) {
	if err := perm.Validate(); err != nil {
		return "", fmt.Errorf("invalid ui permission: %w", err)
	}

	if perm.ID == "" {
		perm.ID = uuid.NewString()
	}
	if perm.Code == "" {
		perm.Code = uuid.NewString()
	}
	now := time.Now().UTC()
	perm.DateCreated = now
	perm.DateUpdated = now

	if err := s.uiRepo.Create(ctx, perm); err != nil {
		return "", fmt.Errorf("failed to persist ui permission: %w", err)
	}
	return perm.ID, nil
}

// DeleteResourcePermission removes a record best-effort. It is used on
// rollback paths where a delete failure must not mask the primary error, so
// failures are logged and swallowed.
func (s *PermissionService) DeleteResourcePermission(ctx context.Context, id string) {
	if err := s.resourceRepo.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("permission_id", id).Msg("resource permission delete failed")
	}
}

// DeleteUiPermission removes a record best-effort; failures are logged and
// swallowed.
func (s *PermissionService) DeleteUiPermission(ctx context.Context, id string) {
	if err := s.uiRepo.Delete(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("permission_id", id).Msg("ui permission delete failed")
	}
}

// ListResourcePermissions batch-fetches records by ID. Unresolvable IDs are
// absent from the result, not an error.
func (s *PermissionService) ListResourcePermissions(ctx context.Context, ids []string) ([]*entities.ResourcePermission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	perms, err := s.resourceRepo.List(ctx, &repositories.PermissionFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to list resource permissions: %w", err)
	}
	return perms, nil
}

// ListUiPermissions batch-fetches records by ID. Unresolvable IDs are
// absent from the result, not an error.
func (s *PermissionService) ListUiPermissions(ctx context.Context, ids []string) ([]*entities.UiPermission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	perms, err := s.uiRepo.List(ctx, &repositories.PermissionFilter{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("failed to list ui permissions: %w", err)
	}
	return perms, nil
}
