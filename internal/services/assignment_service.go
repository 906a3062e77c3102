package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/hayasaka/monban/internal/entities"
	"github.com/hayasaka/monban/internal/repositories"
)

// replaceRetries bounds the read-modify-write retry loop on holder updates.
const replaceRetries = 3

// AssignmentServiceInterface defines the interface for holder permission mutation
type AssignmentServiceInterface interface {
	AddResourcePermissions(ctx context.Context, holderID string, holderType entities.HolderType, perms []*entities.ResourcePermission) ([]string, error)
	AddUiPermissions(ctx context.Context, holderID string, holderType entities.HolderType, perms []*entities.UiPermission) ([]string, error)
	RemovePermission(ctx context.Context, holderID string, holderType entities.HolderType, kind entities.PermissionKind, permissionID string) error
}

// AssignmentService attaches permission sets to holders and detaches them.
//
// Batch adds follow a compensating-transaction pattern: all records are
// created first, and only a fully successful batch is attached to the
// holder. On any creation failure the created subset is deleted best-effort
// and the holder stays untouched. Records can be transiently visible
// between creation and rollback; readers must tolerate orphans.
type AssignmentService struct {
	holderRepo  repositories.HolderRepository
	permissions PermissionServiceInterface
	logger      zerolog.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(
	holderRepo repositories.HolderRepository,
	permissions PermissionServiceInterface,
	logger zerolog.Logger,
) *AssignmentService {
	return &AssignmentService{
		holderRepo:  holderRepo,
		permissions: permissions,
		logger:      logger,
	}
}

// AddResourcePermissions creates the given resource permission records and
// attaches their IDs to the holder's direct membership list. Returns the
// new IDs on full success.
func (s *AssignmentService) AddResourcePermissions(ctx context.Context, holderID string, holderType entities.HolderType, perms []*entities.ResourcePermission) ([]string, error) {
	if err := s.requireHolder(ctx, holderID, holderType); err != nil {
		return nil, err
	}

	ids := make([]string, len(perms))
	g, gctx := errgroup.WithContext(ctx)
	for i, perm := range perms {
		i, perm := i, perm
		g.Go(func() error {
			id, err := s.permissions.CreateResourcePermission(gctx, perm)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.rollbackCreated(ctx, ids, entities.KindResource)
		return nil, fmt.Errorf("failed to create resource permissions: %w", err)
	}

	if err := s.attach(ctx, holderID, holderType, entities.KindResource, ids); err != nil {
		s.rollbackCreated(ctx, ids, entities.KindResource)
		return nil, fmt.Errorf("failed to attach resource permissions to %s %s: %w", holderType, holderID, err)
	}
	return ids, nil
}

// AddUiPermissions mirrors AddResourcePermissions for UI permissions.
func (s *AssignmentService) AddUiPermissions(ctx context.Context, holderID string, holderType entities.HolderType, perms []*entities.UiPermission) ([]string, error) {
	if err := s.requireHolder(ctx, holderID, holderType); err != nil {
		return nil, err
	}

	ids := make([]string, len(perms))
	g, gctx := errgroup.WithContext(ctx)
	for i, perm := range perms {
		i, perm := i, perm
		g.Go(func() error {
			id, err := s.permissions.CreateUiPermission(gctx, perm)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.rollbackCreated(ctx, ids, entities.KindUI)
		return nil, fmt.Errorf("failed to create ui permissions: %w", err)
	}

	if err := s.attach(ctx, holderID, holderType, entities.KindUI, ids); err != nil {
		s.rollbackCreated(ctx, ids, entities.KindUI)
		return nil, fmt.Errorf("failed to attach ui permissions to %s %s: %w", holderType, holderID, err)
	}
	return ids, nil
}

// RemovePermission pulls one permission ID from the holder's direct
// membership list. The underlying record stays: other holders may still
// reference it. Removing an ID that is not present is a no-op success.
func (s *AssignmentService) RemovePermission(ctx context.Context, holderID string, holderType entities.HolderType, kind entities.PermissionKind, permissionID string) error {
	for attempt := 0; attempt < replaceRetries; attempt++ {
		holder, err := s.getHolder(ctx, holderID, holderType)
		if err != nil {
			return err
		}

		current := holder.DirectPermissionIDs(kind)
		next := make([]string, 0, len(current))
		for _, id := range current {
			if id != permissionID {
				next = append(next, id)
			}
		}
		if len(next) == len(current) {
			return nil
		}

		holder.SetDirectPermissionIDs(kind, next)
		err = s.holderRepo.Replace(ctx, holder)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return fmt.Errorf("failed to update %s %s: %w", holderType, holderID, err)
		}
		// Lost the race against a concurrent writer; reload and retry.
	}
	return fmt.Errorf("failed to update %s %s: gave up after %d version conflicts", holderType, holderID, replaceRetries)
}

// attach appends the IDs to the holder's direct list under optimistic
// concurrency, retrying a bounded number of times on version conflicts.
func (s *AssignmentService) attach(ctx context.Context, holderID string, holderType entities.HolderType, kind entities.PermissionKind, ids []string) error {
	for attempt := 0; attempt < replaceRetries; attempt++ {
		holder, err := s.getHolder(ctx, holderID, holderType)
		if err != nil {
			return err
		}

		current := holder.DirectPermissionIDs(kind)
		merged := make([]string, 0, len(current)+len(ids))
		merged = append(merged, current...)
		merged = append(merged, ids...)
		holder.SetDirectPermissionIDs(kind, merged)

		err = s.holderRepo.Replace(ctx, holder)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrVersionConflict) {
			return err
		}
	}
	return fmt.Errorf("gave up after %d version conflicts", replaceRetries)
}

// rollbackCreated deletes the records that did get created before a batch
// failure. Deletes are best-effort; the primary error wins.
func (s *AssignmentService) rollbackCreated(ctx context.Context, ids []string, kind entities.PermissionKind) {
	for _, id := range ids {
		if id == "" {
			continue
		}
		s.logger.Info().Str("permission_id", id).Msg("rolling back created permission")
		if kind == entities.KindUI {
			s.permissions.DeleteUiPermission(ctx, id)
			continue
		}
		s.permissions.DeleteResourcePermission(ctx, id)
	}
}

func (s *AssignmentService) requireHolder(ctx context.Context, holderID string, holderType entities.HolderType) error {
	_, err := s.getHolder(ctx, holderID, holderType)
	return err
}

func (s *AssignmentService) getHolder(ctx context.Context, holderID string, holderType entities.HolderType) (entities.Holder, error) {
	holder, err := s.holderRepo.Get(ctx, holderID, holderType)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", holderType, holderID, err)
	}
	if holder == nil {
		return nil, fmt.Errorf("%s %s: %w", holderType, holderID, repositories.ErrHolderNotFound)
	}
	return holder, nil
}
