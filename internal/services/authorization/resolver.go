package authorization

import (
	"context"
	"fmt"

	"github.com/hayasaka/monban/internal/entities"
	"github.com/hayasaka/monban/internal/repositories"
)

// ResolverInterface defines the interface for permission closure resolution
type ResolverInterface interface {
	ResolveResourcePermissions(ctx context.Context, holderID string, holderType entities.HolderType) ([]*entities.ResourcePermission, error)
	ResolveUiPermissions(ctx context.Context, holderID string, holderType entities.HolderType) ([]*entities.UiPermission, error)
}

// Resolver computes the closure of permissions applicable to a holder: its
// own direct assignments plus permissions inherited through group and role
// memberships. The closure serves display ("what should this user see"),
// not call-time authorization — the Validator deliberately checks direct
// grants only.
type Resolver struct {
	holderRepo   repositories.HolderRepository
	resourceRepo repositories.ResourcePermissionRepository
	uiRepo       repositories.UiPermissionRepository
}

// NewResolver creates a new Resolver
func NewResolver(
	holderRepo repositories.HolderRepository,
	resourceRepo repositories.ResourcePermissionRepository,
	uiRepo repositories.UiPermissionRepository,
) *Resolver {
	return &Resolver{
		holderRepo:   holderRepo,
		resourceRepo: resourceRepo,
		uiRepo:       uiRepo,
	}
}

// ResolveResourcePermissions returns the resolved resource permission set
// for a holder. Direct assignments keep any permission type; inherited hops
// contribute Allow-typed permissions only. The result is deduplicated by ID
// with the first occurrence winning, in append order: own, groups, roles,
// roles' groups.
func (r *Resolver) ResolveResourcePermissions(ctx context.Context, holderID string, holderType entities.HolderType) ([]*entities.ResourcePermission, error) {
	stages, err := r.membershipStages(ctx, holderID, holderType, entities.KindResource)
	if err != nil {
		return nil, err
	}

	var resolved []*entities.ResourcePermission
	seen := make(map[string]struct{})
	for i, stage := range stages {
		if len(stage) == 0 {
			continue
		}
		filter := &repositories.PermissionFilter{IDs: stage}
		if i > 0 {
			// Inherited permissions must carry Allow to propagate.
			filter.PermissionType = entities.PermissionAllow
		}
		perms, err := r.resourceRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list resource permissions: %w", err)
		}
		for _, perm := range perms {
			if _, ok := seen[perm.ID]; ok {
				continue
			}
			seen[perm.ID] = struct{}{}
			resolved = append(resolved, perm)
		}
	}
	return resolved, nil
}

// ResolveUiPermissions mirrors ResolveResourcePermissions for UI permissions.
func (r *Resolver) ResolveUiPermissions(ctx context.Context, holderID string, holderType entities.HolderType) ([]*entities.UiPermission, error) {
	stages, err := r.membershipStages(ctx, holderID, holderType, entities.KindUI)
	if err != nil {
		return nil, err
	}

	var resolved []*entities.UiPermission
	seen := make(map[string]struct{})
	for i, stage := range stages {
		if len(stage) == 0 {
			continue
		}
		filter := &repositories.PermissionFilter{IDs: stage}
		if i > 0 {
			filter.PermissionType = entities.PermissionAllow
		}
		perms, err := r.uiRepo.List(ctx, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to list ui permissions: %w", err)
		}
		for _, perm := range perms {
			if _, ok := seen[perm.ID]; ok {
				continue
			}
			seen[perm.ID] = struct{}{}
			resolved = append(resolved, perm)
		}
	}
	return resolved, nil
}

// membershipStages collects direct permission IDs per inheritance stage:
// the holder's own list, then its groups', then its roles', then the groups
// of those roles (the two-hop user→role→group path). Stages past the first
// are the inherited ones; only the first may contribute Deny records.
// Dangling membership references are tolerated: a missing holder simply
// contributes nothing.
func (r *Resolver) membershipStages(ctx context.Context, holderID string, holderType entities.HolderType, kind entities.PermissionKind) ([][]string, error) {
	holder, err := r.holderRepo.Get(ctx, holderID, holderType)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %s: %w", holderType, holderID, err)
	}
	if holder == nil {
		return nil, fmt.Errorf("%s %s: %w", holderType, holderID, repositories.ErrHolderNotFound)
	}

	own := holder.DirectPermissionIDs(kind)

	var groupStage []string
	if ids := holder.MembershipIDs(entities.HolderGroup); len(ids) > 0 {
		groupStage, err = r.unionDirectIDs(ctx, ids, entities.HolderGroup, kind)
		if err != nil {
			return nil, err
		}
	}

	var roleStage, roleGroupStage []string
	if ids := holder.MembershipIDs(entities.HolderRole); len(ids) > 0 {
		roles, err := r.holderRepo.GetMany(ctx, ids, entities.HolderRole)
		if err != nil {
			return nil, fmt.Errorf("failed to get roles: %w", err)
		}
		var roleGroupIDs []string
		for _, role := range roles {
			roleStage = append(roleStage, role.DirectPermissionIDs(kind)...)
			roleGroupIDs = append(roleGroupIDs, role.MembershipIDs(entities.HolderGroup)...)
		}
		if len(roleGroupIDs) > 0 {
			roleGroupStage, err = r.unionDirectIDs(ctx, roleGroupIDs, entities.HolderGroup, kind)
			if err != nil {
				return nil, err
			}
		}
	}

	return [][]string{own, groupStage, roleStage, roleGroupStage}, nil
}

// unionDirectIDs fetches holders of one type and unions their direct
// permission ID lists.
func (r *Resolver) unionDirectIDs(ctx context.Context, ids []string, holderType entities.HolderType, kind entities.PermissionKind) ([]string, error) {
	holders, err := r.holderRepo.GetMany(ctx, ids, holderType)
	if err != nil {
		return nil, fmt.Errorf("failed to get %ss: %w", holderType, err)
	}
	var union []string
	for _, h := range holders {
		union = append(union, h.DirectPermissionIDs(kind)...)
	}
	return union, nil
}
