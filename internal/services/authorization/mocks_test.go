package authorization

import (
	"context"
	"fmt"
	"sync"

	"github.com/hayasaka/monban/internal/entities"
	"github.com/hayasaka/monban/internal/repositories"
)

// mockHolderRepository is an in-memory HolderRepository for tests
type mockHolderRepository struct {
	holders map[string]entities.Holder
	getErr  error
}

func newMockHolderRepository(holders ...entities.Holder) *mockHolderRepository {
	m := &mockHolderRepository{holders: make(map[string]entities.Holder)}
	for _, h := range holders {
		m.holders[holderKey(h.GetType(), h.GetID())] = h
	}
	return m
}

func holderKey(t entities.HolderType, id string) string {
	return string(t) + "/" + id
}

func (m *mockHolderRepository) Get(_ context.Context, id string, holderType entities.HolderType) (entities.Holder, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.holders[holderKey(holderType, id)], nil
}

func (m *mockHolderRepository) GetMany(_ context.Context, ids []string, holderType entities.HolderType) ([]entities.Holder, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	var out []entities.Holder
	for _, id := range ids {
		if h, ok := m.holders[holderKey(holderType, id)]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockHolderRepository) Replace(_ context.Context, holder entities.Holder) error {
	key := holderKey(holder.GetType(), holder.GetID())
	if _, ok := m.holders[key]; !ok {
		return fmt.Errorf("holder %s: %w", key, repositories.ErrVersionConflict)
	}
	holder.SetVersion(holder.GetVersion() + 1)
	m.holders[key] = holder
	return nil
}

// mockResourcePermissionRepository is an in-memory ResourcePermissionRepository.
// GetByID is called concurrently by the validator, so access is guarded.
type mockResourcePermissionRepository struct {
	mu       sync.Mutex
	perms    map[string]*entities.ResourcePermission
	getCalls int
	getErrID string // GetByID fails for this ID
}

func newMockResourcePermissionRepository(perms ...*entities.ResourcePermission) *mockResourcePermissionRepository {
	m := &mockResourcePermissionRepository{perms: make(map[string]*entities.ResourcePermission)}
	for _, p := range perms {
		m.perms[p.ID] = p
	}
	return m
}

func (m *mockResourcePermissionRepository) Create(_ context.Context, perm *entities.ResourcePermission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.perms[perm.ID] = perm
	return nil
}

func (m *mockResourcePermissionRepository) GetByID(_ context.Context, id string) (*entities.ResourcePermission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if id == m.getErrID {
		return nil, fmt.Errorf("store unavailable")
	}
	return m.perms[id], nil
}

func (m *mockResourcePermissionRepository) List(_ context.Context, filter *repositories.PermissionFilter) ([]*entities.ResourcePermission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.ResourcePermission
	for _, id := range filter.IDs {
		p, ok := m.perms[id]
		if !ok {
			continue
		}
		if filter.PermissionType != "" && p.PermissionType != filter.PermissionType {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockResourcePermissionRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.perms, id)
	return nil
}

// mockUiPermissionRepository is an in-memory UiPermissionRepository
type mockUiPermissionRepository struct {
	perms map[string]*entities.UiPermission
}

func newMockUiPermissionRepository(perms ...*entities.UiPermission) *mockUiPermissionRepository {
	m := &mockUiPermissionRepository{perms: make(map[string]*entities.UiPermission)}
	for _, p := range perms {
		m.perms[p.ID] = p
	}
	return m
}

func (m *mockUiPermissionRepository) Create(_ context.Context, perm *entities.UiPermission) error {
	m.perms[perm.ID] = perm
	return nil
}

func (m *mockUiPermissionRepository) GetByID(_ context.Context, id string) (*entities.UiPermission, error) {
	return m.perms[id], nil
}

func (m *mockUiPermissionRepository) List(_ context.Context, filter *repositories.PermissionFilter) ([]*entities.UiPermission, error) {
	var out []*entities.UiPermission
	for _, id := range filter.IDs {
		p, ok := m.perms[id]
		if !ok {
			continue
		}
		if filter.PermissionType != "" && p.PermissionType != filter.PermissionType {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *mockUiPermissionRepository) Delete(_ context.Context, id string) error {
	delete(m.perms, id)
	return nil
}
