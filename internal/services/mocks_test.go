package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/hayasaka/monban/internal/entities"
	"github.com/hayasaka/monban/internal/repositories"
)

// mockResourcePermissionRepository is an in-memory store whose Create can be
// told to fail for a named permission; batch creates run concurrently so
// every method is guarded.
type mockResourcePermissionRepository struct {
	mu             sync.Mutex
	perms          map[string]*entities.ResourcePermission
	failCreateName string
	deleteErr      error
	deleted        []string
}

func newMockResourcePermissionRepository() *mockResourcePermissionRepository {
	return &mockResourcePermissionRepository{perms: make(map[string]*entities.ResourcePermission)}
}

func (m *mockResourcePermissionRepository) Create(_ context.Context, perm *entities.ResourcePermission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateName != "" && perm.Name == m.failCreateName {
		return fmt.Errorf("write failed for %s", perm.Name)
	}
	m.perms[perm.ID] = perm
	return nil
}

func (m *mockResourcePermissionRepository) GetByID(_ context.Context, id string) (*entities.ResourcePermission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, id)
	delete(m.perms, id)
	return nil
}

func (m *mockResourcePermissionRepository) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.perms)
}

// mockUiPermissionRepository mirrors the resource mock for UI permissions
type mockUiPermissionRepository struct {
	mu             sync.Mutex
	perms          map[string]*entities.UiPermission
	failCreateName string
}

func newMockUiPermissionRepository() *mockUiPermissionRepository {
	return &mockUiPermissionRepository{perms: make(map[string]*entities.UiPermission)}
}

func (m *mockUiPermissionRepository) Create(_ context.Context, perm *entities.UiPermission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateName != "" && perm.Name == m.failCreateName {
		return fmt.Errorf("write failed for %s", perm.Name)
	}
	m.perms[perm.ID] = perm
	return nil
}

func (m *mockUiPermissionRepository) GetByID(_ context.Context, id string) (*entities.UiPermission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.perms[id], nil
}

func (m *mockUiPermissionRepository) List(_ context.Context, filter *repositories.PermissionFilter) ([]*entities.UiPermission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entities.UiPermission
	for _, id := range filter.IDs {
		if p, ok := m.perms[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockUiPermissionRepository) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.perms, id)
	return nil
}

// mockHolderRepository is an in-memory HolderRepository that can inject
// version conflicts on Replace.
type mockHolderRepository struct {
	mu            sync.Mutex
	holders       map[string]entities.Holder
	conflictsLeft int // Replace returns ErrVersionConflict this many times
	replaceCalls  int
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
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.holders[holderKey(holderType, id)], nil
}

func (m *mockHolderRepository) GetMany(_ context.Context, ids []string, holderType entities.HolderType) ([]entities.Holder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entities.Holder
	for _, id := range ids {
		if h, ok := m.holders[holderKey(holderType, id)]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *mockHolderRepository) Replace(_ context.Context, holder entities.Holder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replaceCalls++
	if m.conflictsLeft > 0 {
		m.conflictsLeft--
		return fmt.Errorf("%s %s: %w", holder.GetType(), holder.GetID(), repositories.ErrVersionConflict)
	}
	holder.SetVersion(holder.GetVersion() + 1)
	m.holders[holderKey(holder.GetType(), holder.GetID())] = holder
	return nil
}
