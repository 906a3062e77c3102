package entities

import "time"

// HolderType identifies the variant of a permission holder.
type HolderType string

const (
	HolderUser  HolderType = "user"
	HolderRole  HolderType = "role"
	HolderGroup HolderType = "group"
)

// ParseHolderType converts a string to a HolderType.
// Returns false when the string is not a known variant.
func ParseHolderType(s string) (HolderType, bool) {
	switch HolderType(s) {
	case HolderUser, HolderRole, HolderGroup:
		return HolderType(s), true
	}
	return "", false
}

// PermissionKind distinguishes resource (HTTP) permissions from UI feature flags.
type PermissionKind string

const (
	KindResource PermissionKind = "resource"
	KindUI       PermissionKind = "ui"
)

// Holder is implemented by every entity that can own permission assignments
// (User, Role, Group). Holders own the membership list only; permission
// records are shared and referenced by ID, never embedded.
//
// MembershipIDs returns the outgoing membership edges toward the given
// holder type in the closure direction: a User belongs to Roles and Groups,
// a Role belongs to Groups, a Group belongs to nothing. Back-references a
// Group keeps for reverse navigation are not memberships and are not
// returned here.
type Holder interface {
	GetID() string
	GetType() HolderType

	// DirectPermissionIDs returns the holder's own assignment list for the
	// given kind. Callers must not mutate the returned slice.
	DirectPermissionIDs(kind PermissionKind) []string
	SetDirectPermissionIDs(kind PermissionKind, ids []string)

	MembershipIDs(t HolderType) []string

	// GetVersion and SetVersion expose the optimistic-concurrency counter
	// guarding membership replaces.
	GetVersion() int64
	SetVersion(v int64)
}

// User is a holder that can inherit permissions from its groups and roles.
type User struct {
	ID                    string    `json:"id" bson:"_id"`
	Username              string    `json:"username" bson:"username"`
	DisplayName           string    `json:"displayName" bson:"displayName"`
	ResourcePermissionIDs []string  `json:"resourcePermissionIds" bson:"resourcePermissionIds"`
	UiPermissionIDs       []string  `json:"uiPermissionIds" bson:"uiPermissionIds"`
	RoleIDs               []string  `json:"roleIds" bson:"roleIds"`
	GroupIDs              []string  `json:"groupIds" bson:"groupIds"`
	Version               int64     `json:"-" bson:"version"`
	DateCreated           time.Time `json:"dateCreated" bson:"dateCreated"`
	DateUpdated           time.Time `json:"dateUpdated" bson:"dateUpdated"`
}

func (u *User) GetID() string       { return u.ID }
func (u *User) GetType() HolderType { return HolderUser }

func (u *User) DirectPermissionIDs(kind PermissionKind) []string {
	if kind == KindUI {
		return u.UiPermissionIDs
	}
	return u.ResourcePermissionIDs
}

func (u *User) SetDirectPermissionIDs(kind PermissionKind, ids []string) {
	if kind == KindUI {
		u.UiPermissionIDs = ids
		return
	}
	u.ResourcePermissionIDs = ids
}

func (u *User) MembershipIDs(t HolderType) []string {
	switch t {
	case HolderRole:
		return u.RoleIDs
	case HolderGroup:
		return u.GroupIDs
	}
	return nil
}

func (u *User) GetVersion() int64  { return u.Version }
func (u *User) SetVersion(v int64) { u.Version = v }

// Role is a holder that can inherit permissions from its groups.
type Role struct {
	ID                    string    `json:"id" bson:"_id"`
	Name                  string    `json:"name" bson:"name"`
	Description           string    `json:"description" bson:"description"`
	ResourcePermissionIDs []string  `json:"resourcePermissionIds" bson:"resourcePermissionIds"`
	UiPermissionIDs       []string  `json:"uiPermissionIds" bson:"uiPermissionIds"`
	GroupIDs              []string  `json:"groupIds" bson:"groupIds"`
	Version               int64     `json:"-" bson:"version"`
	DateCreated           time.Time `json:"dateCreated" bson:"dateCreated"`
	DateUpdated           time.Time `json:"dateUpdated" bson:"dateUpdated"`
}

func (r *Role) GetID() string       { return r.ID }
func (r *Role) GetType() HolderType { return HolderRole }

func (r *Role) DirectPermissionIDs(kind PermissionKind) []string {
	if kind == KindUI {
		return r.UiPermissionIDs
	}
	return r.ResourcePermissionIDs
}

func (r *Role) SetDirectPermissionIDs(kind PermissionKind, ids []string) {
	if kind == KindUI {
		r.UiPermissionIDs = ids
		return
	}
	r.ResourcePermissionIDs = ids
}

func (r *Role) MembershipIDs(t HolderType) []string {
	if t == HolderGroup {
		return r.GroupIDs
	}
	return nil
}

func (r *Role) GetVersion() int64  { return r.Version }
func (r *Role) SetVersion(v int64) { r.Version = v }

// Group is a terminal node in the closure graph: it owns direct permissions
// but inherits nothing. UserIDs and RoleIDs are back-references kept for
// reverse navigation only.
type Group struct {
	ID                    string    `json:"id" bson:"_id"`
	Name                  string    `json:"name" bson:"name"`
	Description           string    `json:"description" bson:"description"`
	ResourcePermissionIDs []string  `json:"resourcePermissionIds" bson:"resourcePermissionIds"`
	UiPermissionIDs       []string  `json:"uiPermissionIds" bson:"uiPermissionIds"`
	UserIDs               []string  `json:"userIds" bson:"userIds"`
	RoleIDs               []string  `json:"roleIds" bson:"roleIds"`
	Version               int64     `json:"-" bson:"version"`
	DateCreated           time.Time `json:"dateCreated" bson:"dateCreated"`
	DateUpdated           time.Time `json:"dateUpdated" bson:"dateUpdated"`
}

func (g *Group) GetID() string       { return g.ID }
func (g *Group) GetType() HolderType { return HolderGroup }

func (g *Group) DirectPermissionIDs(kind PermissionKind) []string {
	if kind == KindUI {
		return g.UiPermissionIDs
	}
	return g.ResourcePermissionIDs
}

func (g *Group) SetDirectPermissionIDs(kind PermissionKind, ids []string) {
	if kind == KindUI {
		g.UiPermissionIDs = ids
		return
	}
	g.ResourcePermissionIDs = ids
}

func (g *Group) MembershipIDs(HolderType) []string { return nil }

func (g *Group) GetVersion() int64  { return g.Version }
func (g *Group) SetVersion(v int64) { g.Version = v }
