package entities

import (
	"fmt"
	"time"
)

// PermissionType is the policy outcome a permission record carries.
type PermissionType string

const (
	// PermissionAllow grants access when the permission matches.
	PermissionAllow PermissionType = "Allow"
	// PermissionDeny revokes a grant at the holder's own level.
	// Deny records never propagate through membership inheritance.
	PermissionDeny PermissionType = "Deny"
)

// ResourcePermission binds an HTTP method and a URL template to an
// Allow/Deny outcome.
// Example: Allow GET /api/users/{id}
//
// URL and Method hold the values as authored; NormalizedURL and
// NormalizedMethod hold the upper-cased canonical forms used for matching.
type ResourcePermission struct {
	ID               string         `json:"id" bson:"_id"`
	Name             string         `json:"name" bson:"name"`
	Description      string         `json:"description" bson:"description"`
	URL              string         `json:"url" bson:"url"`
	NormalizedURL    string         `json:"normalizedUrl" bson:"normalizedUrl"`
	Method           string         `json:"method" bson:"method"`
	NormalizedMethod string         `json:"normalizedMethod" bson:"normalizedMethod"`
	PermissionType   PermissionType `json:"permissionType" bson:"permissionType"`
	DateCreated      time.Time      `json:"dateCreated" bson:"dateCreated"`
	DateUpdated      time.Time      `json:"dateUpdated" bson:"dateUpdated"`
}

// Validate checks if the resource permission is valid
func (p *ResourcePermission) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.URL == "" {
		return fmt.Errorf("url is required")
	}
	if p.Method == "" {
		return fmt.Errorf("method is required")
	}
	if p.PermissionType != PermissionAllow && p.PermissionType != PermissionDeny {
		return fmt.Errorf("permission type must be %s or %s", PermissionAllow, PermissionDeny)
	}
	return nil
}

// UiPermission is an Allow/Deny feature flag keyed by an opaque code.
// It is unrelated to HTTP routing.
type UiPermission struct {
	ID             string         `json:"id" bson:"_id"`
	Name           string         `json:"name" bson:"name"`
	Description    string         `json:"description" bson:"description"`
	Code           string         `json:"code" bson:"code"`
	PermissionType PermissionType `json:"permissionType" bson:"permissionType"`
	DateCreated    time.Time      `json:"dateCreated" bson:"dateCreated"`
	DateUpdated    time.Time      `json:"dateUpdated" bson:"dateUpdated"`
}

// Validate checks if the UI permission is valid
func (p *UiPermission) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.PermissionType != PermissionAllow && p.PermissionType != PermissionDeny {
		return fmt.Errorf("permission type must be %s or %s", PermissionAllow, PermissionDeny)
	}
	return nil
}
