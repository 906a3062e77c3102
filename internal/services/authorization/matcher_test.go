package authorization

import "testing"

func TestSegmentsEqual(t *testing.T) {
	tests := []struct {
		name           string
		requestPath    string
		permissionPath string
		want           bool
	}{
		{
			name:           "numeric ID matches template placeholder",
			requestPath:    "/api/users/42",
			permissionPath: "/api/users/{id}",
			want:           true,
		},
		{
			name:           "GUID matches template placeholder",
			requestPath:    "/api/users/7f9c24e8-3b12-4a6b-9f0a-1c2d3e4f5a6b",
			permissionPath: "/api/users/{id}",
			want:           true,
		},
		{
			name:           "placeholder on both sides matches",
			requestPath:    "/api/users/{userId}",
			permissionPath: "/api/users/{id}",
			want:           true,
		},
		{
			name:           "literal segments compare case-insensitively",
			requestPath:    "/Api/Users",
			permissionPath: "/api/users",
			want:           true,
		},
		{
			name:           "different literal segments do not match",
			requestPath:    "/api/users",
			permissionPath: "/api/groups",
			want:           false,
		},
		{
			name:           "differing segment count does not match",
			requestPath:    "/api/users/42/posts",
			permissionPath: "/api/users/{id}",
			want:           false,
		},
		{
			name:           "trailing slash changes segment count",
			requestPath:    "/api/users/",
			permissionPath: "/api/users",
			want:           false,
		},
		{
			name:           "trailing slash on both sides matches",
			requestPath:    "/api/users/",
			permissionPath: "/api/users/",
			want:           true,
		},
		{
			name:           "concrete string does not match numeric-only wildcard position",
			requestPath:    "/api/users/alice",
			permissionPath: "/api/users/42",
			want:           false,
		},
		{
			name:           "two different numeric IDs collapse to the same wildcard",
			requestPath:    "/api/users/42",
			permissionPath: "/api/users/99",
			want:           true,
		},
		{
			name:           "url-encoded braces decode to a placeholder",
			requestPath:    "/api/users/%7Bid%7D",
			permissionPath: "/api/users/{id}",
			want:           true,
		},
		{
			name:           "negative number is numeric",
			requestPath:    "/api/items/-7",
			permissionPath: "/api/items/{itemId}",
			want:           true,
		},
		{
			name:           "segment order matters",
			requestPath:    "/users/api",
			permissionPath: "/api/users",
			want:           false,
		},
		{
			name:           "empty paths match",
			requestPath:    "",
			permissionPath: "",
			want:           true,
		},
		{
			name:           "wildcard in the middle of the path",
			requestPath:    "/api/users/42/roles",
			permissionPath: "/api/users/{id}/roles",
			want:           true,
		},
		{
			name:           "literal after wildcard still must match",
			requestPath:    "/api/users/42/roles",
			permissionPath: "/api/users/{id}/groups",
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SegmentsEqual(tt.requestPath, tt.permissionPath); got != tt.want {
				t.Errorf("SegmentsEqual(%q, %q) = %v, want %v", tt.requestPath, tt.permissionPath, got, tt.want)
			}
		})
	}
}

func TestIsRouteParam(t *testing.T) {
	tests := []struct {
		token string
		want  bool
	}{
		{"42", true},
		{"007", true},
		{"-7", true},
		{"7f9c24e8-3b12-4a6b-9f0a-1c2d3e4f5a6b", true},
		{"{id}", true},
		{"{}", true},
		{"users", false},
		{"v1", false},
		{"{unclosed", false},
		{"4.2", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			if got := isRouteParam(tt.token); got != tt.want {
				t.Errorf("isRouteParam(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}
