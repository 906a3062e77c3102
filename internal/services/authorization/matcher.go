package authorization

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// routeParamToken is the fixed token every variable path segment collapses to.
const routeParamToken = "{ROUTEPARAM}"

// SegmentsEqual reports whether a concrete request path matches a stored
// permission path template.
//
// Both paths are split on "/" and compared segment by segment. A segment is
// treated as a route parameter wildcard when it parses as an integer, as a
// GUID, or is enclosed exactly in braces; wildcards on either side collapse
// to the same token, so the stored template "/api/users/{id}" matches
// "/api/users/42" and "/api/users/7f9c.../" alike. Literal segments compare
// case-insensitively. The sequences must have equal length; no segment may
// be skipped or reordered.
func SegmentsEqual(requestPath, permissionPath string) bool {
	req := strings.Split(requestPath, "/")
	tmpl := strings.Split(permissionPath, "/")
	if len(req) != len(tmpl) {
		return false
	}
	for i := range req {
		last := i == len(req)-1
		if normalizeSegment(req[i], last) != normalizeSegment(tmpl[i], last) {
			return false
		}
	}
	return true
}

// normalizeSegment transforms one raw path segment into its comparison token.
// Empty segments (from leading/trailing slashes) pass through untouched so
// that paths keep comparing positionally.
func normalizeSegment(segment string, last bool) string {
	stripped := strings.ReplaceAll(segment, "/", "")
	if stripped == "" {
		return segment
	}

	token := stripped
	if decoded, err := url.PathUnescape(stripped); err == nil {
		token = decoded
	}

	if isRouteParam(token) {
		out := routeParamToken
		if !last && strings.HasSuffix(segment, "/") {
			out += "/"
		}
		return out
	}
	return strings.ToUpper(token)
}

// isRouteParam reports whether a decoded segment is a variable: a numeric
// ID, a GUID, or a {param} template placeholder.
func isRouteParam(token string) bool {
	if _, err := strconv.ParseInt(token, 10, 64); err == nil {
		return true
	}
	if _, err := uuid.Parse(token); err == nil {
		return true
	}
	return strings.HasPrefix(token, "{") && strings.HasSuffix(token, "}")
}
