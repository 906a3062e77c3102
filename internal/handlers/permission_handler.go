package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hayasaka/monban/internal/entities"
	"github.com/hayasaka/monban/internal/services"
)

// PermissionHandler exposes permission record CRUD over HTTP.
type PermissionHandler struct {
	permissions services.PermissionServiceInterface
}

// NewPermissionHandler creates a new PermissionHandler
func NewPermissionHandler(permissions services.PermissionServiceInterface) *PermissionHandler {
	return &PermissionHandler{permissions: permissions}
}

type createdResponse struct {
	ID string `json:"id"`
}

// CreateResource handles POST /v1/permissions/resource
func (h *PermissionHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var perm entities.ResourcePermission
	if err := decodeJSON(r, &perm); err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	id, err := h.permissions.CreateResourcePermission(r.Context(), &perm)
	if err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "invalid") {
			status = http.StatusBadRequest
		}
		writeError(w, status, "%v", err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// CreateUi handles POST /v1/permissions/ui
func (h *PermissionHandler) CreateUi(w http.ResponseWriter, r *http.Request) {
	var perm entities.UiPermission
	if err := decodeJSON(r, &perm); err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	id, err := h.permissions.CreateUiPermission(r.Context(), &perm)
	if err != nil {
		status := http.StatusInternalServerError
		if strings.Contains(err.Error(), "invalid") {
			status = http.StatusBadRequest
		}
		writeError(w, status, "%v", err)
		return
	}
	writeJSON(w, http.StatusCreated, createdResponse{ID: id})
}

// ListResource handles GET /v1/permissions/resource?ids=a,b,c
func (h *PermissionHandler) ListResource(w http.ResponseWriter, r *http.Request) {
	ids := splitIDs(r.URL.Query().Get("ids"))
	perms, err := h.permissions.ListResourcePermissions(r.Context(), ids)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	if perms == nil {
		perms = []*entities.ResourcePermission{}
	}
	writeJSON(w, http.StatusOK, perms)
}

// ListUi handles GET /v1/permissions/ui?ids=a,b,c
func (h *PermissionHandler) ListUi(w http.ResponseWriter, r *http.Request) {
	ids := splitIDs(r.URL.Query().Get("ids"))
	perms, err := h.permissions.ListUiPermissions(r.Context(), ids)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "%v", err)
		return
	}
	if perms == nil {
		perms = []*entities.UiPermission{}
	}
	writeJSON(w, http.StatusOK, perms)
}

// DeleteResource handles DELETE /v1/permissions/resource/{id}.
// The delete is best-effort by design; the response is always 204.
func (h *PermissionHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	h.permissions.DeleteResourcePermission(r.Context(), mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

// DeleteUi handles DELETE /v1/permissions/ui/{id}.
func (h *PermissionHandler) DeleteUi(w http.ResponseWriter, r *http.Request) {
	h.permissions.DeleteUiPermission(r.Context(), mux.Vars(r)["id"])
	w.WriteHeader(http.StatusNoContent)
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
