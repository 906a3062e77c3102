package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hayasaka/monban/internal/entities"
	"github.com/hayasaka/monban/internal/repositories"
	"github.com/hayasaka/monban/internal/services"
	"github.com/hayasaka/monban/internal/services/authorization"
)

// HolderHandler exposes holder permission assignment and the resolved
// closure listing over HTTP.
type HolderHandler struct {
	assignments services.AssignmentServiceInterface
	resolver    authorization.ResolverInterface
}

// NewHolderHandler creates a new HolderHandler
func NewHolderHandler(assignments services.AssignmentServiceInterface, resolver authorization.ResolverInterface) *HolderHandler {
	return &HolderHandler{
		assignments: assignments,
		resolver:    resolver,
	}
}

type addedResponse struct {
	IDs []string `json:"ids"`
}

// AddResourcePermissions handles POST /v1/holders/{type}/{id}/permissions/resource
func (h *HolderHandler) AddResourcePermissions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	holderType, err := holderTypeFromVars(vars)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	var perms []*entities.ResourcePermission
	if err := decodeJSON(r, &perms); err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	ids, err := h.assignments.AddResourcePermissions(r.Context(), vars["id"], holderType, perms)
	if err != nil {
		writeError(w, mutationStatus(err), "%v", err)
		return
	}
	writeJSON(w, http.StatusCreated, addedResponse{IDs: ids})
}

// AddUiPermissions handles POST /v1/holders/{type}/{id}/permissions/ui
func (h *HolderHandler) AddUiPermissions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	holderType, err := holderTypeFromVars(vars)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	var perms []*entities.UiPermission
	if err := decodeJSON(r, &perms); err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	ids, err := h.assignments.AddUiPermissions(r.Context(), vars["id"], holderType, perms)
	if err != nil {
		writeError(w, mutationStatus(err), "%v", err)
		return
	}
	writeJSON(w, http.StatusCreated, addedResponse{IDs: ids})
}

// RemovePermission handles DELETE /v1/holders/{type}/{id}/permissions/{kind}/{permissionId}
func (h *HolderHandler) RemovePermission(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	holderType, err := holderTypeFromVars(vars)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	kind := entities.KindResource
	if vars["kind"] == string(entities.KindUI) {
		kind = entities.KindUI
	}

	if err := h.assignments.RemovePermission(r.Context(), vars["id"], holderType, kind, vars["permissionId"]); err != nil {
		writeError(w, mutationStatus(err), "%v", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListResourcePermissions handles GET /v1/holders/{type}/{id}/permissions/resource
// and returns the resolved closure (direct plus inherited).
func (h *HolderHandler) ListResourcePermissions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	holderType, err := holderTypeFromVars(vars)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	perms, err := h.resolver.ResolveResourcePermissions(r.Context(), vars["id"], holderType)
	if err != nil {
		writeError(w, mutationStatus(err), "%v", err)
		return
	}
	if perms == nil {
		perms = []*entities.ResourcePermission{}
	}
	writeJSON(w, http.StatusOK, perms)
}

// ListUiPermissions handles GET /v1/holders/{type}/{id}/permissions/ui
func (h *HolderHandler) ListUiPermissions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	holderType, err := holderTypeFromVars(vars)
	if err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	perms, err := h.resolver.ResolveUiPermissions(r.Context(), vars["id"], holderType)
	if err != nil {
		writeError(w, mutationStatus(err), "%v", err)
		return
	}
	if perms == nil {
		perms = []*entities.UiPermission{}
	}
	writeJSON(w, http.StatusOK, perms)
}

// mutationStatus maps service errors onto HTTP statuses: a missing holder is
// the caller's mistake, everything else is a server-side fault.
func mutationStatus(err error) int {
	if errors.Is(err, repositories.ErrHolderNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
