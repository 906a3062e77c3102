package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck() error
}

// NewRouter assembles the HTTP adapter. The health endpoint is public;
// everything else sits behind the supplied middleware chain.
func NewRouter(
	validation *ValidationHandler,
	permissions *PermissionHandler,
	holders *HolderHandler,
	health HealthChecker,
	middleware ...mux.MiddlewareFunc,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if health != nil {
			if err := health.HealthCheck(); err != nil {
				writeError(w, http.StatusServiceUnavailable, "%v", err)
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/v1").Subrouter()
	for _, m := range middleware {
		api.Use(m)
	}

	api.HandleFunc("/validate", validation.Validate).Methods(http.MethodPost)

	api.HandleFunc("/permissions/resource", permissions.CreateResource).Methods(http.MethodPost)
	api.HandleFunc("/permissions/resource", permissions.ListResource).Methods(http.MethodGet)
	api.HandleFunc("/permissions/resource/{id}", permissions.DeleteResource).Methods(http.MethodDelete)
	api.HandleFunc("/permissions/ui", permissions.CreateUi).Methods(http.MethodPost)
	api.HandleFunc("/permissions/ui", permissions.ListUi).Methods(http.MethodGet)
	api.HandleFunc("/permissions/ui/{id}", permissions.DeleteUi).Methods(http.MethodDelete)

	api.HandleFunc("/holders/{type}/{id}/permissions/resource", holders.AddResourcePermissions).Methods(http.MethodPost)
	api.HandleFunc("/holders/{type}/{id}/permissions/resource", holders.ListResourcePermissions).Methods(http.MethodGet)
	api.HandleFunc("/holders/{type}/{id}/permissions/ui", holders.AddUiPermissions).Methods(http.MethodPost)
	api.HandleFunc("/holders/{type}/{id}/permissions/ui", holders.ListUiPermissions).Methods(http.MethodGet)
	api.HandleFunc("/holders/{type}/{id}/permissions/{kind}/{permissionId}", holders.RemovePermission).Methods(http.MethodDelete)

	return r
}
