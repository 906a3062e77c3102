package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/hayasaka/monban/internal/entities"
)

// errorResponse is the uniform error body for the HTTP adapter.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, status int, format string, args ...interface{}) {
	writeJSON(w, status, errorResponse{Error: fmt.Sprintf(format, args...)})
}

func decodeJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// holderTypeFromVars parses the {type} route variable into a HolderType.
func holderTypeFromVars(vars map[string]string) (entities.HolderType, error) {
	holderType, ok := entities.ParseHolderType(vars["type"])
	if !ok {
		return "", fmt.Errorf("unknown holder type: %s", vars["type"])
	}
	return holderType, nil
}
