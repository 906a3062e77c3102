package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/hayasaka/monban/internal/infrastructure/metrics"
	"github.com/hayasaka/monban/internal/services/authorization"
)

// ValidationHandler exposes the validation entry point over HTTP. It is a
// thin responder: the engine returns a result value, never an error, and
// the handler translates it to the wire shape unchanged.
type ValidationHandler struct {
	validator authorization.ValidatorInterface
	exporter  *metrics.PrometheusExporter
	logger    zerolog.Logger
}

// NewValidationHandler creates a new ValidationHandler.
// exporter may be nil when metrics are disabled.
func NewValidationHandler(validator authorization.ValidatorInterface, exporter *metrics.PrometheusExporter, logger zerolog.Logger) *ValidationHandler {
	return &ValidationHandler{
		validator: validator,
		exporter:  exporter,
		logger:    logger,
	}
}

type validateRequest struct {
	Path   string `json:"path"`
	Method string `json:"method"`
	UserID string `json:"userId,omitempty"`
}

// Validate handles POST /v1/validate.
// When the body carries no userId, the authenticated caller's own identity
// is validated.
func (h *ValidationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "%v", err)
		return
	}

	userID := req.UserID
	if userID == "" {
		userID, _ = UserIDFromContext(r.Context())
	}

	start := time.Now()
	result := h.validator.Validate(r.Context(), req.Path, req.Method, userID)
	if h.exporter != nil {
		h.exporter.RecordValidation(result.Allowed, time.Since(start).Seconds())
	}

	h.logger.Debug().
		Str("user_id", userID).
		Str("method", req.Method).
		Str("path", req.Path).
		Bool("allowed", result.Allowed).
		Msg("validation decision")

	writeJSON(w, http.StatusOK, result)
}
