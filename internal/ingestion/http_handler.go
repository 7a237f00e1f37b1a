package ingestion

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rpattn/leadsathi/internal/response"
	"github.com/rpattn/leadsathi/internal/validator"

	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// Handler exposes lead submission as an HTTP endpoint.
type Handler struct {
	service *Service
	now     func() time.Time
	logger  logrus.FieldLogger
}

// NewHTTPHandler wraps the service with a POST endpoint.
func NewHTTPHandler(service *Service, logger logrus.FieldLogger) http.Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Handler{service: service, now: time.Now, logger: logger}
}

// ServeHTTP accepts any content type: browser forms commonly post JSON as
// text/plain to avoid a CORS preflight.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.write(w, http.StatusMethodNotAllowed, false, "method not allowed", nil)
		return
	}
	defer r.Body.Close()

	payload, err := decodePayload(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.logger.WithError(err).Warn("rejected malformed submission")
		h.write(w, http.StatusBadRequest, false, "Invalid JSON payload", nil)
		return
	}

	receipt, err := h.service.Submit(r.Context(), payload)
	if err != nil {
		var validationErr *validator.ValidationError
		if errors.As(err, &validationErr) {
			h.write(w, http.StatusBadRequest, false, validationErr.Message, nil)
			return
		}
		h.logger.WithError(err).Error("lead submission failed")
		h.write(w, http.StatusInternalServerError, false, "Server error: "+err.Error(), nil)
		return
	}

	h.write(w, http.StatusOK, true, "Lead captured successfully", receipt)
}

func (h *Handler) write(w http.ResponseWriter, status int, success bool, message string, data any) {
	response.Write(w, status, response.New(h.now(), success, message, data))
}

// decodePayload returns nil for an empty or null body and an empty map for
// JSON values that are not objects.
func decodePayload(body io.Reader) (map[string]any, error) {
	var raw any
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}
	switch value := raw.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return value, nil
	default:
		return map[string]any{}, nil
	}
}
