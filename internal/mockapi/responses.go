package mockapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	"github.com/storefront-dev/storefront/internal/apperrors"
	"github.com/storefront-dev/storefront/internal/logger"
)

// message is the body of responses that only confirm an action.
type message struct {
	Message string `json:"message"`
}

func respondWithError(w http.ResponseWriter, r *http.Request, statusCode int, errorCode apperrors.ErrorCode, msg string) {
	logger.ContextWithLogAttrs(r.Context(),
		slog.String("error_code", string(errorCode)),
		slog.String("error_message", msg),
	)

	render.Status(r, statusCode)
	render.JSON(w, r, apperrors.ErrorResponse{
		ErrorCode: errorCode,
		Message:   msg,
	})
}

func respondWithJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if status == http.StatusNoContent {
		w.WriteHeader(status)
		return
	}
	render.Status(r, status)
	render.JSON(w, r, payload)
}

func respondNotFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, r, http.StatusNotFound, apperrors.ErrCodeResourceNotFound, "Not found")
}

// decodeBody reads a JSON request body into v and validates it.
// It writes the error response itself and returns false on failure.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		respondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeMalformedBody, "could not decode request body")
		return false
	}
	if err := s.validate.Struct(v); err != nil {
		respondWithError(w, r, http.StatusBadRequest, apperrors.ErrCodeInvalidRequest, validationMessage(err))
		return false
	}
	return true
}
