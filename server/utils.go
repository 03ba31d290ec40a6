package server

import (
	"errors"
	"net/http"

	"chirp/domain"
	"chirp/utils"
	log "github.com/sirupsen/logrus"
)

func sendJson(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.Write(utils.ToJson(value))
}

func sendJsonStatus(w http.ResponseWriter, statusCode int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	w.Write(utils.ToJson(value))
}

func sendError(w http.ResponseWriter, errorCode int, message string) {
	log.Info(message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errorCode)
	resp := map[string]string{
		"error": message,
	}
	w.Write(utils.ToJson(resp))
}

// sendDomainError maps the unified domain failure channel onto HTTP statuses.
func sendDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		sendError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrInvalidCredential):
		sendError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		sendError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		sendError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrAlreadyExists):
		sendError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		sendError(w, http.StatusBadRequest, err.Error())
	default:
		log.Errorf("Internal error serving request: %v", err)
		sendError(w, http.StatusInternalServerError, "internal server error")
	}
}
