package handler

import (
	"encoding/json"
	"net/http"

	"github.com/whisperbox-dev/whisperbox/internal/config"
	"github.com/whisperbox-dev/whisperbox/internal/logger"
	"github.com/whisperbox-dev/whisperbox/internal/service"
)

type Handler struct {
	auth    service.AuthService
	mailbox service.MailboxService
	cfg     *config.Config
}

func New(auth service.AuthService, mailbox service.MailboxService, cfg *config.Config) *Handler {
	return &Handler{auth, mailbox, cfg}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("failed to encode response", "error", err)
	}
}
