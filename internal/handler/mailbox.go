package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/whisperbox-dev/whisperbox/internal/middleware"
	"github.com/whisperbox-dev/whisperbox/internal/utils"
)

type acceptMessagesRequest struct {
	Accepting *bool `validate:"required" json:"accepting"`
}

type acceptMessagesResponse struct {
	Accepting bool `json:"accepting"`
}

type sendMessageRequest struct {
	Content string `validate:"required" json:"content"`
}

type messageResponse struct {
	Id        int64     `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// GetAcceptMessages reports the current flag from the store, because the
// token claim may be stale.
func (h *Handler) GetAcceptMessages(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	accepting, err := h.mailbox.Accepting(claims.Username)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, acceptMessagesResponse{Accepting: accepting})
}

func (h *Handler) SetAcceptMessages(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	var req acceptMessagesRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if err := h.mailbox.SetAccepting(claims.AccountId, *req.Accepting); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, acceptMessagesResponse{Accepting: *req.Accepting})
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r)

	messages, err := h.mailbox.Messages(claims.AccountId)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	resp := make([]messageResponse, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, messageResponse{Id: msg.Id, Content: msg.Content, CreatedAt: msg.CreatedAt})
	}
	writeJSON(w, resp)
}

// SendMessage is the anonymous endpoint: no auth, the sender stays unknown.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req sendMessageRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	msg, err := h.mailbox.Receive(username, req.Content)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSONStatus(w, http.StatusCreated, messageResponse{Id: msg.Id, Content: msg.Content, CreatedAt: msg.CreatedAt})
}
