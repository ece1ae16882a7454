package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
	"github.com/worklens-io/worklens/pkg/usecase"
)

// ChatHandler serves the chat panel endpoints
type ChatHandler struct {
	chatUC usecase.ChatUseCase
}

// NewChatHandler creates a ChatHandler
func NewChatHandler(chatUC usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{chatUC: chatUC}
}

type sendRequest struct {
	ConversationID types.ConversationID `json:"conversation_id"`
	Message        string               `json:"message"`
}

// HandleSend runs one chat turn against the provider in the URL
func (h *ChatHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	provider, err := types.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req sendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{
			"error": goerr.Wrap(err, "invalid request body").Error(),
		})
		return
	}
	if req.Message == "" {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	reply, err := h.chatUC.Send(r.Context(), provider, req.ConversationID, req.Message)
	if err != nil {
		// The inline error is dismissable client-side; the user message is
		// already in the history
		writeJSON(r.Context(), w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, reply)
}

// HandleHistory serves one conversation's transcript
func (h *ChatHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	provider, err := types.ParseProvider(chi.URLParam(r, "provider"))
	if err != nil {
		writeJSON(r.Context(), w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	convID := types.ConversationID(chi.URLParam(r, "conversationID"))

	messages, err := h.chatUC.History(r.Context(), provider, convID)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	writeJSON(r.Context(), w, http.StatusOK, map[string]any{
		"conversation_id": convID,
		"messages":        messages,
	})
}
