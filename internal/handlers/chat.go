package handlers

import (
	"encoding/json"
	"net/http"

	"aprende/internal/contextutil"
	"aprende/internal/service"
	"aprende/internal/storage"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
	showDetails bool
}

// NewChatHandler creates a new ChatHandler.
// showDetails exposes error chains in 500 responses and is meant for development.
func NewChatHandler(chatService service.ChatService, showDetails bool) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		showDetails: showDetails,
	}
}

// SendRequest represents the HTTP request payload for POST /api/chat/send.
type SendRequest struct {
	Content *string `json:"content"`
}

// Send runs one chat turn and returns both stored messages plus new vocabulary.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid chat request body", "error", err)
		if isBodyTooLarge(err) {
			// Any body over the limit carries content far beyond the message limit.
			handleServiceError(ctx, w, service.ContentTooLong(), "Failed to send message", h.showDetails)
			return
		}
		writeError(ctx, w, http.StatusBadRequest, "Invalid input")
		return
	}
	if req.Content == nil {
		logger.WarnContext(ctx, "chat request without content")
		writeError(ctx, w, http.StatusBadRequest, "Invalid input")
		return
	}

	result, err := h.chatService.SendMessage(ctx, service.ChatRequest{Content: *req.Content})
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to send message", h.showDetails)
		return
	}

	if result.DetectedVocabulary == nil {
		result.DetectedVocabulary = []service.DetectedWord{}
	}
	writeJSON(ctx, w, http.StatusOK, result)
}

// Messages lists the conversation. ?format=html adds rendered HTML to every message.
func (h *ChatHandler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	withHTML := r.URL.Query().Get("format") == "html"
	messages, err := h.chatService.ListMessages(ctx, withHTML)
	if err != nil {
		handleServiceError(ctx, w, err, "Failed to fetch messages", h.showDetails)
		return
	}

	if messages == nil {
		messages = []storage.ChatMessage{}
	}
	writeJSON(ctx, w, http.StatusOK, messages)
}
