package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hongminglow/insight-be/internal/chat"
	"github.com/hongminglow/insight-be/internal/http/respond"
	"github.com/hongminglow/insight-be/internal/middleware"
	"github.com/hongminglow/insight-be/internal/models/dto"
)

// ChatHandler relays conversations to the injected chat-completion client.
type ChatHandler struct {
	client *chat.Client
}

// NewChatHandler constructs the handler.
func NewChatHandler(client *chat.Client) *ChatHandler {
	return &ChatHandler{client: client}
}

// Register attaches the chat route behind auth.
func (h *ChatHandler) Register(mux *http.ServeMux, protect middleware.Chain) {
	mux.HandleFunc("POST /api/chat", protect(h.handleChat))
}

func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req dto.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	if len(req.Messages) == 0 {
		respond.Error(w, http.StatusBadRequest, "messages are required")
		return
	}
	messages := make([]chat.Message, 0, len(req.Messages))
	for _, m := range req.Messages {
		if strings.TrimSpace(m.Content) == "" {
			respond.Error(w, http.StatusBadRequest, "message content must not be empty")
			return
		}
		messages = append(messages, chat.Message{Role: m.Role, Content: m.Content})
	}

	reply, err := h.client.Complete(r.Context(), messages)
	if err != nil {
		h.respondUpstreamError(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.ChatResponse{Reply: reply, Model: h.client.Model()})
}

// respondUpstreamError maps provider failures to the API's error taxonomy:
// payment and quota problems become 402, rate limiting 429, everything else 500.
func (h *ChatHandler) respondUpstreamError(w http.ResponseWriter, err error) {
	if errors.Is(err, chat.ErrDisabled) {
		respond.Error(w, http.StatusServiceUnavailable, "chat is not available")
		return
	}
	var upstream *chat.UpstreamError
	if errors.As(err, &upstream) {
		switch upstream.StatusCode {
		case http.StatusUnauthorized, http.StatusPaymentRequired, http.StatusForbidden:
			respond.Error(w, http.StatusPaymentRequired, "chat provider rejected the request")
		case http.StatusTooManyRequests:
			respond.Error(w, http.StatusTooManyRequests, "chat provider rate limit reached")
		default:
			slog.Error("chat upstream error", "error", err)
			respond.Error(w, http.StatusInternalServerError, "chat request failed")
		}
		return
	}
	slog.Error("chat request failed", "error", err)
	respond.Error(w, http.StatusInternalServerError, "chat request failed")
}
