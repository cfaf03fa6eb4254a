// File: internal/handlers/chat_handler.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/dtos"
	"github.com/iyunix/go-easyemail/internal/middleware"
	"github.com/iyunix/go-easyemail/internal/services"
	"github.com/iyunix/go-easyemail/internal/services/draft"
)

// RetryAfterSeconds is advertised to clients when a provider rate limits us.
const RetryAfterSeconds = 30

const maxBodyBytes = 1 << 20

type DraftService interface {
	GenerateEmail(ctx context.Context, req draft.GenerateRequest) (*draft.DraftResult, error)
	ModifyEmail(ctx context.Context, req draft.ModifyRequest) (*draft.DraftResult, error)
	ParaphraseText(ctx context.Context, text, provider string) (string, error)
	SmartReply(ctx context.Context, req draft.SmartReplyRequest) (string, error)
}

type SendService interface {
	SendEmail(ctx context.Context, req draft.SendRequest) error
	ReplyEmail(ctx context.Context, req draft.ReplyRequest) error
}

type ChatStore interface {
	ListChats(ctx context.Context, userID uint, page, perPage int) (*services.ChatPage, error)
	GetChat(ctx context.Context, userID, chatID uint) (*domain.Chat, error)
	GetMessages(ctx context.Context, userID, chatID uint) ([]draft.DecryptedMessage, error)
	RenameChat(ctx context.Context, userID, chatID uint, name string) (*domain.Chat, error)
	DeleteChat(ctx context.Context, userID, chatID uint) error
}

type ChatHandler struct {
	Drafts DraftService
	Sender SendService
	Chats  ChatStore
	Logger services.Logger
}

func NewChatHandler(drafts DraftService, sender SendService, chats ChatStore, logger services.Logger) *ChatHandler {
	if logger == nil {
		logger = &services.NoOpLogger{}
	}
	return &ChatHandler{Drafts: drafts, Sender: sender, Chats: chats, Logger: logger}
}

// Register mounts the chat routes on r. Authentication is applied by the caller.
func (h *ChatHandler) Register(r *mux.Router) {
	r.HandleFunc("/chat/generate", h.GenerateEmail).Methods(http.MethodPost)
	r.HandleFunc("/chat/generate", h.ModifyEmail).Methods(http.MethodPut)
	r.HandleFunc("/chat/send", h.SendEmail).Methods(http.MethodPost)
	r.HandleFunc("/chat/paraphrase", h.Paraphrase).Methods(http.MethodPost)
	r.HandleFunc("/chat/reply", h.SmartReply).Methods(http.MethodPost)
	r.HandleFunc("/chat/reply/send", h.ReplyEmail).Methods(http.MethodPost)

	r.HandleFunc("/chats", h.ListChats).Methods(http.MethodGet)
	r.HandleFunc("/chats/{id:[0-9]+}", h.GetChat).Methods(http.MethodGet)
	r.HandleFunc("/chats/{id:[0-9]+}", h.RenameChat).Methods(http.MethodPut)
	r.HandleFunc("/chats/{id:[0-9]+}", h.DeleteChat).Methods(http.MethodDelete)
	r.HandleFunc("/chats/{id:[0-9]+}/messages", h.GetChatMessages).Methods(http.MethodGet)
}

func (h *ChatHandler) GenerateEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	var body dtos.GenerateEmailRequestDTO
	if !decode(w, r, &body) {
		return
	}

	result, err := h.Drafts.GenerateEmail(r.Context(), body.ToRequest(userID))
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ChatHandler) ModifyEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	var body dtos.ModifyEmailRequestDTO
	if !decode(w, r, &body) {
		return
	}

	result, err := h.Drafts.ModifyEmail(r.Context(), body.ToRequest(userID))
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ChatHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	var body dtos.SendEmailRequestDTO
	if !decode(w, r, &body) {
		return
	}

	if err := h.Sender.SendEmail(r.Context(), body.ToRequest(userID)); err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.SentResponseDTO{Sent: true})
}

func (h *ChatHandler) Paraphrase(w http.ResponseWriter, r *http.Request) {
	if _, ok := requester(w, r); !ok {
		return
	}
	var body dtos.ParaphraseRequestDTO
	if !decode(w, r, &body) {
		return
	}

	text, err := h.Drafts.ParaphraseText(r.Context(), body.Text, body.AI)
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.ParaphraseResponseDTO{Text: text})
}

func (h *ChatHandler) SmartReply(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	var body dtos.SmartReplyRequestDTO
	if !decode(w, r, &body) {
		return
	}

	reply, err := h.Drafts.SmartReply(r.Context(), body.ToRequest(userID))
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.SmartReplyResponseDTO{Reply: reply})
}

func (h *ChatHandler) ReplyEmail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	var body dtos.ReplyEmailRequestDTO
	if !decode(w, r, &body) {
		return
	}

	if err := h.Sender.ReplyEmail(r.Context(), body.ToRequest(userID)); err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dtos.SentResponseDTO{Sent: true})
}

// ListChats handles GET /api/chats?page=&per_page=.
func (h *ChatHandler) ListChats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requester(w, r)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	result, err := h.Chats.ListChats(r.Context(), userID, page, perPage)
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *ChatHandler) GetChat(w http.ResponseWriter, r *http.Request) {
	userID, chatID, ok := requesterAndChat(w, r)
	if !ok {
		return
	}
	chat, err := h.Chats.GetChat(r.Context(), userID, chatID)
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) GetChatMessages(w http.ResponseWriter, r *http.Request) {
	userID, chatID, ok := requesterAndChat(w, r)
	if !ok {
		return
	}
	messages, err := h.Chats.GetMessages(r.Context(), userID, chatID)
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *ChatHandler) RenameChat(w http.ResponseWriter, r *http.Request) {
	userID, chatID, ok := requesterAndChat(w, r)
	if !ok {
		return
	}
	var body dtos.RenameChatRequestDTO
	if !decode(w, r, &body) {
		return
	}
	chat, err := h.Chats.RenameChat(r.Context(), userID, chatID, body.Name)
	if err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	userID, chatID, ok := requesterAndChat(w, r)
	if !ok {
		return
	}
	if err := h.Chats.DeleteChat(r.Context(), userID, chatID); err != nil {
		h.writeDraftError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeDraftError maps the draft error taxonomy onto HTTP statuses.
func (h *ChatHandler) writeDraftError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.RequestIDFromContext(r.Context())

	var de *draft.DraftError
	if !errors.As(err, &de) {
		h.Logger.Error("unclassified handler error", "path", r.URL.Path, "request_id", requestID, "error", err)
		writeError(w, "internal server error", http.StatusInternalServerError)
		return
	}

	status := statusFor(de.Type)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed", "path", r.URL.Path, "request_id", requestID, "type", string(de.Type), "error", err)
		writeError(w, "internal server error", status)
		return
	}

	h.Logger.Warn("request rejected", "path", r.URL.Path, "request_id", requestID, "type", string(de.Type), "error", err)
	switch de.Type {
	case draft.ErrTypeRateLimited:
		w.Header().Set("Retry-After", strconv.Itoa(RetryAfterSeconds))
	case draft.ErrTypeProvider, draft.ErrTypeUnsupportedProvider, draft.ErrTypeMalformedOutput:
		writeError(w, "error generating email", status)
		return
	}
	writeError(w, de.Message, status)
}

func statusFor(t draft.ErrorType) int {
	switch t {
	case draft.ErrTypeNotFound:
		return http.StatusNotFound
	case draft.ErrTypeRateLimited:
		return http.StatusTooManyRequests
	case draft.ErrTypeDataIntegrity, draft.ErrTypeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func requester(w http.ResponseWriter, r *http.Request) (uint, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
	}
	return userID, ok
}

func requesterAndChat(w http.ResponseWriter, r *http.Request) (uint, uint, bool) {
	userID, ok := requester(w, r)
	if !ok {
		return 0, 0, false
	}
	chatID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil || chatID == 0 {
		writeError(w, "Invalid chat ID", http.StatusBadRequest)
		return 0, 0, false
	}
	return userID, uint(chatID), true
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// writeJSON is a helper for sending JSON responses.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError is a helper for sending JSON error responses.
func writeError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]string{"error": message})
}
