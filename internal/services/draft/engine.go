// File: internal/services/draft/engine.go
package draft

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/repository/chat"
	"github.com/iyunix/go-easyemail/internal/repository/credential"
	"github.com/iyunix/go-easyemail/internal/repository/user"
	"github.com/iyunix/go-easyemail/internal/services/ai"
)

// Engine drafts, revises, paraphrases and answers emails with a language model.
type Engine struct {
	config      *Config
	gateway     ai.Completer
	chats       chat.ChatRepository
	store       *ConversationStore
	resolver    *ContactResolver
	credentials CredentialStore
	users       UserStore
	extractor   TextExtractor
	locks       *ThreadLocks
	logger      Logger
	now         func() time.Time
}

func NewEngine(
	config *Config,
	gateway ai.Completer,
	chats chat.ChatRepository,
	store *ConversationStore,
	resolver *ContactResolver,
	credentials CredentialStore,
	users UserStore,
	extractor TextExtractor,
	locks *ThreadLocks,
	logger Logger,
) (*Engine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, NewInvalidInputError("config", err.Error())
	}
	if gateway == nil || chats == nil || store == nil || resolver == nil || credentials == nil || users == nil {
		return nil, NewInvalidInputError("constructor", "gateway, repositories, store and resolver are required")
	}
	if extractor == nil || logger == nil {
		return nil, NewInvalidInputError("constructor", "text extractor and logger are required")
	}
	if locks == nil {
		locks = NewThreadLocks()
	}

	return &Engine{
		config:      config,
		gateway:     gateway,
		chats:       chats,
		store:       store,
		resolver:    resolver,
		credentials: credentials,
		users:       users,
		extractor:   extractor,
		locks:       locks,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// SetClock replaces the clock used for the date in system prompts.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
}

// GenerateEmail drafts a new email and opens a chat for it. The chat and its
// two turns are written together only after the model answered.
func (e *Engine) GenerateEmail(ctx context.Context, req GenerateRequest) (*DraftResult, error) {
	if err := e.validateDraftInput("generate", req.Requester, req.Instruction, req.LanguageTone); err != nil {
		return nil, err
	}

	cred, err := e.loadCredential(ctx, req.CredentialID, req.Requester)
	if err != nil {
		return nil, err
	}
	sender, err := e.loadUser(ctx, req.Requester)
	if err != nil {
		return nil, err
	}

	recipients, err := e.resolver.Resolve(ctx, req.Contacts, req.Requester)
	if err != nil {
		return nil, err
	}
	if len(recipients.To) == 0 {
		return nil, NewInvalidInputError("generate", "at least one recipient is required")
	}

	prompt := draftPrompt{
		credential:   cred,
		user:         sender,
		recipients:   recipients,
		instruction:  req.Instruction,
		languageTone: req.LanguageTone,
		guidance:     e.guidance(req.Length),
	}
	messages := []ai.Message{
		draftSystemMessage(e.now()),
		{Role: ai.RoleUser, Content: prompt.render()},
	}

	subject, body, err := e.draft(ctx, "generate", req.Provider, messages)
	if err != nil {
		return nil, err
	}

	input := UserTurn{Contacts: req.Contacts, Instruction: req.Instruction, LanguageTone: req.LanguageTone, Length: req.Length}
	output := AssistantTurn{Subject: subject, Body: body}

	credentialID := cred.ID
	newChat := &domain.Chat{UserID: req.Requester, OAuthID: &credentialID, Name: subject}
	userMsg, assistantMsg, err := e.store.Start(ctx, newChat, input, output)
	if err != nil {
		e.logger.Error("failed to save generated draft", "user_id", req.Requester, "error", err)
		return nil, err
	}

	e.logger.Info("email generated", "chat_id", newChat.ID, "user_id", req.Requester)
	return &DraftResult{
		ChatID:             newChat.ID,
		AssistantMessageID: assistantMsg.ID,
		UserMessageID:      userMsg.ID,
		Contacts:           req.Contacts,
		User:               newSenderProfile(sender, cred),
		Input:              input,
		Output:             output,
	}, nil
}

// ModifyEmail revises the latest draft of a chat using its recent history.
func (e *Engine) ModifyEmail(ctx context.Context, req ModifyRequest) (*DraftResult, error) {
	if err := e.validateDraftInput("modify", req.Requester, req.Instruction, req.LanguageTone); err != nil {
		return nil, err
	}

	unlock, err := e.locks.Lock(ctx, req.ChatID)
	if err != nil {
		return nil, NewInternalError("modify", "failed to lock chat", err)
	}
	defer unlock()

	existing, err := e.loadChat(ctx, req.ChatID, req.Requester)
	if err != nil {
		return nil, err
	}
	if existing.IsSent {
		return nil, NewAlreadySentError("modify", existing.ID)
	}
	if existing.OAuthID == nil {
		return nil, NewNotFoundError("modify", "email authentication not found", nil)
	}

	cred, err := e.loadCredential(ctx, *existing.OAuthID, req.Requester)
	if err != nil {
		return nil, err
	}
	sender, err := e.loadUser(ctx, req.Requester)
	if err != nil {
		return nil, err
	}

	recipients, err := e.resolver.Resolve(ctx, req.Contacts, req.Requester)
	if err != nil {
		return nil, err
	}
	if len(recipients.To) == 0 {
		return nil, NewInvalidInputError("modify", "at least one recipient is required")
	}

	history, hasDraft, err := e.store.Replay(ctx, existing.ID, req.Requester, e.config.HistoryLimit)
	if err != nil {
		e.logger.Error("failed to replay chat history", "chat_id", existing.ID, "error", err)
		return nil, err
	}
	if !hasDraft {
		return nil, NewNoDraftError(existing.ID)
	}

	prompt := draftPrompt{
		credential:   cred,
		user:         sender,
		recipients:   recipients,
		instruction:  req.Instruction,
		languageTone: req.LanguageTone,
		guidance:     e.guidance(req.Length),
		modify:       true,
	}
	messages := make([]ai.Message, 0, len(history)+2)
	messages = append(messages, draftSystemMessage(e.now()))
	messages = append(messages, history...)
	messages = append(messages, ai.Message{Role: ai.RoleUser, Content: prompt.render()})

	subject, body, err := e.draft(ctx, "modify", req.Provider, messages)
	if err != nil {
		return nil, err
	}

	input := UserTurn{Contacts: req.Contacts, Instruction: req.Instruction, LanguageTone: req.LanguageTone, Length: req.Length}
	output := AssistantTurn{Subject: subject, Body: body}

	userMsg, assistantMsg, err := e.store.Append(ctx, existing.ID, req.Requester, subject, input, output)
	if err != nil {
		return nil, err
	}

	e.logger.Info("email modified", "chat_id", existing.ID, "user_id", req.Requester, "history", len(history))
	return &DraftResult{
		ChatID:             existing.ID,
		AssistantMessageID: assistantMsg.ID,
		UserMessageID:      userMsg.ID,
		Contacts:           req.Contacts,
		User:               newSenderProfile(sender, cred),
		Input:              input,
		Output:             output,
	}, nil
}

// ParaphraseText rephrases text and keeps its trailing punctuation.
func (e *Engine) ParaphraseText(ctx context.Context, text, provider string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", NewInvalidInputError("paraphrase", "text is required")
	}
	if len(text) > e.config.MaxTextSize {
		return "", NewInvalidInputError("paraphrase", "text is too long")
	}

	generated, err := e.complete(ctx, "paraphrase", provider, paraphraseMessages(text))
	if err != nil {
		return "", err
	}
	return restorePunctuation(text, generated), nil
}

// SmartReply drafts a reply to a received email. Nothing is stored.
func (e *Engine) SmartReply(ctx context.Context, req SmartReplyRequest) (string, error) {
	if req.Requester == 0 {
		return "", NewInvalidInputError("smart_reply", "requester is required")
	}
	if strings.TrimSpace(req.Body) == "" && strings.TrimSpace(req.Subject) == "" {
		return "", NewInvalidInputError("smart_reply", "subject or body is required")
	}
	if len(req.Body) > e.config.MaxTextSize || len(req.Instruction) > e.config.MaxInstructionSize {
		return "", NewInvalidInputError("smart_reply", "input is too long")
	}

	cred, err := e.loadCredential(ctx, req.CredentialID, req.Requester)
	if err != nil {
		return "", err
	}

	body, err := e.extractor.ExtractText(req.Body)
	if err != nil {
		return "", NewInvalidInputError("smart_reply", "could not read email body")
	}

	messages := replyMessages(e.now(), cred, req.Subject, body, req.Sender, req.Instruction)
	reply, err := e.complete(ctx, "smart_reply", req.Provider, messages)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}

// draft calls the model and parses a subject and body out of its answer.
func (e *Engine) draft(ctx context.Context, operation, provider string, messages []ai.Message) (string, string, error) {
	text, err := e.complete(ctx, operation, provider, messages)
	if err != nil {
		return "", "", err
	}

	subject, body, err := ParseDraft(text)
	if err != nil {
		e.logger.Warn("model output drift", "operation", operation, "provider", provider, "error", err, "output_length", len(text))
		return "", "", err
	}
	return subject, body, nil
}

func (e *Engine) complete(ctx context.Context, operation, provider string, messages []ai.Message) (string, error) {
	text, err := e.gateway.Complete(ctx, provider, messages)
	if err == nil {
		return text, nil
	}

	draftErr := &DraftError{Operation: operation, Cause: err}
	switch {
	case ai.IsType(err, ai.ErrTypeRateLimit):
		draftErr.Type, draftErr.Message = ErrTypeRateLimited, "rate limited, please try again later"
	case ai.IsType(err, ai.ErrTypeUnsupported):
		draftErr.Type, draftErr.Message = ErrTypeUnsupportedProvider, "unsupported AI service"
	case ai.IsType(err, ai.ErrTypeTimeout):
		draftErr.Type, draftErr.Message = ErrTypeProvider, "error generating email: model timed out"
	default:
		draftErr.Type, draftErr.Message = ErrTypeProvider, "error generating email"
	}
	e.logger.Error("provider call failed", "operation", operation, "provider", provider, "type", string(draftErr.Type), "error", err)
	return "", draftErr
}

func (e *Engine) validateDraftInput(operation string, requester uint, instruction, tone string) error {
	if requester == 0 {
		return NewInvalidInputError(operation, "requester is required")
	}
	if strings.TrimSpace(instruction) == "" {
		return NewInvalidInputError(operation, "instruction is required")
	}
	if len(instruction) > e.config.MaxInstructionSize || len(tone) > e.config.MaxInstructionSize {
		return NewInvalidInputError(operation, "instruction or tone is too long")
	}
	return nil
}

func (e *Engine) guidance(length string) string {
	guidance, ok := LengthGuidance(length)
	if !ok {
		e.logger.Warn("unknown email length category", "length", length)
	}
	return guidance
}

func (e *Engine) loadChat(ctx context.Context, chatID, requester uint) (*domain.Chat, error) {
	return loadChat(ctx, e.chats, chatID, requester)
}

func (e *Engine) loadCredential(ctx context.Context, credentialID, requester uint) (*domain.Credential, error) {
	return loadCredential(ctx, e.credentials, credentialID, requester)
}

func (e *Engine) loadUser(ctx context.Context, requester uint) (*domain.User, error) {
	u, err := e.users.FindByID(ctx, requester)
	if errors.Is(err, user.ErrUserNotFound) {
		return nil, NewNotFoundError("load_user", "user not found", err)
	}
	if err != nil {
		return nil, NewInternalError("load_user", "failed to load user", err)
	}
	return u, nil
}

func loadChat(ctx context.Context, chats chat.ChatRepository, chatID, requester uint) (*domain.Chat, error) {
	c, err := chats.FindByIDAndUserID(ctx, chatID, requester)
	if errors.Is(err, chat.ErrChatNotFound) {
		return nil, &DraftError{Type: ErrTypeNotFound, Operation: "load_chat", Message: "chat not found", ChatID: chatID, UserID: requester, Cause: err}
	}
	if err != nil {
		return nil, NewInternalError("load_chat", "failed to load chat", err)
	}
	return c, nil
}

func loadCredential(ctx context.Context, credentials CredentialStore, credentialID, requester uint) (*domain.Credential, error) {
	cred, err := credentials.FindByIDAndUserID(ctx, credentialID, requester)
	if errors.Is(err, credential.ErrCredentialNotFound) {
		return nil, NewNotFoundError("load_credential", "email authentication not found", err)
	}
	if err != nil {
		return nil, NewInternalError("load_credential", fmt.Sprintf("failed to load credential %d", credentialID), err)
	}
	return cred, nil
}
