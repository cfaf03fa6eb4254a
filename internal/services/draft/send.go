// File: internal/services/draft/send.go
package draft

import (
	"context"
	"errors"
	"strings"

	"github.com/iyunix/go-easyemail/internal/domain"
	"github.com/iyunix/go-easyemail/internal/repository/chat"
	"github.com/iyunix/go-easyemail/internal/services/mail"
)

// SendGateway delivers drafts through the requester's linked mailbox and
// guarantees a chat is sent at most once.
type SendGateway struct {
	chats       chat.ChatRepository
	credentials CredentialStore
	resolver    *ContactResolver
	cipher      Cipher
	mailers     MailClientFactory
	renderer    Renderer
	locks       *ThreadLocks
	logger      Logger
}

func NewSendGateway(
	chats chat.ChatRepository,
	credentials CredentialStore,
	resolver *ContactResolver,
	cipher Cipher,
	mailers MailClientFactory,
	renderer Renderer,
	locks *ThreadLocks,
	logger Logger,
) (*SendGateway, error) {
	if chats == nil || credentials == nil || resolver == nil || cipher == nil {
		return nil, NewInvalidInputError("constructor", "repositories, resolver and cipher are required")
	}
	if mailers == nil || renderer == nil || logger == nil {
		return nil, NewInvalidInputError("constructor", "mail factory, renderer and logger are required")
	}
	if locks == nil {
		locks = NewThreadLocks()
	}
	return &SendGateway{
		chats:       chats,
		credentials: credentials,
		resolver:    resolver,
		cipher:      cipher,
		mailers:     mailers,
		renderer:    renderer,
		locks:       locks,
		logger:      logger,
	}, nil
}

// SendEmail sends the chat's email. A failed delivery leaves the chat
// unsent so it can be retried; a credential change is kept either way.
func (g *SendGateway) SendEmail(ctx context.Context, req SendRequest) error {
	if req.Requester == 0 {
		return NewInvalidInputError("send", "requester is required")
	}
	if strings.TrimSpace(req.Subject) == "" {
		return NewInvalidInputError("send", "subject is required")
	}

	unlock, err := g.locks.Lock(ctx, req.ChatID)
	if err != nil {
		return NewInternalError("send", "failed to lock chat", err)
	}
	defer unlock()

	existing, err := loadChat(ctx, g.chats, req.ChatID, req.Requester)
	if err != nil {
		return err
	}
	if existing.IsSent {
		return NewAlreadySentError("send", existing.ID)
	}

	cred, err := loadCredential(ctx, g.credentials, req.CredentialID, req.Requester)
	if err != nil {
		return err
	}
	if !existing.BoundTo(cred.ID) {
		if err := g.chats.BindCredential(ctx, existing.ID, req.Requester, cred.ID); err != nil {
			return NewInternalError("send", "failed to update chat credential", err)
		}
		g.logger.Info("chat credential changed", "chat_id", existing.ID, "credential_id", cred.ID)
	}

	recipients, err := g.resolver.Resolve(ctx, req.Contacts, req.Requester)
	if err != nil {
		return err
	}
	if len(recipients.To) == 0 {
		return NewInvalidInputError("send", "at least one recipient is required")
	}

	client, err := g.clientFor(ctx, cred)
	if err != nil {
		return err
	}

	rendered, err := g.renderer.Render(req.Body)
	if err != nil {
		return NewInternalError("send", "failed to render email", err)
	}

	err = client.SendEmail(ctx, cred.SenderAddress(), Emails(recipients.To), req.Subject, rendered, Emails(recipients.Cc), Emails(recipients.Bcc))
	if err != nil {
		g.logger.Error("mail provider send failed", "chat_id", existing.ID, "service", cred.Service, "error", err)
		return NewSendFailedError("failed to send email", err)
	}

	if err := g.chats.MarkSent(ctx, existing.ID, req.Requester); err != nil {
		if errors.Is(err, chat.ErrChatAlreadySent) {
			return NewAlreadySentError("send", existing.ID)
		}
		g.logger.Error("email sent but chat not marked", "chat_id", existing.ID, "error", err)
		return NewInternalError("send", "failed to mark chat as sent", err)
	}

	g.logger.Info("email sent", "chat_id", existing.ID, "user_id", req.Requester, "service", cred.Service)
	return nil
}

// ReplyEmail answers a message in the linked mailbox. It does not touch chats.
func (g *SendGateway) ReplyEmail(ctx context.Context, req ReplyRequest) error {
	if req.Requester == 0 {
		return NewInvalidInputError("reply", "requester is required")
	}
	if strings.TrimSpace(req.MessageID) == "" {
		return NewInvalidInputError("reply", "message id is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		return NewInvalidInputError("reply", "body is required")
	}

	cred, err := loadCredential(ctx, g.credentials, req.CredentialID, req.Requester)
	if err != nil {
		return err
	}

	recipients, err := g.resolver.Resolve(ctx, req.Contacts, req.Requester)
	if err != nil {
		return err
	}

	client, err := g.clientFor(ctx, cred)
	if err != nil {
		return err
	}

	rendered, err := g.renderer.Render(req.Body)
	if err != nil {
		return NewInternalError("reply", "failed to render email", err)
	}

	if err := client.ReplyEmail(ctx, cred.SenderAddress(), req.MessageID, rendered, req.Subject, Emails(recipients.Cc), Emails(recipients.Bcc)); err != nil {
		g.logger.Error("mail provider reply failed", "service", cred.Service, "error", err)
		return NewSendFailedError("failed to send reply", err)
	}

	g.logger.Info("reply sent", "user_id", req.Requester, "service", cred.Service)
	return nil
}

// clientFor opens the credential's token and builds its mail client.
func (g *SendGateway) clientFor(ctx context.Context, cred *domain.Credential) (mail.Client, error) {
	payload, err := g.cipher.Decrypt(cred.Data)
	if err != nil {
		return nil, NewDataIntegrityError("open_credential", "failed to decrypt email authentication", err)
	}

	client, err := g.mailers.ClientFor(ctx, cred.Service, payload)
	switch {
	case errors.Is(err, mail.ErrUnsupportedService):
		return nil, NewSendFailedError("unsupported email service", err)
	case errors.Is(err, mail.ErrInvalidToken):
		return nil, NewDataIntegrityError("open_credential", "stored email authentication is invalid", err)
	case err != nil:
		return nil, NewSendFailedError("failed to connect to email service", err)
	}
	return client, nil
}
