// File: internal/services/mail/google.go
package mail

import (
	"context"
	"encoding/base64"
	"fmt"
	"html"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GoogleClient sends through the Gmail API on behalf of the linked account.
type GoogleClient struct {
	service *gmail.Service
	userID  string
	logger  Logger
	now     func() time.Time
}

func NewGoogleClient(ctx context.Context, config *oauth2.Config, token *oauth2.Token, logger Logger, opts ...option.ClientOption) (*GoogleClient, error) {
	httpClient := config.Client(ctx, token)

	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	service, err := gmail.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail service: %w", err)
	}

	return &GoogleClient{
		service: service,
		userID:  "me",
		logger:  logger,
		now:     time.Now,
	}, nil
}

func (c *GoogleClient) SendEmail(ctx context.Context, sender string, to []string, subject, body string, cc, bcc []string) error {
	raw, err := buildMIME(outgoing{
		Sender:  sender,
		To:      to,
		Cc:      cc,
		Bcc:     bcc,
		Subject: subject,
		HTML:    body,
	}, c.now())
	if err != nil {
		return err
	}

	sent, err := c.service.Users.Messages.Send(c.userID, &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString(raw),
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail send failed: %w", err)
	}

	c.logger.Info("gmail message sent", "message_id", sent.Id, "recipients", len(to)+len(cc)+len(bcc))
	return nil
}

// ReplyEmail answers messageID inside its Gmail thread. An empty subject
// becomes "Re: <original subject>".
func (c *GoogleClient) ReplyEmail(ctx context.Context, sender, messageID, body, subject string, cc, bcc []string) error {
	original, err := c.service.Users.Messages.Get(c.userID, messageID).
		Format("metadata").
		MetadataHeaders("Subject", "From", "Date", "Message-ID").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to get original message: %w", err)
	}

	headers := map[string]string{}
	if original.Payload != nil {
		for _, h := range original.Payload.Headers {
			headers[strings.ToLower(h.Name)] = h.Value
		}
	}

	if subject == "" {
		subject = replySubject(headers["subject"])
	}
	originalFrom := headers["from"]
	if originalFrom == "" {
		return fmt.Errorf("original message %s has no sender", messageID)
	}

	quoted := fmt.Sprintf("%s<hr>\nOn %s, %s wrote:\n\n%s",
		body, html.EscapeString(headers["date"]), html.EscapeString(originalFrom), html.EscapeString(original.Snippet))

	threading := map[string]string{}
	if id := headers["message-id"]; id != "" {
		threading["In-Reply-To"] = id
		threading["References"] = id
	}

	raw, err := buildMIME(outgoing{
		Sender:  sender,
		To:      []string{originalFrom},
		Cc:      cc,
		Bcc:     bcc,
		Subject: subject,
		HTML:    quoted,
		Headers: threading,
	}, c.now())
	if err != nil {
		return err
	}

	sent, err := c.service.Users.Messages.Send(c.userID, &gmail.Message{
		Raw:      base64.URLEncoding.EncodeToString(raw),
		ThreadId: original.ThreadId,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("gmail reply failed: %w", err)
	}

	c.logger.Info("gmail reply sent", "message_id", sent.Id, "thread_id", original.ThreadId)
	return nil
}
