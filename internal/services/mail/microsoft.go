// File: internal/services/mail/microsoft.go
package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"
)

const GraphBaseURL = "https://graph.microsoft.com/v1.0"

type graphAddress struct {
	Address string `json:"address"`
	Name    string `json:"name,omitempty"`
}

type graphRecipient struct {
	EmailAddress graphAddress `json:"emailAddress"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphMessage struct {
	Subject       string           `json:"subject,omitempty"`
	Body          *graphBody       `json:"body,omitempty"`
	ToRecipients  []graphRecipient `json:"toRecipients,omitempty"`
	CcRecipients  []graphRecipient `json:"ccRecipients,omitempty"`
	BccRecipients []graphRecipient `json:"bccRecipients,omitempty"`
}

type graphSendRequest struct {
	Message         graphMessage `json:"message"`
	SaveToSentItems bool         `json:"saveToSentItems"`
}

type graphReplyRequest struct {
	Message graphMessage `json:"message"`
	Comment string       `json:"comment"`
}

// MicrosoftClient sends through Microsoft Graph as the signed-in user.
type MicrosoftClient struct {
	httpClient *http.Client
	baseURL    string
	logger     Logger
}

func NewMicrosoftClient(ctx context.Context, config *oauth2.Config, token *oauth2.Token, baseURL string, logger Logger) *MicrosoftClient {
	if baseURL == "" {
		baseURL = GraphBaseURL
	}
	return &MicrosoftClient{
		httpClient: config.Client(ctx, token),
		baseURL:    baseURL,
		logger:     logger,
	}
}

func (c *MicrosoftClient) SendEmail(ctx context.Context, sender string, to []string, subject, body string, cc, bcc []string) error {
	if len(to) == 0 {
		return ErrNoRecipients
	}

	req := graphSendRequest{
		Message: graphMessage{
			Subject:       subject,
			Body:          &graphBody{ContentType: "HTML", Content: body},
			ToRecipients:  graphRecipients(to),
			CcRecipients:  graphRecipients(cc),
			BccRecipients: graphRecipients(bcc),
		},
		SaveToSentItems: true,
	}
	if err := c.post(ctx, "/me/sendMail", req); err != nil {
		return fmt.Errorf("graph send failed: %w", err)
	}

	c.logger.Info("graph message sent", "sender", sender, "recipients", len(to)+len(cc)+len(bcc))
	return nil
}

// ReplyEmail replies to the sender of messageID. Graph derives the
// recipient and "RE:" subject itself unless subject is given.
func (c *MicrosoftClient) ReplyEmail(ctx context.Context, sender, messageID, body, subject string, cc, bcc []string) error {
	req := graphReplyRequest{
		Message: graphMessage{
			Subject:       subject,
			CcRecipients:  graphRecipients(cc),
			BccRecipients: graphRecipients(bcc),
		},
		Comment: body,
	}
	if err := c.post(ctx, "/me/messages/"+url.PathEscape(messageID)+"/reply", req); err != nil {
		return fmt.Errorf("graph reply failed: %w", err)
	}

	c.logger.Info("graph reply sent", "sender", sender, "message_id", messageID)
	return nil
}

func (c *MicrosoftClient) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}

func graphRecipients(addrs []string) []graphRecipient {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]graphRecipient, 0, len(addrs))
	for _, addr := range addrs {
		parsed := parseRecipient(addr)
		out = append(out, graphRecipient{EmailAddress: graphAddress{Address: parsed.Address, Name: parsed.Name}})
	}
	return out
}
