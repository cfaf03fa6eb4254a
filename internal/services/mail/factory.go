// File: internal/services/mail/factory.go
package mail

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/iyunix/go-easyemail/internal/domain"
)

// OAuthSettings holds the OAuth apps used to refresh stored tokens.
type OAuthSettings struct {
	GoogleClientID        string
	GoogleClientSecret    string
	MicrosoftClientID     string
	MicrosoftClientSecret string
	MicrosoftTenant       string

	// Overrides for tests; empty means the public endpoints.
	GmailEndpoint string
	GraphBaseURL  string
}

// Factory builds a Client for a credential's service from its decrypted token payload.
type Factory struct {
	settings OAuthSettings
	logger   Logger
}

func NewFactory(settings OAuthSettings, logger Logger) *Factory {
	if settings.MicrosoftTenant == "" {
		settings.MicrosoftTenant = "common"
	}
	return &Factory{settings: settings, logger: logger}
}

func (f *Factory) ClientFor(ctx context.Context, service string, payload []byte) (Client, error) {
	switch service {
	case domain.ServiceGoogle, domain.ServiceMicrosoft:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedService, service)
	}

	token, err := DecodeToken(payload)
	if err != nil {
		return nil, err
	}

	if service == domain.ServiceGoogle {
		var opts []option.ClientOption
		if f.settings.GmailEndpoint != "" {
			opts = append(opts, option.WithEndpoint(f.settings.GmailEndpoint))
		}
		return NewGoogleClient(ctx, f.googleConfig(), token, f.logger, opts...)
	}
	return NewMicrosoftClient(ctx, f.microsoftConfig(), token, f.settings.GraphBaseURL, f.logger), nil
}

func (f *Factory) googleConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     f.settings.GoogleClientID,
		ClientSecret: f.settings.GoogleClientSecret,
		Scopes:       []string{gmail.GmailSendScope, gmail.GmailReadonlyScope},
		Endpoint:     google.Endpoint,
	}
}

func (f *Factory) microsoftConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     f.settings.MicrosoftClientID,
		ClientSecret: f.settings.MicrosoftClientSecret,
		Scopes:       []string{"https://graph.microsoft.com/Mail.Send", "offline_access"},
		Endpoint:     microsoft.AzureADEndpoint(f.settings.MicrosoftTenant),
	}
}
