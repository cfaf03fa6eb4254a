// File: internal/services/mail/token.go
package mail

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// storedToken covers both the Google authorized-user layout ("token") and
// the Microsoft token-response layout ("access_token").
type storedToken struct {
	Token        string      `json:"token"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	Expiry       string      `json:"expiry"`
	ExpiresIn    json.Number `json:"expires_in"`
}

// DecodeToken parses a decrypted credential payload. Older payloads were
// written with single quotes and are normalized before parsing.
func DecodeToken(payload []byte) (*oauth2.Token, error) {
	normalized := strings.ReplaceAll(string(payload), "'", `"`)

	var stored storedToken
	if err := json.Unmarshal([]byte(normalized), &stored); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	token := &oauth2.Token{
		AccessToken:  stored.AccessToken,
		RefreshToken: stored.RefreshToken,
		TokenType:    stored.TokenType,
	}
	if token.AccessToken == "" {
		token.AccessToken = stored.Token
	}
	if token.AccessToken == "" && token.RefreshToken == "" {
		return nil, fmt.Errorf("%w: no access or refresh token", ErrInvalidToken)
	}

	if stored.Expiry != "" {
		if expiry, err := time.Parse(time.RFC3339Nano, stored.Expiry); err == nil {
			token.Expiry = expiry
		}
	}
	// Without a known expiry a refreshable token is treated as stale so the
	// first request refreshes it.
	if token.Expiry.IsZero() && token.RefreshToken != "" {
		token.Expiry = time.Unix(1, 0)
	}

	return token, nil
}
