// File: internal/services/ai/workers_provider.go
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

const (
	workersGatewayProvider = "workers-ai"
	workersRateLimited     = "Rate limited"
	maxWorkersResponseSize = 4 << 20
)

type workersQuery struct {
	Messages []Message `json:"messages"`
}

type workersRequest struct {
	Provider string            `json:"provider"`
	Endpoint string            `json:"endpoint"`
	Headers  map[string]string `json:"headers"`
	Query    workersQuery      `json:"query"`
}

// WorkersProvider posts to a universal inference gateway that fronts a
// workers-ai model. Replies look like
// {"success": bool, "error": [{"message": ...}], "result": {"response": ...}}.
type WorkersProvider struct {
	config     *Config
	httpClient *http.Client
}

func NewWorkersProvider(config *Config, httpClient *http.Client) *WorkersProvider {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &WorkersProvider{config: config, httpClient: httpClient}
}

func (p *WorkersProvider) Name() string { return ProviderWorkersAI }

func (p *WorkersProvider) Complete(ctx context.Context, messages []Message) (string, error) {
	payload, err := json.Marshal([]workersRequest{{
		Provider: workersGatewayProvider,
		Endpoint: p.config.WorkersModel,
		Headers: map[string]string{
			"Authorization": "Bearer " + p.config.WorkersKey,
			"Content-Type":  "application/json",
		},
		Query: workersQuery{Messages: messages},
	}})
	if err != nil {
		return "", NewProviderError(ProviderWorkersAI, "failed to encode request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.WorkersURL, bytes.NewReader(payload))
	if err != nil {
		return "", NewProviderError(ProviderWorkersAI, "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", NewTimeoutError(ProviderWorkersAI, err)
		}
		return "", NewProviderError(ProviderWorkersAI, "request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxWorkersResponseSize))
	if err != nil {
		return "", NewProviderError(ProviderWorkersAI, "failed to read response", err)
	}

	return parseWorkersResponse(resp.StatusCode, raw)
}

func parseWorkersResponse(status int, raw []byte) (string, error) {
	if !gjson.ValidBytes(raw) {
		if status == http.StatusTooManyRequests {
			return "", NewRateLimitError(ProviderWorkersAI, workersRateLimited)
		}
		providerErr := NewProviderError(ProviderWorkersAI, fmt.Sprintf("invalid response body (status %d)", status), nil)
		providerErr.Code = status
		return "", providerErr
	}

	parsed := gjson.ParseBytes(raw)
	if !parsed.Get("success").Bool() {
		message := parsed.Get("error.0.message").String()
		if message == workersRateLimited || status == http.StatusTooManyRequests {
			return "", NewRateLimitError(ProviderWorkersAI, workersRateLimited)
		}
		if message == "" {
			message = "request was not successful"
		}
		providerErr := NewProviderError(ProviderWorkersAI, message, nil)
		providerErr.Code = status
		return "", providerErr
	}

	text := parsed.Get("result.response")
	if text.Type != gjson.String {
		return "", NewProviderError(ProviderWorkersAI, "response is missing result.response", nil)
	}
	return text.String(), nil
}
