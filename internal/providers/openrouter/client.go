package openrouter

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/biodoia/goestate/internal/providers"
	"github.com/biodoia/goestate/pkg/config"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

var (
	ErrMissingAPIKey  = errors.New("missing API key")
	ErrInvalidAPIKey  = errors.New("invalid API key")
	ErrEmptyChoice    = errors.New("response contains no choices")
	ErrEmptyContent   = errors.New("response contains empty content")
	ErrUpstreamFailed = errors.New("upstream returned an error status")
)

const providerName = "openrouter"

// Client implementa il provider remoto primario via API OpenRouter
type Client struct {
	cfg        config.OpenRouterConfig
	httpClient *resty.Client
}

// NewClient crea un nuovo client OpenRouter
func NewClient(cfg config.OpenRouterConfig, timeout time.Duration) *Client {
	c := &Client{
		cfg:        cfg,
		httpClient: resty.New(),
	}
	c.configureHTTPClient(timeout)
	return c
}

// configureHTTPClient configura il client HTTP con timeout e logging
func (c *Client) configureHTTPClient(timeout time.Duration) {
	c.httpClient.
		SetBaseURL(c.cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	if c.cfg.APIKey != "" {
		c.httpClient.SetHeader("Authorization", "Bearer "+c.cfg.APIKey)
	}

	c.httpClient.OnBeforeRequest(func(client *resty.Client, req *resty.Request) error {
		log.Debug().
			Str("provider", providerName).
			Str("method", req.Method).
			Str("url", req.URL).
			Msg("OpenRouter API request")
		return nil
	})

	c.httpClient.OnAfterResponse(func(client *resty.Client, resp *resty.Response) error {
		log.Debug().
			Str("provider", providerName).
			Int("status", resp.StatusCode()).
			Dur("duration", resp.Time()).
			Msg("OpenRouter API response")
		return nil
	})
}

// Name restituisce il nome del provider
func (c *Client) Name() string {
	return providerName
}

// HasCredentials verifica se il client dispone di una chiave API
func (c *Client) HasCredentials() bool {
	return c.cfg.APIKey != ""
}

// modelFor restituisce il modello configurato per il ruolo agente
func (c *Client) modelFor(req *providers.CompletionRequest) string {
	if m, ok := c.cfg.Models[string(req.AgentRole)]; ok && m != "" {
		return m
	}
	return c.cfg.DefaultModel
}

// Complete esegue una chat completion remota
func (c *Client) Complete(ctx context.Context, req *providers.CompletionRequest) (*providers.Completion, error) {
	if c.cfg.APIKey == "" {
		return nil, providers.NewFailure(providers.FailureCredential, providerName, ErrMissingAPIKey)
	}

	body := chatCompletionRequest{
		Model:       c.modelFor(req),
		Messages:    req.Messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.Relaxed {
		// Parametri rilassati: budget token raddoppiato
		body.MaxTokens = req.MaxTokens * 2
	}

	var chatResp chatCompletionResponse
	var errResp errorResponse

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&chatResp).
		SetError(&errResp).
		Post("/chat/completions")

	if err != nil {
		return nil, providers.NewFailure(classifyTransportError(err), providerName, err)
	}

	if resp.IsError() {
		return nil, c.handleErrorResponse(resp.StatusCode(), &errResp)
	}

	text := chatResp.firstContent()
	if text == "" {
		return nil, providers.NewFailure(providers.FailureMalformed, providerName, ErrEmptyContent)
	}

	return &providers.Completion{
		Text:     strings.TrimSpace(text),
		Model:    chatResp.Model,
		Provider: providerName,
	}, nil
}

// handleErrorResponse mappa lo status HTTP su un FailureKind
func (c *Client) handleErrorResponse(status int, errResp *errorResponse) error {
	msg := errResp.message()

	switch status {
	case 401, 403:
		log.Warn().
			Str("provider", providerName).
			Int("status", status).
			Str("message", msg).
			Msg("OpenRouter rejected credentials")
		return providers.NewFailure(providers.FailureCredential, providerName, ErrInvalidAPIKey)
	case 408:
		return providers.NewFailure(providers.FailureTimeout, providerName, ErrUpstreamFailed)
	default:
		log.Warn().
			Str("provider", providerName).
			Int("status", status).
			Str("message", msg).
			Msg("OpenRouter request failed")
		return providers.NewFailure(providers.FailureNetwork, providerName, ErrUpstreamFailed)
	}
}

// classifyTransportError distingue timeout da errori di rete generici
func classifyTransportError(err error) providers.FailureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return providers.FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return providers.FailureTimeout
	}
	return providers.FailureNetwork
}
