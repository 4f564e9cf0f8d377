package ollama

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/biodoia/goestate/internal/providers"
	"github.com/biodoia/goestate/pkg/config"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

var (
	ErrNotReady     = errors.New("local model not ready")
	ErrUnavailable  = errors.New("local model unavailable")
	ErrEmptyContent = errors.New("response contains empty content")
)

const providerName = "ollama"

// Stati di readiness del modello locale
const (
	stateUnknown int32 = iota
	stateAcquiring
	stateReady
	stateUnavailable
)

// Client implementa il provider del modello locale offline.
// L'acquisizione del modello avviene una sola volta per processo:
// se fallisce, lo stato unavailable resta in cache fino al riavvio.
type Client struct {
	cfg        config.OllamaConfig
	httpClient *resty.Client
	state      atomic.Int32
}

// NewClient crea un nuovo client Ollama
func NewClient(cfg config.OllamaConfig, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

// Name restituisce il nome del provider
func (c *Client) Name() string {
	return providerName
}

// Complete esegue una generazione locale, se il modello è pronto.
// Con stato unknown avvia l'acquisizione senza bloccare il turno corrente.
func (c *Client) Complete(ctx context.Context, req *providers.CompletionRequest) (*providers.Completion, error) {
	switch c.state.Load() {
	case stateUnavailable:
		return nil, providers.NewFailure(providers.FailureUnavailable, providerName, ErrUnavailable)
	case stateAcquiring:
		return nil, providers.NewFailure(providers.FailureUnavailable, providerName, ErrNotReady)
	case stateUnknown:
		if !c.ensureReady(ctx) {
			return nil, providers.NewFailure(providers.FailureUnavailable, providerName, ErrNotReady)
		}
	}

	return c.chat(ctx, req)
}

// ensureReady esegue il check rapido di presenza del modello e, se
// assente, avvia il pull in background. Restituisce true solo se il
// modello è già utilizzabile ora.
func (c *Client) ensureReady(ctx context.Context) bool {
	if !c.state.CompareAndSwap(stateUnknown, stateAcquiring) {
		// Un'altra sessione ha già preso in carico l'acquisizione
		return c.state.Load() == stateReady
	}

	present, reachable := c.modelPresent(ctx)
	if present {
		c.state.Store(stateReady)
		log.Info().Str("model", c.cfg.Model).Msg("Local model ready")
		return true
	}

	if !reachable {
		c.state.Store(stateUnavailable)
		log.Warn().
			Str("base_url", c.cfg.BaseURL).
			Msg("Local model runtime unreachable, disabling local tier for this process")
		return false
	}

	// Runtime raggiungibile ma modello assente: unico tentativo di pull,
	// isolato in background per non bloccare i turni delle sessioni
	go c.pullModel()
	return false
}

// modelPresent interroga /api/tags con un timeout breve
func (c *Client) modelPresent(ctx context.Context) (present, reachable bool) {
	probeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var tags tagsResponse
	resp, err := c.httpClient.R().
		SetContext(probeCtx).
		SetResult(&tags).
		Get("/api/tags")
	if err != nil || resp.IsError() {
		return false, false
	}

	for _, m := range tags.Models {
		if m.Name == c.cfg.Model || strings.HasPrefix(m.Name, c.cfg.Model+":") {
			return true, true
		}
	}
	return false, true
}

// pullModel tenta una sola volta il download del modello locale
func (c *Client) pullModel() {
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.PullTimeout)
	defer cancel()

	log.Info().
		Str("model", c.cfg.Model).
		Dur("timeout", c.cfg.PullTimeout).
		Msg("Pulling local model")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(pullRequest{Name: c.cfg.Model, Stream: false}).
		Post("/api/pull")

	if err != nil || resp.IsError() {
		c.state.Store(stateUnavailable)
		log.Warn().
			Err(err).
			Str("model", c.cfg.Model).
			Msg("Local model pull failed, disabling local tier for this process")
		return
	}

	c.state.Store(stateReady)
	log.Info().Str("model", c.cfg.Model).Msg("Local model pulled and ready")
}

// chat esegue la generazione via /api/chat
func (c *Client) chat(ctx context.Context, req *providers.CompletionRequest) (*providers.Completion, error) {
	maxTokens := req.MaxTokens
	if req.Relaxed {
		// Parametri rilassati: budget token raddoppiato
		maxTokens = req.MaxTokens * 2
	}

	body := chatRequest{
		Model:    c.cfg.Model,
		Messages: req.Messages,
		Stream:   false,
		Options: chatOptions{
			NumPredict:  maxTokens,
			Temperature: req.Temperature,
		},
	}

	var chatResp chatResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&chatResp).
		Post("/api/chat")

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, providers.NewFailure(providers.FailureTimeout, providerName, err)
		}
		return nil, providers.NewFailure(providers.FailureNetwork, providerName, err)
	}
	if resp.IsError() {
		return nil, providers.NewFailure(providers.FailureNetwork, providerName, ErrUnavailable)
	}

	text := strings.TrimSpace(chatResp.Message.Content)
	if text == "" {
		return nil, providers.NewFailure(providers.FailureMalformed, providerName, ErrEmptyContent)
	}

	return &providers.Completion{
		Text:     text,
		Model:    c.cfg.Model,
		Provider: providerName,
	}, nil
}
