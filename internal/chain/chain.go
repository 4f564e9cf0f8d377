// Package chain implementa la scala di fallback dei provider come
// macchina a stati esplicita: T1 remoto primario, T2 remoto rilassato,
// T3 modello locale, T4 risposta statica. Il tier terminale non può
// fallire, quindi ogni richiesta produce sempre un risultato.
package chain

import (
	"context"
	"time"

	"github.com/biodoia/goestate/internal/providers"
	"github.com/rs/zerolog/log"
)

// Attempt descrive un singolo tentativo su un tier, osservabile
type Attempt struct {
	Tier     Tier
	Provider string
	Duration time.Duration
	Success  bool
	Failure  providers.FailureKind
}

// AttemptObserver riceve un evento per ogni tentativo della catena
type AttemptObserver func(Attempt)

// Result è l'esito finale della catena
type Result struct {
	Completion *providers.Completion
	Tier       Tier
	Confidence float64
}

// Chain attraversa i tier in ordine fisso fino al primo successo
type Chain struct {
	remote providers.Provider
	local  providers.Provider
	static providers.Provider

	// Soglia minima di caratteri del quality gate
	minChars int
}

// New crea una catena con i tre provider e la soglia di qualità
func New(remote, local, static providers.Provider, minChars int) *Chain {
	return &Chain{
		remote:   remote,
		local:    local,
		static:   static,
		minChars: minChars,
	}
}

// providerFor mappa il tier sul provider che lo serve
func (c *Chain) providerFor(t Tier) providers.Provider {
	switch t {
	case TierRemotePrimary, TierRemoteRelaxed:
		return c.remote
	case TierLocal:
		return c.local
	default:
		return c.static
	}
}

// Execute attraversa la scala e restituisce sempre un Result.
// Un fallimento di credenziali su un tier remoto salta direttamente
// al modello locale senza ritentare l'altro tier remoto.
// L'observer, se non nil, riceve un evento per ogni tentativo.
func (c *Chain) Execute(ctx context.Context, req *providers.CompletionRequest, obs AttemptObserver) *Result {
	skipRemote := false

	for _, tier := range ladder {
		if tier.Remote() && skipRemote {
			continue
		}

		completion, err := c.attemptTier(ctx, tier, req, obs)
		if err == nil {
			return &Result{
				Completion: completion,
				Tier:       tier,
				Confidence: tier.Confidence(),
			}
		}

		if providers.KindOf(err) == providers.FailureCredential {
			skipRemote = true
		}

		log.Debug().
			Str("tier", tier.String()).
			Str("failure", providers.KindOf(err).String()).
			Msg("Tier failed, advancing chain")
	}

	// Irraggiungibile: il tier statico non fallisce mai. Difesa per
	// provider statici sostituiti nei test.
	completion, _ := c.static.Complete(ctx, req)
	return &Result{
		Completion: completion,
		Tier:       TierStatic,
		Confidence: TierStatic.Confidence(),
	}
}

// attemptTier esegue un tier con il quality gate: se il testo è sotto
// soglia viene concesso un solo retry con parametri rilassati, poi il
// tier è considerato fallito.
func (c *Chain) attemptTier(ctx context.Context, tier Tier, req *providers.CompletionRequest, obs AttemptObserver) (*providers.Completion, error) {
	provider := c.providerFor(tier)

	tierReq := *req
	if tier == TierRemoteRelaxed {
		tierReq = relaxRequest(tierReq)
	}

	completion, err := c.attempt(ctx, tier, provider, &tierReq, obs)
	if err == nil && c.belowThreshold(completion) {
		err = providers.NewFailure(providers.FailureLowQuality, provider.Name(), nil)
	}
	if err == nil {
		return completion, nil
	}

	// Retry rilassato solo per output degenere, una volta per tier
	if providers.KindOf(err) == providers.FailureLowQuality && !tierReq.Relaxed {
		retryReq := relaxRequest(tierReq)

		completion, retryErr := c.attempt(ctx, tier, provider, &retryReq, obs)
		if retryErr == nil && !c.belowThreshold(completion) {
			return completion, nil
		}
		if retryErr == nil {
			retryErr = providers.NewFailure(providers.FailureLowQuality, provider.Name(), nil)
		}
		return nil, retryErr
	}

	return nil, err
}

// relaxRequest produce la variante rilassata: parametri allentati e,
// se fornito, il bundle di istruzioni semplificato al posto di quello
// completo
func relaxRequest(req providers.CompletionRequest) providers.CompletionRequest {
	req.Relaxed = true
	if len(req.RelaxedMessages) > 0 {
		req.Messages = req.RelaxedMessages
	}
	return req
}

// attempt esegue una chiamata e notifica l'observer
func (c *Chain) attempt(ctx context.Context, tier Tier, provider providers.Provider, req *providers.CompletionRequest, obs AttemptObserver) (*providers.Completion, error) {
	start := time.Now()
	completion, err := provider.Complete(ctx, req)
	duration := time.Since(start)

	if obs != nil {
		obs(Attempt{
			Tier:     tier,
			Provider: provider.Name(),
			Duration: duration,
			Success:  err == nil,
			Failure:  providers.KindOf(err),
		})
	}

	return completion, err
}

// belowThreshold applica la soglia minima del quality gate
func (c *Chain) belowThreshold(completion *providers.Completion) bool {
	return completion == nil || len(completion.Text) < c.minChars
}
