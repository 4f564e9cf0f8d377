package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/biodoia/goestate/pkg/models"
)

// FailureKind classifica i fallimenti di un provider.
// Ogni fallimento è transiente e confinato al tier che lo ha prodotto.
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	// Credenziale mancante o rifiutata: salta tutti i tier remoti
	FailureCredential
	FailureNetwork
	FailureTimeout
	// Payload di risposta non decodificabile o senza scelte
	FailureMalformed
	// Testo sotto la soglia minima del quality gate
	FailureLowQuality
	// Provider non pronto (modello locale non acquisito)
	FailureUnavailable
)

// String restituisce il nome leggibile del tipo di fallimento
func (k FailureKind) String() string {
	switch k {
	case FailureCredential:
		return "credential"
	case FailureNetwork:
		return "network"
	case FailureTimeout:
		return "timeout"
	case FailureMalformed:
		return "malformed"
	case FailureLowQuality:
		return "low_quality"
	case FailureUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Failure è il risultato negativo esplicito di una chiamata provider
type Failure struct {
	Kind     FailureKind
	Provider string
	Err      error
}

// Error implementa error
func (f *Failure) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s failure: %v", f.Provider, f.Kind, f.Err)
	}
	return fmt.Sprintf("%s: %s failure", f.Provider, f.Kind)
}

// Unwrap espone la causa originale
func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure costruisce un Failure
func NewFailure(kind FailureKind, provider string, err error) *Failure {
	return &Failure{Kind: kind, Provider: provider, Err: err}
}

// KindOf estrae il FailureKind da un errore qualsiasi
func KindOf(err error) FailureKind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return FailureUnknown
}

// PromptMessage è un messaggio del bundle di istruzioni per il modello
type PromptMessage struct {
	Role    string `json:"role"` // system, user, assistant
	Content string `json:"content"`
}

// CompletionRequest è il contratto unico verso ogni provider della catena
type CompletionRequest struct {
	// Ruolo agente che sta eseguendo il turno
	AgentRole models.AgentRole

	Messages []PromptMessage

	// Bundle con istruzioni semplificate, usato al posto di Messages
	// nei tentativi rilassati quando fornito
	RelaxedMessages []PromptMessage

	// Parametri di generazione; Relaxed raddoppia il budget token
	MaxTokens   int
	Temperature float64
	Relaxed     bool

	// Contesto usato dal provider statico per la risposta canned
	Property *models.Property
	DataMode models.DataMode
}

// Completion è il risultato positivo di una chiamata provider
type Completion struct {
	Text     string
	Model    string
	Provider string
}

// Provider è l'interfaccia di ogni backend della catena di fallback
type Provider interface {
	// Complete esegue la richiesta; in caso di errore restituisce *Failure
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)

	// Name restituisce il nome del provider
	Name() string
}
