package openrouter

import "github.com/biodoia/goestate/internal/providers"

// chatCompletionRequest è il payload OpenAI-compatible di OpenRouter
type chatCompletionRequest struct {
	Model       string                    `json:"model"`
	Messages    []providers.PromptMessage `json:"messages"`
	MaxTokens   int                       `json:"max_tokens,omitempty"`
	Temperature float64                   `json:"temperature,omitempty"`
}

// chatCompletionResponse è la risposta di /chat/completions
type chatCompletionResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// firstContent restituisce il contenuto della prima scelta, se presente
func (r *chatCompletionResponse) firstContent() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// errorResponse è il corpo di errore OpenAI-compatible
type errorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    any    `json:"code"`
	} `json:"error"`
}

// message restituisce il messaggio di errore, se presente
func (e *errorResponse) message() string {
	return e.Error.Message
}
