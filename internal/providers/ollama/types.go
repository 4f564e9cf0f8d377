package ollama

import "github.com/biodoia/goestate/internal/providers"

// tagsResponse è la risposta di /api/tags
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// pullRequest è il payload di /api/pull
type pullRequest struct {
	Name   string `json:"name"`
	Stream bool   `json:"stream"`
}

// chatOptions sono i parametri di generazione del runtime locale
type chatOptions struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// chatRequest è il payload di /api/chat
type chatRequest struct {
	Model    string                    `json:"model"`
	Messages []providers.PromptMessage `json:"messages"`
	Stream   bool                      `json:"stream"`
	Options  chatOptions               `json:"options"`
}

// chatResponse è la risposta non-streaming di /api/chat
type chatResponse struct {
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	Done bool `json:"done"`
}
