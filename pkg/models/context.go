package models

// ConversationContext è il bundle effimero ricostruito a ogni turno
// dallo stato del Memory Manager più il contesto fornito dal chiamante.
// Non viene persistito oltre quanto il Memory Manager conserva.
type ConversationContext struct {
	UserID string `json:"user_id,omitempty"`

	// Property attualmente in focus (opzionale)
	PropertyContext *Property `json:"property_context,omitempty"`

	DataMode DataMode `json:"data_mode"`

	// Risultati di ricerca recenti, lista limitata
	SearchResults []Property `json:"search_results,omitempty"`

	// Storico trasferimenti, in ordine di append
	HandoffHistory []HandoffRecord `json:"handoff_history,omitempty"`

	// Finestra di contesto ricostruita dal log messaggi
	History []Message `json:"history,omitempty"`

	// Fatti durevoli dell'utente letti all'avvio sessione
	Facts map[string]string `json:"facts,omitempty"`

	// True se il turno corrente è il primo della sessione
	FirstMessage bool `json:"first_message"`
}

// HasProperty verifica se una property è in focus
func (c *ConversationContext) HasProperty() bool {
	return c != nil && c.PropertyContext != nil
}
