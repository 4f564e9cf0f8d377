// Package router decide quale agente serve un messaggio utente.
// La decisione è totale e deterministica: tier fissi di keyword,
// vince il primo che matcha, nessuno stato nascosto.
package router

import (
	"fmt"
	"strings"

	"github.com/biodoia/goestate/pkg/models"
)

// Tier 1: intenti espliciti di visita/prenotazione
var schedulingKeywords = []string{
	"visit", "see", "view", "tour", "schedule", "appointment", "book", "reserve",
	"can i visit", "want to visit", "like to visit", "i want to see", "can i see",
	"schedule for", "book for", "tomorrow", "today", "this week", "next week",
	"available times", "when can", "what time", "time slots", "calendar",
	"at 3pm", "at 2 pm", "in the morning", "in the afternoon", "in the evening",
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Tier 2: nuova ricerca, confronto o richiesta di feature
var searchKeywords = []string{
	"i need a place", "need a place", "looking for", "looking for a", "find me",
	"search", "want a", "need an", "show me properties", "find properties",
	"i want", "i need", "something nice", "something in", "place to live",
	"bedrooms", "bedroom", "bathrooms", "bathroom", "budget", "around $", "under $",
	"studio", "house", "apartment",
	"in miami", "in downtown", "near beach", "south beach", "brickell",
	"with pool", "with gym", "with parking", "pet friendly", "furnished",
	"ocean view", "waterfront", "balcony", "garden", "terrace",
	"different", "other properties", "alternatives", "similar", "what else",
	"more options", "something else", "cheaper", "better",
}

// Tier 3: dettagli della property in focus (prezzo, taglia, età, feature)
var propertyKeywords = []string{
	"this property", "this apartment", "this house", "this unit", "this place",
	"tell me about", "more about", "details about", "information about",
	"how much", "what's the rent", "what's the price", "how big", "size",
	"square feet", "sq ft", "year built", "when built", "condition",
	"features", "amenities", "what's included", "utilities",
	"the first one", "the second one", "that property",
}

// Tier 4: quartiere e zona della property in focus
var neighborhoodKeywords = []string{
	"neighborhood", "neighbourhood", "the area", "around here", "nearby",
	"close by", "walking distance", "schools", "restaurants", "supermarket",
	"public transport", "commute", "safety", "safe area", "what's around",
}

// Decision è l'esito di una decisione di routing
type Decision struct {
	Role models.AgentRole
	// Tier che ha prodotto la decisione, 1..6
	Tier int
	// Keyword che ha fatto match, vuota per i tier di default
	Keyword string
}

// Reason descrive la decisione, usata nei record di handoff e negli eventi
func (d Decision) Reason() string {
	if d.Keyword == "" {
		return fmt.Sprintf("tier %d default", d.Tier)
	}
	return fmt.Sprintf("tier %d matched %q", d.Tier, d.Keyword)
}

// Router è una pura funzione di decisione, senza stato
type Router struct{}

// New crea un router
func New() *Router {
	return &Router{}
}

// Route restituisce solo il ruolo di destinazione
func (r *Router) Route(message string, ctx *models.ConversationContext) models.AgentRole {
	return r.Decide(message, ctx).Role
}

// Decide applica i tier in ordine fisso; il primo match vince.
// I conflitti tra tier si risolvono per ordine, mai contando i match.
func (r *Router) Decide(message string, ctx *models.ConversationContext) Decision {
	content := strings.ToLower(message)
	hasProperty := ctx.HasProperty()

	if kw, ok := matchAny(content, schedulingKeywords); ok {
		return Decision{Role: models.AgentScheduling, Tier: 1, Keyword: kw}
	}

	if kw, ok := matchAny(content, searchKeywords); ok {
		return Decision{Role: models.AgentSearch, Tier: 2, Keyword: kw}
	}

	if hasProperty {
		if kw, ok := matchAny(content, propertyKeywords); ok {
			return Decision{Role: models.AgentProperty, Tier: 3, Keyword: kw}
		}
		if kw, ok := matchAny(content, neighborhoodKeywords); ok {
			return Decision{Role: models.AgentProperty, Tier: 4, Keyword: kw}
		}
		// Property in focus e nessun match: resta sull'agente property
		return Decision{Role: models.AgentProperty, Tier: 5}
	}

	// Nessuna property in focus: la ricerca è il punto di ingresso
	return Decision{Role: models.AgentSearch, Tier: 6}
}

// matchAny cerca la prima keyword contenuta nel messaggio
func matchAny(content string, keywords []string) (string, bool) {
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			return kw, true
		}
	}
	return "", false
}
