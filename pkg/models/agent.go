package models

// AgentRole rappresenta il ruolo di un agente conversazionale
type AgentRole string

const (
	AgentSearch     AgentRole = "search"
	AgentProperty   AgentRole = "property"
	AgentScheduling AgentRole = "scheduling"
)

// personaNames mappa i ruoli ai nomi delle persona mostrate all'utente
var personaNames = map[AgentRole]string{
	AgentSearch:     "Alex",
	AgentProperty:   "Emma",
	AgentScheduling: "Mike",
}

// Valid verifica se il ruolo è uno dei tre ruoli conosciuti
func (r AgentRole) Valid() bool {
	switch r {
	case AgentSearch, AgentProperty, AgentScheduling:
		return true
	}
	return false
}

// Persona restituisce il nome della persona associata al ruolo
func (r AgentRole) Persona() string {
	if name, ok := personaNames[r]; ok {
		return name
	}
	return personaNames[AgentSearch]
}

// ParseAgentRole converte una stringa in AgentRole, con default search
func ParseAgentRole(s string) AgentRole {
	role := AgentRole(s)
	if role.Valid() {
		return role
	}
	return AgentSearch
}

// AllAgentRoles restituisce tutti i ruoli in ordine stabile
func AllAgentRoles() []AgentRole {
	return []AgentRole{AgentSearch, AgentProperty, AgentScheduling}
}
