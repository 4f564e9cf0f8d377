package handoff

import (
	"regexp"
	"strings"

	"github.com/biodoia/goestate/pkg/models"
)

// Gli agenti possono chiedere un trasferimento esplicito emettendo
// un marker nel testo generato: [[handoff:<role>:<reason>]].
// Il marker viene rimosso dal messaggio visibile all'utente.
var directiveRe = regexp.MustCompile(`\[\[handoff:([a-z]+)(?::([^\]]*))?\]\]`)

// Directive è una richiesta esplicita di trasferimento
type Directive struct {
	To     models.AgentRole
	Reason string
}

// ExtractDirective cerca un marker di trasferimento nel testo.
// Restituisce il testo ripulito e la direttiva, se valida; marker
// con ruolo sconosciuto vengono solo rimossi.
func ExtractDirective(text string) (string, *Directive) {
	match := directiveRe.FindStringSubmatch(text)
	if match == nil {
		return text, nil
	}

	cleaned := strings.TrimSpace(directiveRe.ReplaceAllString(text, ""))

	role := models.AgentRole(match[1])
	if !role.Valid() {
		return cleaned, nil
	}

	reason := strings.TrimSpace(match[2])
	if reason == "" {
		reason = "agent requested transfer"
	}

	return cleaned, &Directive{To: role, Reason: reason}
}
