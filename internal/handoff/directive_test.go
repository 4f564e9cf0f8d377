package handoff

import (
	"testing"

	"github.com/biodoia/goestate/pkg/models"
)

func TestExtractDirective(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantText    string
		wantTo      models.AgentRole
		wantReason  string
		wantNothing bool
	}{
		{
			name:       "directive with reason",
			text:       "Let me transfer you to our scheduling expert. [[handoff:scheduling:client wants a viewing]]",
			wantText:   "Let me transfer you to our scheduling expert.",
			wantTo:     models.AgentScheduling,
			wantReason: "client wants a viewing",
		},
		{
			name:       "directive without reason",
			text:       "[[handoff:property]] Here are the details.",
			wantText:   "Here are the details.",
			wantTo:     models.AgentProperty,
			wantReason: "agent requested transfer",
		},
		{
			name:        "no directive",
			text:        "Just a normal agent response.",
			wantText:    "Just a normal agent response.",
			wantNothing: true,
		},
		{
			name:        "unknown role is stripped only",
			text:        "Moving on. [[handoff:concierge:not a real agent]]",
			wantText:    "Moving on.",
			wantNothing: true,
		},
		{
			name:       "empty reason falls back to default",
			text:       "One moment. [[handoff:search:]]",
			wantText:   "One moment.",
			wantTo:     models.AgentSearch,
			wantReason: "agent requested transfer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, directive := ExtractDirective(tt.text)
			if cleaned != tt.wantText {
				t.Errorf("cleaned = %q, want %q", cleaned, tt.wantText)
			}
			if tt.wantNothing {
				if directive != nil {
					t.Errorf("directive = %+v, want nil", directive)
				}
				return
			}
			if directive == nil {
				t.Fatal("directive is nil")
			}
			if directive.To != tt.wantTo {
				t.Errorf("directive.To = %s, want %s", directive.To, tt.wantTo)
			}
			if directive.Reason != tt.wantReason {
				t.Errorf("directive.Reason = %q, want %q", directive.Reason, tt.wantReason)
			}
		})
	}
}
