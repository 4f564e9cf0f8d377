package models

import "testing"

func TestAgentRoleValid(t *testing.T) {
	tests := []struct {
		role AgentRole
		want bool
	}{
		{AgentSearch, true},
		{AgentProperty, true},
		{AgentScheduling, true},
		{AgentRole("concierge"), false},
		{AgentRole(""), false},
	}

	for _, tt := range tests {
		if got := tt.role.Valid(); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.role, got, tt.want)
		}
	}
}

func TestAgentRolePersona(t *testing.T) {
	tests := []struct {
		role AgentRole
		want string
	}{
		{AgentSearch, "Alex"},
		{AgentProperty, "Emma"},
		{AgentScheduling, "Mike"},
		// Ruolo sconosciuto: persona di default
		{AgentRole("concierge"), "Alex"},
	}

	for _, tt := range tests {
		if got := tt.role.Persona(); got != tt.want {
			t.Errorf("Persona(%q) = %q, want %q", tt.role, got, tt.want)
		}
	}
}

func TestParseAgentRole(t *testing.T) {
	if got := ParseAgentRole("scheduling"); got != AgentScheduling {
		t.Errorf("ParseAgentRole(scheduling) = %s", got)
	}
	if got := ParseAgentRole("nonsense"); got != AgentSearch {
		t.Errorf("ParseAgentRole(nonsense) = %s, want search default", got)
	}
}

func TestAllAgentRoles(t *testing.T) {
	roles := AllAgentRoles()
	if len(roles) != 3 {
		t.Fatalf("AllAgentRoles() = %d roles", len(roles))
	}
	for _, role := range roles {
		if !role.Valid() {
			t.Errorf("role %q not valid", role)
		}
	}
}
