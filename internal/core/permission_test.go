package core_test

import (
	"testing"

	"finboard/internal/core"
)

func TestCapabilitiesForRole(t *testing.T) {
	tests := []struct {
		role    string
		has     []core.Capability
		lacks   []core.Capability
		wantErr bool
	}{
		{
			role: "admin",
			has: []core.Capability{
				core.CapViewReports, core.CapManageTransactions, core.CapManageSales,
				core.CapManagePurchases, core.CapGenerateForecasts, core.CapManageUsers,
			},
		},
		{
			role:  "manager",
			has:   []core.Capability{core.CapViewReports, core.CapManageSales, core.CapGenerateForecasts},
			lacks: []core.Capability{core.CapManageUsers},
		},
		{
			role: "viewer",
			has:  []core.Capability{core.CapViewReports},
			lacks: []core.Capability{
				core.CapManageTransactions, core.CapManageSales,
				core.CapManagePurchases, core.CapGenerateForecasts, core.CapManageUsers,
			},
		},
		{role: "ADMIN"},
		{role: "  viewer  "},
		{role: "superuser", wantErr: true},
		{role: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run("role "+tt.role, func(t *testing.T) {
			caps, err := core.CapabilitiesForRole(tt.role)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for role %q, got capabilities %b", tt.role, caps)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, c := range tt.has {
				if !caps.Has(c) {
					t.Errorf("role %q should have capability %b", tt.role, c)
				}
			}
			for _, c := range tt.lacks {
				if caps.Has(c) {
					t.Errorf("role %q should not have capability %b", tt.role, c)
				}
			}
		})
	}
}

func TestCapabilitySet_Has(t *testing.T) {
	s := core.NewCapabilitySet(core.CapViewReports, core.CapManageSales)

	if !s.Has(core.CapViewReports) || !s.Has(core.CapManageSales) {
		t.Error("set is missing capabilities it was built with")
	}
	if s.Has(core.CapManageUsers) {
		t.Error("set reports a capability it was not built with")
	}

	var empty core.CapabilitySet
	if empty.Has(core.CapViewReports) {
		t.Error("empty set reports a capability")
	}
}
