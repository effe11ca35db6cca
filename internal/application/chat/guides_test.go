package chat

import "testing"

func TestGetContractGuide(t *testing.T) {
	tests := []struct {
		name      string
		contract  string
		chainHint string
		found     bool
	}{
		{"wildcard guide any chain", "eosio.token", "wax", true},
		{"wildcard guide no chain", "eosio.system", "", true},
		{"case insensitive", "EOSIO.TOKEN", "", true},
		{"chain-specific match", "telos.decide", "telos", true},
		{"chain-specific substring match", "atomicassets", "WAX Mainnet", true},
		{"chain-specific wrong chain", "res.pink", "eos", false},
		{"chain-specific no hint falls through", "telos.decide", "", true},
		{"unknown contract", "nosuchthing1", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetContractGuide(tt.contract, tt.chainHint)
			if (got != nil) != tt.found {
				t.Fatalf("GetContractGuide(%q, %q) found = %v, want %v", tt.contract, tt.chainHint, got != nil, tt.found)
			}
			if got != nil && got.Guide == "" {
				t.Error("guide text must not be empty")
			}
		})
	}
}

func TestListAvailableGuides(t *testing.T) {
	all := ListAvailableGuides("")
	if len(all) != len(guides) {
		t.Fatalf("unfiltered list = %d entries, want %d", len(all), len(guides))
	}

	telos := ListAvailableGuides("telos")
	for _, g := range telos {
		if g.Contract == "atomicassets" || g.Contract == "res.pink" {
			t.Errorf("%s should be filtered out for telos", g.Contract)
		}
	}
	found := false
	for _, g := range telos {
		if g.Contract == "telos.decide" {
			found = true
		}
	}
	if !found {
		t.Error("telos.decide missing from telos list")
	}
}
