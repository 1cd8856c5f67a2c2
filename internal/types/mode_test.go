package types

import "testing"

func TestModeStrings(t *testing.T) {
	cases := []struct {
		mode InputMode
		want string
	}{
		{ModeDirect, "direct"},
		{ModeOkuriNasi, "okuri-nasi"},
		{ModeOkuriAri, "okuri-ari"},
		{InputMode(42), "unknown"},
	}
	for _, tc := range cases {
		if got := tc.mode.String(); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
	if OkuriAri.String() != "okuri-ari" || OkuriNasi.String() != "okuri-nasi" {
		t.Fatalf("unexpected okuri type names: %s %s", OkuriAri, OkuriNasi)
	}
}
