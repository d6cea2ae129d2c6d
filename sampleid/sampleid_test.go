package sampleid

import "testing"

func TestKey(t *testing.T) {
	for _, v := range []struct {
		in   string
		want string
	}{
		{"", ""},
		{"Influenza A/H1N1", "InfluenzaAH1N1"},
		{"hep-C_gt1a", "hepCgt1a"},
		{"   ", ""},
		{"s0042", "s0042"},
		{"...", ""},
	} {
		if got := Key(v.in); got != v.want {
			t.Fatalf("Key(%q) = %q, want %q", v.in, got, v.want)
		}
	}
}

// Key is a projection: applying it twice must not change the result.
func TestKeyIdempotent(t *testing.T) {
	for _, in := range []string{"", "Influenza A/H1N1", "x_1", "Sample #9", "ABCde123"} {
		once := Key(in)
		if twice := Key(once); twice != once {
			t.Fatalf("Key(Key(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestStripPairSuffix(t *testing.T) {
	for _, v := range []struct {
		in   string
		want string
	}{
		{"sample_1", "sample"},
		{"sample_2", "sample"},
		{"sample_R1", "sample"},
		{"sample_R2", "sample"},
		{"sample_3", "sample_3"},
		{"sample_R3", "sample_R3"},
		{"sample_10", "sample_10"},
		{"sample", "sample"},
		{"_1", ""},
		{"", ""},
		// Only one trailing token is removed.
		{"sample_1_2", "sample_1"},
	} {
		if got := StripPairSuffix(v.in); got != v.want {
			t.Fatalf("StripPairSuffix(%q) = %q, want %q", v.in, got, v.want)
		}
	}
}

func TestSanitizeLabel(t *testing.T) {
	for _, v := range []struct {
		in   string
		want string
	}{
		{"", "NA"},
		{"___", "NA"},
		{"Strain#1_2", "Strain_1"},
		{"Influenza A/H1N1", "Influenza_A_H1N1"},
		{"  spaced  out  ", "spaced_out"},
		{"already_clean", "already_clean"},
		{"trailing-", "trailing"},
		{"-leading", "leading"},
		{"a..b..c", "a_b_c"},
		{"reads_R2", "reads"},
	} {
		if got := SanitizeLabel(v.in); got != v.want {
			t.Fatalf("SanitizeLabel(%q) = %q, want %q", v.in, got, v.want)
		}
	}
}

// Sanitizing an already sanitized label is a no-op as long as the
// first pass did not leave a bare pair token at the end.
func TestSanitizeLabelStable(t *testing.T) {
	for _, in := range []string{"Influenza A/H1N1", "  spaced  out  ", "plain", "x#y#z", ""} {
		once := SanitizeLabel(in)
		if twice := SanitizeLabel(once); twice != once {
			t.Fatalf("SanitizeLabel(SanitizeLabel(%q)) = %q, want %q", in, twice, once)
		}
	}
}
