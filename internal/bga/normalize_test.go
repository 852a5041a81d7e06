package bga

import "testing"

func TestNormalizeName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Carcassonne", "carcassonne"},
		{"  CARCASSONNE  ", "carcassonne"},
		{"Ticket to Ride: Europe", "ticket to ride europe"},
		{"7 Wonders", "7 wonders"},
		{"Tzolk'in   (The Mayan Calendar)", "tzolk in the mayan calendar"},
		{"", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := NormalizeName(c.in); got != c.want {
			t.Fatalf("NormalizeName(%q): want=%q got=%q", c.in, c.want, got)
		}
	}
}

func TestNormalizeNameCollapsesEquivalentVariants(t *testing.T) {
	a := NormalizeName("Ticket to Ride")
	b := NormalizeName("ticket  TO  ride")
	if a != b {
		t.Fatalf("variants should share a key: %q vs %q", a, b)
	}
}
