package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12", 1200, true},
		{"0.01", 1, true},
		{"12.345", 1235, true},
		{"12.344", 1234, true},
		{"1.005", 101, true},
		{"", 0, false},
		{"abc", 0, false},
		{"-5", 0, false},
		{"+5", 0, false},
		{"0", 0, false},
		{"1.2.3", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Fatalf("ParseDecimalToCents(%q) = %d, %v; want %d", tc.in, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDecimalToCents(%q) expected error", tc.in)
		}
	}
}

func TestFromUnitsRoundTrip(t *testing.T) {
	cases := []struct {
		in    float64
		cents int64
	}{
		{12.34, 1234},
		{0.1, 10},
		{100, 10000},
		{99.995, 10000}, // half-up
	}
	for _, tc := range cases {
		if got := FromUnits(tc.in); got.Cents != tc.cents {
			t.Fatalf("FromUnits(%v) = %d cents, want %d", tc.in, got.Cents, tc.cents)
		}
	}
	if (Money{Cents: 1234}).Units() != 12.34 {
		t.Fatalf("Units conversion mismatch")
	}
}
