package main

import "testing"

func TestNormalizeMode(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"raw", "raw", true},
		{"source", "raw", true},
		{"src", "raw", true},
		{"rendered", "rendered", true},
		{"preview", "rendered", true},
		{"view", "rendered", true},
		{"", "", false},
		{"markdown", "", false},
		{"RAW", "", false},
	}
	for _, tt := range tests {
		got, ok := normalizeMode(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("normalizeMode(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
