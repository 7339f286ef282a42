package config

import "testing"

func TestIsWeakToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		weak  bool
	}{
		{"empty_token", "", false},
		{"common_word", "password", true},
		{"short_digits", "12345678", true},
		{"keyboard_walk", "qwertyuiop", true},
		{"long_random_hex", "9f8a2c41d7e6b30f5a1c8d92e4b7f063", false},
		{"strong_passphrase", "Trombone-Quasar-Lighthouse-42", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWeakToken(tt.token); got != tt.weak {
				t.Errorf("IsWeakToken(%q) = %v, want %v", tt.token, got, tt.weak)
			}
		})
	}
}
