package config

import "testing"

func TestOriginAllowed(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://forum.example.com, https://staging.example.com")

	tests := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"default localhost origin", "http://localhost:3000", true},
		{"localhost on another port", "http://localhost:5173", true},
		{"loopback address", "http://127.0.0.1:8080", true},
		{"origin from ALLOWED_ORIGINS", "https://forum.example.com", true},
		{"second origin from ALLOWED_ORIGINS", "https://staging.example.com", true},
		{"foreign origin", "https://evil.example.net", false},
		{"empty origin", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OriginAllowed(tt.origin); got != tt.allowed {
				t.Errorf("OriginAllowed(%q) = %v, want %v", tt.origin, got, tt.allowed)
			}
		})
	}
}
