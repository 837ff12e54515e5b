// SPDX-License-Identifier: MIT

package netutil

import "testing"

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"plain host", "Example.COM", "example.com", false},
		{"trailing dot stripped", "example.com.", "example.com", false},
		{"unicode to punycode", "münchen.example", "xn--mnchen-3ya.example", false},
		{"ipv4 passthrough", "192.0.2.1", "192.0.2.1", false},
		{"ipv6 brackets stripped", "[2001:db8::1]", "2001:db8::1", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"scheme rejected", "https://example.com", "", true},
		{"path rejected", "example.com/path", "", true},
		{"userinfo rejected", "user@example.com", "", true},
		{"port rejected", "example.com:8080", "", true},
		{"zone rejected", "fe80::1%eth0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeHost(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeHost(%q) expected error, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeHost(%q) failed: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeHost(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmailHost(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		want    string
		wantErr bool
	}{
		{"plain", "student@Example.COM", "student@example.com", false},
		{"unicode domain", "student@münchen.example", "student@xn--mnchen-3ya.example", false},
		{"local part preserved", "First.Last+tag@example.com", "First.Last+tag@example.com", false},
		{"missing at", "student.example.com", "", true},
		{"empty local part", "@example.com", "", true},
		{"empty domain", "student@", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEmailHost(tt.email)
			if tt.wantErr {
				if err == nil {
					t.Errorf("NormalizeEmailHost(%q) expected error, got %q", tt.email, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeEmailHost(%q) failed: %v", tt.email, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeEmailHost(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}
