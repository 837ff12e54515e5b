// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidator_URL(t *testing.T) {
	tests := []struct {
		name           string
		value          string
		allowedSchemes []string
		wantErr        bool
	}{
		{"valid http", "http://example.com", []string{"http", "https"}, false},
		{"valid https", "https://example.com", []string{"http", "https"}, false},
		{"empty url", "", []string{"http"}, true},
		{"no host", "http://", []string{"http"}, true},
		{"invalid scheme", "ftp://example.com", []string{"http", "https"}, true},
		{"no scheme", "example.com", []string{"http"}, true},
		{"with port", "http://example.com:8080", []string{"http"}, false},
		{"with path", "http://example.com/path", []string{"http"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.URL("testURL", tt.value, tt.allowedSchemes)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Port(t *testing.T) {
	tests := []struct {
		name    string
		port    int
		wantErr bool
	}{
		{"valid port 80", 80, false},
		{"valid port 8080", 8080, false},
		{"valid port 65535", 65535, false},
		{"valid port 1", 1, false},
		{"invalid port 0", 0, true},
		{"invalid port -1", -1, true},
		{"invalid port 65536", 65536, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Port("testPort", tt.port)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_ListenAddr(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{"port only", ":8080", false},
		{"host and port", "127.0.0.1:8080", false},
		{"hostname and port", "localhost:8080", false},
		{"port zero allowed", "127.0.0.1:0", false},
		{"ipv6", "[::1]:8080", false},
		{"empty", "", true},
		{"whitespace", "   ", true},
		{"missing port", "127.0.0.1", true},
		{"bad port", ":http!", true},
		{"port out of range", ":70000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.ListenAddr("addr", tt.addr)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_CIDRList(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		wantErr bool
	}{
		{"empty list", nil, false},
		{"bare ip", []string{"10.0.0.1"}, false},
		{"cidr", []string{"10.0.0.0/8"}, false},
		{"ipv6 cidr", []string{"fd00::/8"}, false},
		{"mixed with blanks", []string{" 10.0.0.0/8 ", "", "192.168.1.1"}, false},
		{"bad mask", []string{"10.0.0.0/99"}, true},
		{"hostname", []string{"proxy.internal"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.CIDRList("proxies", tt.entries)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Range(t *testing.T) {
	tests := []struct {
		name    string
		value   int
		min     int
		max     int
		wantErr bool
	}{
		{"in range", 5, 1, 10, false},
		{"at min", 1, 1, 10, false},
		{"at max", 10, 1, 10, false},
		{"below min", 0, 1, 10, true},
		{"above max", 11, 1, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Range("testRange", tt.value, tt.min, tt.max)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_OneOf(t *testing.T) {
	allowed := []string{"memory", "sqlite", "badger"}

	v := New()
	v.OneOf("store", "sqlite", allowed)
	if !v.IsValid() {
		t.Errorf("unexpected error: %v", v.Err())
	}

	v = New()
	v.OneOf("store", "postgres", allowed)
	if v.IsValid() {
		t.Error("expected error for disallowed value")
	}
}

func TestValidator_NotEmpty(t *testing.T) {
	v := New()
	v.NotEmpty("field", "value")
	if !v.IsValid() {
		t.Errorf("unexpected error: %v", v.Err())
	}

	v = New()
	v.NotEmpty("field", "   ")
	if v.IsValid() {
		t.Error("whitespace-only value should fail")
	}
}

func TestValidator_PositiveAndNonNegative(t *testing.T) {
	v := New()
	v.Positive("p", 1)
	v.NonNegative("n", 0)
	if !v.IsValid() {
		t.Errorf("unexpected error: %v", v.Err())
	}

	v = New()
	v.Positive("p", 0)
	v.NonNegative("n", -1)
	if len(v.Errors()) != 2 {
		t.Errorf("expected 2 errors, got %d", len(v.Errors()))
	}
}

func TestValidator_Directory(t *testing.T) {
	t.Run("existing directory", func(t *testing.T) {
		v := New()
		v.Directory("dir", t.TempDir(), true)
		if !v.IsValid() {
			t.Errorf("unexpected error: %v", v.Err())
		}
	})

	t.Run("missing with mustExist", func(t *testing.T) {
		v := New()
		v.Directory("dir", filepath.Join(t.TempDir(), "missing"), true)
		if v.IsValid() {
			t.Error("expected error for missing directory")
		}
	})

	t.Run("created when absent", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "made")
		v := New()
		v.Directory("dir", path, false)
		if !v.IsValid() {
			t.Fatalf("unexpected error: %v", v.Err())
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("directory was not created: %v", err)
		}
	})

	t.Run("traversal rejected", func(t *testing.T) {
		v := New()
		v.Directory("dir", "../escape", false)
		if v.IsValid() {
			t.Error("expected error for traversal path")
		}
	})

	t.Run("file is not a directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "f")
		if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
			t.Fatal(err)
		}
		v := New()
		v.Directory("dir", file, true)
		if v.IsValid() {
			t.Error("expected error for file path")
		}
	})
}

func TestValidator_Path(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"empty allowed", "", false},
		{"relative file", "export/contact.json", false},
		{"absolute rejected", "/etc/passwd", true},
		{"traversal rejected", "../../secrets", true},
		{"hidden traversal rejected", "a/../../b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.Path("path", tt.path)

			if tt.wantErr && v.IsValid() {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && !v.IsValid() {
				t.Errorf("unexpected error: %v", v.Err())
			}
		})
	}
}

func TestValidator_Custom(t *testing.T) {
	v := New()
	v.Custom("field", 42, func(val interface{}) error {
		if val.(int) != 42 {
			return errors.New("not the answer")
		}
		return nil
	})
	if !v.IsValid() {
		t.Errorf("unexpected error: %v", v.Err())
	}

	v = New()
	v.Custom("field", 7, func(val interface{}) error {
		return fmt.Errorf("value %v rejected", val)
	})
	if v.IsValid() {
		t.Error("expected custom validator to fail")
	}
}

func TestValidationErrorFormatting(t *testing.T) {
	v := New()
	v.AddError("a", "first problem", 1)

	err := v.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "a") || !strings.Contains(err.Error(), "first problem") {
		t.Errorf("single error formatting wrong: %q", err.Error())
	}

	v.AddError("b", "second problem", 2)
	err = v.Err()
	if !strings.Contains(err.Error(), "; ") {
		t.Errorf("multiple errors should be joined with ';': %q", err.Error())
	}

	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatal("expected ValidationError")
	}
	if len(ve.Errors()) != 2 {
		t.Errorf("Errors() = %d entries, want 2", len(ve.Errors()))
	}
}

func TestValidatorClear(t *testing.T) {
	v := New()
	v.AddError("a", "problem", nil)
	v.Clear()
	if !v.IsValid() {
		t.Error("Clear() should drop accumulated errors")
	}
}

func TestParseLogLevel(t *testing.T) {
	for _, lvl := range []string{"trace", "debug", "info", "warn", "error"} {
		if _, err := ParseLogLevel(lvl); err != nil {
			t.Errorf("ParseLogLevel(%q) failed: %v", lvl, err)
		}
	}
	if _, err := ParseLogLevel("verbose"); err == nil {
		t.Error("ParseLogLevel should reject unknown levels")
	}
}
