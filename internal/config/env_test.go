// SPDX-License-Identifier: MIT

package config

import (
	"reflect"
	"testing"
	"time"
)

func TestParseString(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		envSet       bool
		want         string
	}{
		{
			name:         "environment variable set",
			key:          "TEST_STRING",
			defaultValue: "default",
			envValue:     "from-env",
			envSet:       true,
			want:         "from-env",
		},
		{
			name:         "environment variable not set",
			key:          "TEST_STRING_UNSET",
			defaultValue: "default",
			envSet:       false,
			want:         "default",
		},
		{
			name:         "environment variable empty string",
			key:          "TEST_STRING_EMPTY",
			defaultValue: "default",
			envValue:     "",
			envSet:       true,
			want:         "default",
		},
		{
			name:         "sensitive variable (token)",
			key:          "TEST_TOKEN",
			defaultValue: "default",
			envValue:     "secret123",
			envSet:       true,
			want:         "secret123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := ParseString(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("ParseString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue int
		envValue     string
		envSet       bool
		want         int
	}{
		{name: "valid integer", key: "TEST_INT", defaultValue: 10, envValue: "42", envSet: true, want: 42},
		{name: "negative integer", key: "TEST_INT_NEG", defaultValue: 10, envValue: "-3", envSet: true, want: -3},
		{name: "invalid integer falls back", key: "TEST_INT_BAD", defaultValue: 10, envValue: "not-a-number", envSet: true, want: 10},
		{name: "empty falls back", key: "TEST_INT_EMPTY", defaultValue: 10, envValue: "", envSet: true, want: 10},
		{name: "unset uses default", key: "TEST_INT_UNSET", defaultValue: 10, envSet: false, want: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := ParseInt(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("ParseInt() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseBool(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue bool
		envValue     string
		envSet       bool
		want         bool
	}{
		{name: "true", key: "TEST_BOOL_T", envValue: "true", envSet: true, want: true},
		{name: "one", key: "TEST_BOOL_1", envValue: "1", envSet: true, want: true},
		{name: "yes uppercase", key: "TEST_BOOL_YES", envValue: "YES", envSet: true, want: true},
		{name: "false", key: "TEST_BOOL_F", defaultValue: true, envValue: "false", envSet: true, want: false},
		{name: "zero", key: "TEST_BOOL_0", defaultValue: true, envValue: "0", envSet: true, want: false},
		{name: "invalid falls back", key: "TEST_BOOL_BAD", defaultValue: true, envValue: "maybe", envSet: true, want: true},
		{name: "unset uses default", key: "TEST_BOOL_UNSET", defaultValue: true, envSet: false, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := ParseBool(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("ParseBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue time.Duration
		envValue     string
		envSet       bool
		want         time.Duration
	}{
		{name: "valid duration", key: "TEST_DUR", defaultValue: time.Second, envValue: "5m", envSet: true, want: 5 * time.Minute},
		{name: "invalid falls back", key: "TEST_DUR_BAD", defaultValue: time.Second, envValue: "fast", envSet: true, want: time.Second},
		{name: "bare number falls back", key: "TEST_DUR_NUM", defaultValue: time.Second, envValue: "30", envSet: true, want: time.Second},
		{name: "unset uses default", key: "TEST_DUR_UNSET", defaultValue: time.Second, envSet: false, want: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := ParseDuration(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("ParseDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "0.25")
	if got := ParseFloat("TEST_FLOAT", 1.0); got != 0.25 {
		t.Errorf("ParseFloat() = %v, want 0.25", got)
	}

	t.Setenv("TEST_FLOAT_BAD", "lots")
	if got := ParseFloat("TEST_FLOAT_BAD", 1.0); got != 1.0 {
		t.Errorf("ParseFloat() = %v, want fallback 1.0", got)
	}
}

func TestParseStringSlice(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue []string
		envValue     string
		envSet       bool
		want         []string
	}{
		{
			name:     "comma separated with whitespace",
			key:      "TEST_SLICE",
			envValue: "https://a.example, https://b.example ,https://c.example",
			envSet:   true,
			want:     []string{"https://a.example", "https://b.example", "https://c.example"},
		},
		{
			name:     "empty entries dropped",
			key:      "TEST_SLICE_SPARSE",
			envValue: ",a,,b,",
			envSet:   true,
			want:     []string{"a", "b"},
		},
		{
			name:     "set but empty clears the default",
			key:      "TEST_SLICE_CLEAR",
			envValue: "",
			envSet:   true,
			want:     []string{},
		},
		{
			name:         "unset uses default",
			key:          "TEST_SLICE_UNSET",
			defaultValue: []string{"keep"},
			envSet:       false,
			want:         []string{"keep"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envSet {
				t.Setenv(tt.key, tt.envValue)
			}

			got := ParseStringSlice(tt.key, tt.defaultValue)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseStringSlice() = %v, want %v", got, tt.want)
			}
		})
	}
}
