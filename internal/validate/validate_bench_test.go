package validate

import (
	"testing"
)

// BenchmarkValidatorNotEmpty benchmarks NotEmpty validation
func BenchmarkValidatorNotEmpty(b *testing.B) {
	v := New()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		v.NotEmpty("field", "value")
		v.Clear()
	}
}

// BenchmarkValidatorRange benchmarks Range validation
func BenchmarkValidatorRange(b *testing.B) {
	v := New()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		v.Range("port", 8080, 1, 65535)
		v.Clear()
	}
}

// BenchmarkValidatorURL benchmarks URL validation
func BenchmarkValidatorURL(b *testing.B) {
	v := New()
	url := "http://example.com:8080/path?query=value"

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		v.URL("url", url, []string{"http", "https"})
		v.Clear()
	}
}

// BenchmarkValidatorListenAddr benchmarks listen address validation
func BenchmarkValidatorListenAddr(b *testing.B) {
	v := New()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		v.ListenAddr("addr", "127.0.0.1:8080")
		v.Clear()
	}
}
