// SPDX-License-Identifier: MIT

// Package benchmark holds hot-path benchmarks for the derivation code
// served on every cache miss.
package benchmark

import (
	"fmt"
	"testing"

	"github.com/rishabh7g/rrishmusic/internal/content"
	"github.com/rishabh7g/rrishmusic/internal/pricing"
	"github.com/rishabh7g/rrishmusic/internal/stats"
)

var benchTiers = []content.DiscountTier{
	{MinSessions: 1, Percent: 0, Label: "Standard"},
	{MinSessions: 5, Percent: 5, Label: "Starter"},
	{MinSessions: 10, Percent: 10, Label: "Growth"},
	{MinSessions: 20, Percent: 15, Label: "Intensive"},
}

var benchPackage = content.Package{
	ID:              "growth-10",
	Name:            "Growth Pack",
	Sessions:        10,
	PricePerSession: 65,
}

func BenchmarkCalculate(b *testing.B) {
	for _, sessions := range []int{1, 10, 20} {
		b.Run(fmt.Sprintf("sessions-%d", sessions), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := pricing.Calculate(benchPackage, sessions, benchTiers); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func benchTestimonials(n int) []content.Testimonial {
	services := []content.ServiceCategory{"lessons", "performance", "production"}
	instruments := []string{"guitar", "bass", "vocals"}
	ts := make([]content.Testimonial, 0, n)
	for i := 0; i < n; i++ {
		ts = append(ts, content.Testimonial{
			ID:         fmt.Sprintf("t-%d", i),
			Author:     fmt.Sprintf("Student %d", i),
			Quote:      "Every lesson built on the last one.",
			Rating:     3 + i%3,
			Service:    services[i%len(services)],
			Instrument: instruments[i%len(instruments)],
			Featured:   i%7 == 0,
			Approved:   i%11 != 0,
		})
	}
	return ts
}

func BenchmarkAggregate(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		input := benchTestimonials(n)
		b.Run(fmt.Sprintf("testimonials-%d", n), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = stats.Aggregate(input)
			}
		})
	}
}
