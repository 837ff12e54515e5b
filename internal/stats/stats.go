// SPDX-License-Identifier: MIT

// Package stats aggregates testimonial statistics for the public stats
// endpoint.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/rishabh7g/rrishmusic/internal/content"
	"github.com/rishabh7g/rrishmusic/internal/metrics"
)

// CategoryStats holds per-service aggregates.
type CategoryStats struct {
	Count         int     `json:"count"`
	AverageRating float64 `json:"averageRating"`
}

// ServiceBreakdown maps every service category to its aggregates.
type ServiceBreakdown map[content.ServiceCategory]CategoryStats

// Summary is the aggregated view over all approved testimonials.
type Summary struct {
	Total         int              `json:"total"`
	AverageRating float64          `json:"averageRating"`
	FiveStarCount int              `json:"fiveStarCount"`
	FeaturedCount int              `json:"featuredCount"`
	Instruments   []string         `json:"instruments"`
	ByService     ServiceBreakdown `json:"byService"`
}

// Aggregate computes the summary in a single pass. Unapproved testimonials
// are excluded. Every service category appears in ByService, including
// empty ones, so the response shape is stable.
func Aggregate(ts []content.Testimonial) Summary {
	start := time.Now()

	sums := make(map[content.ServiceCategory]int, 3)
	counts := make(map[content.ServiceCategory]int, 3)
	instruments := make(map[string]struct{})

	s := Summary{
		ByService: make(ServiceBreakdown, 3),
	}

	total := 0
	ratingSum := 0
	for _, t := range ts {
		if !t.Approved {
			continue
		}
		total++
		ratingSum += t.Rating
		counts[t.Service]++
		sums[t.Service] += t.Rating
		if t.Rating == 5 {
			s.FiveStarCount++
		}
		if t.Featured {
			s.FeaturedCount++
		}
		if t.Instrument != "" {
			instruments[t.Instrument] = struct{}{}
		}
	}

	s.Total = total
	s.AverageRating = round1(ratingSum, total)

	for _, cat := range content.Categories() {
		s.ByService[cat] = CategoryStats{
			Count:         counts[cat],
			AverageRating: round1(sums[cat], counts[cat]),
		}
	}

	s.Instruments = make([]string, 0, len(instruments))
	for i := range instruments {
		s.Instruments = append(s.Instruments, i)
	}
	sort.Strings(s.Instruments)

	metrics.RecordStatsAggregation(total, time.Since(start).Seconds())
	return s
}

// round1 returns sum/count rounded to one decimal, 0 for an empty group.
func round1(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(count)*10) / 10
}
