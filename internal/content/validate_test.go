// SPDX-License-Identifier: MIT

package content

import (
	"strings"
	"testing"
)

func validPackage() Package {
	return Package{
		ID:              "single",
		Name:            "Single Lesson",
		Sessions:        1,
		PricePerSession: 75,
		DurationMinutes: 60,
	}
}

func TestValidatePackages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Package)
		wantErr string
	}{
		{name: "valid", mutate: func(p *Package) {}},
		{
			name:    "missing id",
			mutate:  func(p *Package) { p.ID = "  " },
			wantErr: "id: required",
		},
		{
			name:    "missing name",
			mutate:  func(p *Package) { p.Name = "" },
			wantErr: "name: required",
		},
		{
			name:    "zero sessions",
			mutate:  func(p *Package) { p.Sessions = 0 },
			wantErr: "sessions",
		},
		{
			name:    "free package",
			mutate:  func(p *Package) { p.PricePerSession = 0 },
			wantErr: "pricePerSession",
		},
		{
			name:    "negative price",
			mutate:  func(p *Package) { p.PricePerSession = -5 },
			wantErr: "pricePerSession",
		},
		{
			name:    "zero duration",
			mutate:  func(p *Package) { p.DurationMinutes = 0 },
			wantErr: "durationMinutes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPackage()
			tt.mutate(&p)
			err := validatePackages("packages.json", []Package{p})
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidatePackagesEmptyAndDuplicates(t *testing.T) {
	if err := validatePackages("packages.json", nil); err == nil {
		t.Error("expected error for empty package list")
	}

	a := validPackage()
	b := validPackage()
	err := validatePackages("packages.json", []Package{a, b})
	if err == nil || !strings.Contains(err.Error(), "duplicate id") {
		t.Errorf("expected duplicate id error, got %v", err)
	}
}

func TestValidateTiers(t *testing.T) {
	tests := []struct {
		name    string
		tiers   []DiscountTier
		wantErr string
	}{
		{
			name: "valid ascending",
			tiers: []DiscountTier{
				{MinSessions: 1, Percent: 0},
				{MinSessions: 5, Percent: 5},
				{MinSessions: 10, Percent: 10},
			},
		},
		{
			name:    "empty table",
			tiers:   nil,
			wantErr: "at least one tier",
		},
		{
			name: "zero threshold",
			tiers: []DiscountTier{
				{MinSessions: 0, Percent: 0},
			},
			wantErr: "minSessions",
		},
		{
			name: "duplicate threshold",
			tiers: []DiscountTier{
				{MinSessions: 5, Percent: 5},
				{MinSessions: 5, Percent: 10},
			},
			wantErr: "strictly increasing",
		},
		{
			name: "descending thresholds",
			tiers: []DiscountTier{
				{MinSessions: 10, Percent: 10},
				{MinSessions: 5, Percent: 5},
			},
			wantErr: "strictly increasing",
		},
		{
			name: "percent above 100",
			tiers: []DiscountTier{
				{MinSessions: 1, Percent: 101},
			},
			wantErr: "percent",
		},
		{
			name: "negative percent",
			tiers: []DiscountTier{
				{MinSessions: 1, Percent: -1},
			},
			wantErr: "percent",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTiers("discounts.json", tt.tiers)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func validTestimonial(id string) Testimonial {
	return Testimonial{
		ID:       id,
		Author:   "Sarah M.",
		Quote:    "Great teacher.",
		Rating:   5,
		Service:  ServiceLessons,
		Date:     "2024-03",
		Approved: true,
	}
}

func TestValidateTestimonialsSkipsInvalid(t *testing.T) {
	in := []Testimonial{
		validTestimonial("t-1"),
		func() Testimonial { x := validTestimonial("t-2"); x.Rating = 6; return x }(),
		func() Testimonial { x := validTestimonial("t-3"); x.Service = "djing"; return x }(),
		func() Testimonial { x := validTestimonial("t-4"); x.Date = "March 2024"; return x }(),
		func() Testimonial { x := validTestimonial(""); return x }(),
		validTestimonial("t-1"), // duplicate of the first
		validTestimonial("t-6"),
	}

	kept, warns := validateTestimonials("testimonials.json", in)

	if len(kept) != 2 {
		t.Fatalf("kept %d records, want 2", len(kept))
	}
	if kept[0].ID != "t-1" || kept[1].ID != "t-6" {
		t.Errorf("kept wrong records: %v", kept)
	}
	if len(warns) != 5 {
		t.Errorf("got %d warnings, want 5", len(warns))
	}
	for _, w := range warns {
		if w.File != "testimonials.json" {
			t.Errorf("warning carries wrong file: %q", w.File)
		}
		if w.Index < 0 {
			t.Errorf("record warning should carry a record index, got %d", w.Index)
		}
	}
}

func TestValidateTestimonialsDateOptional(t *testing.T) {
	x := validTestimonial("t-1")
	x.Date = ""
	kept, warns := validateTestimonials("testimonials.json", []Testimonial{x})
	if len(kept) != 1 || len(warns) != 0 {
		t.Errorf("empty date should be accepted, kept=%d warns=%d", len(kept), len(warns))
	}
}

func TestValidateVenues(t *testing.T) {
	in := []Venue{
		{ID: "v-1", Name: "Corner Hotel", Type: VenueBar, Active: true},
		{ID: "v-2", Name: "Somewhere", Type: "stadium"},
		{ID: "v-3", Name: "Bad Link", Type: VenueBar, URL: "ftp://example.com"},
		{ID: "v-4", Name: "Time Traveller", Type: VenueBar, FirstYear: 1584},
		{ID: "v-5", Name: "Night Cat", Type: VenueFestival, URL: "https://thenightcat.com.au", FirstYear: 2024},
	}

	kept, warns := validateVenues("venues.json", in)

	if len(kept) != 2 {
		t.Fatalf("kept %d venues, want 2: %v", len(kept), kept)
	}
	if kept[0].ID != "v-1" || kept[1].ID != "v-5" {
		t.Errorf("kept wrong venues: %v", kept)
	}
	if len(warns) != 3 {
		t.Errorf("got %d warnings, want 3", len(warns))
	}
}

func TestValidateProfile(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		wantErr string
	}{
		{
			name:    "valid",
			profile: Profile{Name: "Rrish", Email: "hello@rrishmusic.com"},
		},
		{
			name:    "missing name",
			profile: Profile{Email: "hello@rrishmusic.com"},
			wantErr: "name: required",
		},
		{
			name:    "missing email",
			profile: Profile{Name: "Rrish"},
			wantErr: "email: required",
		},
		{
			name:    "malformed email",
			profile: Profile{Name: "Rrish", Email: "not-an-email"},
			wantErr: "email",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := validateProfile("profile.json", tt.profile)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProfileNormalizesEmailHost(t *testing.T) {
	p := Profile{Name: "Rrish", Email: "hello@RRISHMUSIC.COM"}
	got, warns, err := validateProfile("profile.json", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warns) != 0 {
		t.Fatalf("unexpected warnings: %v", warns)
	}
	if got.Email != "hello@rrishmusic.com" {
		t.Errorf("email host not normalized: %q", got.Email)
	}
}

func TestValidateProfileDropsBrokenSocialLinks(t *testing.T) {
	p := Profile{
		Name:  "Rrish",
		Email: "hello@rrishmusic.com",
		Social: []SocialLink{
			{Platform: "instagram", URL: "https://instagram.com/rrishmusic"},
			{Platform: "", URL: "https://example.com"},
			{Platform: "myspace", URL: "not a url at all %%%"},
		},
	}

	got, warns, err := validateProfile("profile.json", p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Social) != 1 {
		t.Fatalf("kept %d social links, want 1", len(got.Social))
	}
	if got.Social[0].Platform != "instagram" {
		t.Errorf("kept wrong link: %v", got.Social[0])
	}
	if len(warns) != 2 {
		t.Errorf("got %d warnings, want 2", len(warns))
	}
}

func TestValidateFAQs(t *testing.T) {
	in := []FAQ{
		{Question: "Where?", Answer: "Brunswick.", Order: 1},
		{Question: "", Answer: "No question."},
		{Question: "No answer?", Answer: "  "},
	}
	kept, warns := validateFAQs("faq.json", in)
	if len(kept) != 1 || len(warns) != 2 {
		t.Errorf("kept=%d warns=%d, want 1/2", len(kept), len(warns))
	}
}

func TestRecordErrorFormat(t *testing.T) {
	e := RecordError{File: "venues.json", Index: 3, Field: "type", Msg: "unknown venue type"}
	got := e.Error()
	if !strings.Contains(got, "venues.json[3]") || !strings.Contains(got, "type") {
		t.Errorf("unexpected format: %q", got)
	}

	fileLevel := RecordError{File: "packages.json", Index: -1, Field: "packages", Msg: "at least one package required"}
	if strings.Contains(fileLevel.Error(), "[-1]") {
		t.Errorf("file-level error should not print an index: %q", fileLevel.Error())
	}
}
