// SPDX-License-Identifier: MIT

// Package content holds the static marketing content of the site: lesson
// packages, discount tiers, testimonials, venues, the instructor profile
// and FAQs. Records ship embedded in the binary and can be overridden
// per-file from a content directory on disk.
package content

import "time"

// ServiceCategory is the fixed enum of services testimonials refer to.
type ServiceCategory string

const (
	ServiceLessons       ServiceCategory = "lessons"
	ServicePerformance   ServiceCategory = "performance"
	ServiceCollaboration ServiceCategory = "collaboration"
)

// Valid reports whether the category is a member of the service enum.
func (c ServiceCategory) Valid() bool {
	switch c {
	case ServiceLessons, ServicePerformance, ServiceCollaboration:
		return true
	default:
		return false
	}
}

// Categories lists all service categories in display order.
func Categories() []ServiceCategory {
	return []ServiceCategory{ServiceLessons, ServicePerformance, ServiceCollaboration}
}

// Package is a lesson package offered on the site.
type Package struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Tagline         string   `json:"tagline,omitempty"`
	Sessions        int      `json:"sessions"`
	PricePerSession int      `json:"pricePerSession"`
	DurationMinutes int      `json:"durationMinutes"`
	Features        []string `json:"features,omitempty"`
	Featured        bool     `json:"featured,omitempty"`
	Order           int      `json:"order,omitempty"`
}

// DiscountTier maps a minimum session count to a discount percentage.
// The table is global, sorted ascending by MinSessions.
type DiscountTier struct {
	MinSessions int    `json:"minSessions"`
	Percent     int    `json:"percent"`
	Label       string `json:"label,omitempty"`
}

// Testimonial is a client quote. Only approved testimonials are served
// or counted in statistics.
type Testimonial struct {
	ID         string          `json:"id"`
	Author     string          `json:"author"`
	Quote      string          `json:"quote"`
	Rating     int             `json:"rating"`
	Service    ServiceCategory `json:"service"`
	Date       string          `json:"date,omitempty"` // YYYY-MM
	Location   string          `json:"location,omitempty"`
	Instrument string          `json:"instrument,omitempty"`
	Featured   bool            `json:"featured,omitempty"`
	Approved   bool            `json:"approved"`
}

// Venue types accepted by validation.
const (
	VenueBar        = "bar"
	VenueRestaurant = "restaurant"
	VenuePrivate    = "private"
	VenueFestival   = "festival"
)

// Venue is a performance venue the instructor has played.
type Venue struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Suburb    string `json:"suburb,omitempty"`
	Type      string `json:"type"`
	URL       string `json:"url,omitempty"`
	FirstYear int    `json:"firstYear,omitempty"`
	Active    bool   `json:"active"`
}

// SocialLink is a profile link to an external platform.
type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Profile is the instructor profile served on the about page.
type Profile struct {
	Name        string       `json:"name"`
	Headline    string       `json:"headline,omitempty"`
	Bio         []string     `json:"bio,omitempty"`
	Approach    []string     `json:"approach,omitempty"`
	Instruments []string     `json:"instruments,omitempty"`
	Email       string       `json:"email,omitempty"`
	Social      []SocialLink `json:"social,omitempty"`
}

// FAQ is a question/answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category,omitempty"`
	Order    int    `json:"order,omitempty"`
}

// Snapshot is an immutable view of all loaded content. Accessors hand out
// the slices directly; callers must not mutate them.
type Snapshot struct {
	Packages     []Package
	Tiers        []DiscountTier
	Testimonials []Testimonial
	Venues       []Venue
	Profile      Profile
	FAQs         []FAQ

	// LoadedAt is when this snapshot was built.
	LoadedAt time.Time
}

// Package returns the package with the given id, or false.
func (s *Snapshot) Package(id string) (Package, bool) {
	for _, p := range s.Packages {
		if p.ID == id {
			return p, true
		}
	}
	return Package{}, false
}

// ApprovedTestimonials returns only testimonials cleared for display.
func (s *Snapshot) ApprovedTestimonials() []Testimonial {
	out := make([]Testimonial, 0, len(s.Testimonials))
	for _, t := range s.Testimonials {
		if t.Approved {
			out = append(out, t)
		}
	}
	return out
}

// ActiveVenues returns venues still on the circuit.
func (s *Snapshot) ActiveVenues() []Venue {
	out := make([]Venue, 0, len(s.Venues))
	for _, v := range s.Venues {
		if v.Active {
			out = append(out, v)
		}
	}
	return out
}

// Counts summarizes record counts for the status endpoint.
type Counts struct {
	Packages     int `json:"packages"`
	Tiers        int `json:"tiers"`
	Testimonials int `json:"testimonials"`
	Venues       int `json:"venues"`
	FAQs         int `json:"faqs"`
}

// Counts returns the record counts of the snapshot.
func (s *Snapshot) Counts() Counts {
	return Counts{
		Packages:     len(s.Packages),
		Tiers:        len(s.Tiers),
		Testimonials: len(s.Testimonials),
		Venues:       len(s.Venues),
		FAQs:         len(s.FAQs),
	}
}
