// SPDX-License-Identifier: MIT

package content

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rishabh7g/rrishmusic/internal/netutil"
)

// RecordError locates a shape problem in a content file.
type RecordError struct {
	File  string
	Index int
	Field string
	Msg   string
}

// Error implements the error interface.
func (e RecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s: %s", e.File, e.Field, e.Msg)
	}
	return fmt.Sprintf("%s[%d]: %s: %s", e.File, e.Index, e.Field, e.Msg)
}

// joinErrors folds record errors into a single error value.
func joinErrors(errs []RecordError) error {
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

// validatePackages checks the package table. Packages drive pricing, so
// every record must be valid.
func validatePackages(file string, pkgs []Package) error {
	var errs []RecordError
	if len(pkgs) == 0 {
		errs = append(errs, RecordError{File: file, Index: -1, Field: "packages", Msg: "at least one package required"})
	}
	seen := make(map[string]struct{}, len(pkgs))
	for i, p := range pkgs {
		if strings.TrimSpace(p.ID) == "" {
			errs = append(errs, RecordError{File: file, Index: i, Field: "id", Msg: "required"})
		} else if _, dup := seen[p.ID]; dup {
			errs = append(errs, RecordError{File: file, Index: i, Field: "id", Msg: fmt.Sprintf("duplicate id %q", p.ID)})
		} else {
			seen[p.ID] = struct{}{}
		}
		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, RecordError{File: file, Index: i, Field: "name", Msg: "required"})
		}
		if p.Sessions < 1 {
			errs = append(errs, RecordError{File: file, Index: i, Field: "sessions", Msg: "must be at least 1"})
		}
		if p.PricePerSession <= 0 {
			errs = append(errs, RecordError{File: file, Index: i, Field: "pricePerSession", Msg: "must be positive"})
		}
		if p.DurationMinutes <= 0 {
			errs = append(errs, RecordError{File: file, Index: i, Field: "durationMinutes", Msg: "must be positive"})
		}
	}
	return joinErrors(errs)
}

// validateTiers checks the discount table. Tiers drive pricing, so every
// record must be valid; thresholds must be strictly increasing.
func validateTiers(file string, tiers []DiscountTier) error {
	var errs []RecordError
	if len(tiers) == 0 {
		errs = append(errs, RecordError{File: file, Index: -1, Field: "tiers", Msg: "at least one tier required"})
	}
	prev := 0
	for i, t := range tiers {
		if t.MinSessions < 1 {
			errs = append(errs, RecordError{File: file, Index: i, Field: "minSessions", Msg: "must be at least 1"})
		}
		if t.MinSessions <= prev && i > 0 {
			errs = append(errs, RecordError{File: file, Index: i, Field: "minSessions", Msg: "thresholds must be strictly increasing"})
		}
		prev = t.MinSessions
		if t.Percent < 0 || t.Percent > 100 {
			errs = append(errs, RecordError{File: file, Index: i, Field: "percent", Msg: "must be between 0 and 100"})
		}
	}
	return joinErrors(errs)
}

// validateTestimonials drops invalid records and reports them as warnings.
func validateTestimonials(file string, ts []Testimonial) ([]Testimonial, []RecordError) {
	kept := make([]Testimonial, 0, len(ts))
	var warns []RecordError
	seen := make(map[string]struct{}, len(ts))

	for i, t := range ts {
		bad := func(field, msg string) {
			warns = append(warns, RecordError{File: file, Index: i, Field: field, Msg: msg})
		}
		ok := true
		if strings.TrimSpace(t.ID) == "" {
			bad("id", "required")
			ok = false
		} else if _, dup := seen[t.ID]; dup {
			bad("id", fmt.Sprintf("duplicate id %q", t.ID))
			ok = false
		}
		if strings.TrimSpace(t.Author) == "" {
			bad("author", "required")
			ok = false
		}
		if strings.TrimSpace(t.Quote) == "" {
			bad("quote", "required")
			ok = false
		}
		if t.Rating < 1 || t.Rating > 5 {
			bad("rating", fmt.Sprintf("must be between 1 and 5, got %d", t.Rating))
			ok = false
		}
		if !t.Service.Valid() {
			bad("service", fmt.Sprintf("unknown category %q", t.Service))
			ok = false
		}
		if t.Date != "" {
			if _, err := time.Parse("2006-01", t.Date); err != nil {
				bad("date", "must be YYYY-MM")
				ok = false
			}
		}
		if ok {
			seen[t.ID] = struct{}{}
			kept = append(kept, t)
		}
	}
	return kept, warns
}

// validateVenues drops invalid records and reports them as warnings.
func validateVenues(file string, vs []Venue) ([]Venue, []RecordError) {
	kept := make([]Venue, 0, len(vs))
	var warns []RecordError
	seen := make(map[string]struct{}, len(vs))

	for i, v := range vs {
		bad := func(field, msg string) {
			warns = append(warns, RecordError{File: file, Index: i, Field: field, Msg: msg})
		}
		ok := true
		if strings.TrimSpace(v.ID) == "" {
			bad("id", "required")
			ok = false
		} else if _, dup := seen[v.ID]; dup {
			bad("id", fmt.Sprintf("duplicate id %q", v.ID))
			ok = false
		}
		if strings.TrimSpace(v.Name) == "" {
			bad("name", "required")
			ok = false
		}
		switch v.Type {
		case VenueBar, VenueRestaurant, VenuePrivate, VenueFestival:
		default:
			bad("type", fmt.Sprintf("unknown venue type %q", v.Type))
			ok = false
		}
		if v.URL != "" {
			if err := checkWebURL(v.URL); err != nil {
				bad("url", err.Error())
				ok = false
			}
		}
		if v.FirstYear != 0 && (v.FirstYear < 1990 || v.FirstYear > time.Now().Year()+1) {
			bad("firstYear", fmt.Sprintf("implausible year %d", v.FirstYear))
			ok = false
		}
		if ok {
			seen[v.ID] = struct{}{}
			kept = append(kept, v)
		}
	}
	return kept, warns
}

// validateProfile checks the instructor profile. A missing name or broken
// email is fatal; broken social links are dropped with a warning.
func validateProfile(file string, p Profile) (Profile, []RecordError, error) {
	var errs []RecordError
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, RecordError{File: file, Index: -1, Field: "name", Msg: "required"})
	}
	if strings.TrimSpace(p.Email) == "" {
		errs = append(errs, RecordError{File: file, Index: -1, Field: "email", Msg: "required"})
	} else {
		normalized, err := netutil.NormalizeEmailHost(p.Email)
		if err != nil {
			errs = append(errs, RecordError{File: file, Index: -1, Field: "email", Msg: err.Error()})
		} else {
			p.Email = normalized
		}
	}
	if err := joinErrors(errs); err != nil {
		return p, nil, err
	}

	var warns []RecordError
	kept := make([]SocialLink, 0, len(p.Social))
	for i, s := range p.Social {
		if strings.TrimSpace(s.Platform) == "" || checkWebURL(s.URL) != nil {
			warns = append(warns, RecordError{File: file, Index: i, Field: "social", Msg: "invalid link dropped"})
			continue
		}
		kept = append(kept, s)
	}
	p.Social = kept
	return p, warns, nil
}

// validateFAQs drops invalid records and reports them as warnings.
func validateFAQs(file string, fs []FAQ) ([]FAQ, []RecordError) {
	kept := make([]FAQ, 0, len(fs))
	var warns []RecordError
	for i, f := range fs {
		if strings.TrimSpace(f.Question) == "" || strings.TrimSpace(f.Answer) == "" {
			warns = append(warns, RecordError{File: file, Index: i, Field: "question/answer", Msg: "required"})
			continue
		}
		kept = append(kept, f)
	}
	return kept, warns
}

// checkWebURL verifies an absolute http(s) URL with a normalizable host.
func checkWebURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}
	if _, err := netutil.NormalizeHost(u.Hostname()); err != nil {
		return fmt.Errorf("invalid url host: %v", err)
	}
	return nil
}
