// SPDX-License-Identifier: MIT

package api

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rishabh7g/rrishmusic/internal/content"
)

// handleListPackages serves the lesson packages in display order.
func (s *Server) handleListPackages(w http.ResponseWriter, r *http.Request) {
	snap := s.content.Snapshot()

	pkgs := make([]content.Package, len(snap.Packages))
	copy(pkgs, snap.Packages)
	sort.SliceStable(pkgs, func(i, j int) bool { return pkgs[i].Order < pkgs[j].Order })

	writeJSON(w, http.StatusOK, map[string]any{
		"packages": pkgs,
		"tiers":    snap.Tiers,
	})
}

func (s *Server) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	snap := s.content.Snapshot()

	pkg, ok := snap.Package(chi.URLParam(r, "id"))
	if !ok {
		writeNotFound(w)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

// handleListTestimonials serves approved testimonials newest first, with
// optional service/featured filters and limit/offset paging.
func (s *Server) handleListTestimonials(w http.ResponseWriter, r *http.Request) {
	snap := s.content.Snapshot()
	q := r.URL.Query()

	service := q.Get("service")
	if service != "" && !content.ServiceCategory(service).Valid() {
		writeBadRequest(w, "unknown service")
		return
	}

	var featured *bool
	if v := q.Get("featured"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeBadRequest(w, "featured must be a boolean")
			return
		}
		featured = &b
	}

	limit, err := parseNonNegative(q.Get("limit"), 0)
	if err != nil {
		writeBadRequest(w, "limit must be a non-negative integer")
		return
	}
	offset, err := parseNonNegative(q.Get("offset"), 0)
	if err != nil {
		writeBadRequest(w, "offset must be a non-negative integer")
		return
	}

	all := snap.ApprovedTestimonials()
	filtered := make([]content.Testimonial, 0, len(all))
	for _, t := range all {
		if service != "" && string(t.Service) != service {
			continue
		}
		if featured != nil && t.Featured != *featured {
			continue
		}
		filtered = append(filtered, t)
	}

	// Date is YYYY-MM, so a string sort is a time sort.
	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Date > filtered[j].Date })

	total := len(filtered)
	if offset >= len(filtered) {
		filtered = []content.Testimonial{}
	} else {
		filtered = filtered[offset:]
	}
	if limit > 0 && limit < len(filtered) {
		filtered = filtered[:limit]
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"testimonials": filtered,
		"total":        total,
	})
}

// handleListVenues serves venues, optionally filtered by active flag.
func (s *Server) handleListVenues(w http.ResponseWriter, r *http.Request) {
	snap := s.content.Snapshot()

	venues := snap.Venues
	if v := r.URL.Query().Get("active"); v != "" {
		active, err := strconv.ParseBool(v)
		if err != nil {
			writeBadRequest(w, "active must be a boolean")
			return
		}
		filtered := make([]content.Venue, 0, len(venues))
		for _, venue := range venues {
			if venue.Active == active {
				filtered = append(filtered, venue)
			}
		}
		venues = filtered
	}

	writeJSON(w, http.StatusOK, map[string]any{"venues": venues})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.content.Snapshot().Profile)
}

// handleListFAQs serves FAQs in display order.
func (s *Server) handleListFAQs(w http.ResponseWriter, r *http.Request) {
	snap := s.content.Snapshot()

	faqs := make([]content.FAQ, len(snap.FAQs))
	copy(faqs, snap.FAQs)
	sort.SliceStable(faqs, func(i, j int) bool { return faqs[i].Order < faqs[j].Order })

	writeJSON(w, http.StatusOK, map[string]any{"faq": faqs})
}

// parseNonNegative parses a query integer, returning def for empty input.
func parseNonNegative(v string, def int) (int, error) {
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, strconv.ErrSyntax
	}
	return n, nil
}
