// SPDX-License-Identifier: MIT

package content

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/rishabh7g/rrishmusic/internal/log"
	"github.com/rishabh7g/rrishmusic/internal/metrics"
)

// Content file names, identical embedded and on disk.
const (
	filePackages     = "packages.json"
	fileDiscounts    = "discounts.json"
	fileTestimonials = "testimonials.json"
	fileVenues       = "venues.json"
	fileProfile      = "profile.json"
	fileFAQ          = "faq.json"
)

// Store loads content records and serves immutable snapshots. Reloads swap
// the snapshot atomically; a failed reload keeps the previous snapshot.
type Store struct {
	mu      sync.RWMutex
	current *Snapshot

	dir     string
	logger  zerolog.Logger
	watcher *fsnotify.Watcher

	reloadMu sync.RWMutex
	onReload []func(*Snapshot)
}

// NewStore creates a content store. dir optionally points at a directory
// whose files override the embedded records; empty means embedded only.
func NewStore(dir string) *Store {
	return &Store{
		dir:    dir,
		logger: log.WithComponent("content"),
	}
}

// Load builds the initial snapshot. Must be called before Snapshot.
func (s *Store) Load() error {
	snap, err := s.build()
	if err != nil {
		metrics.RecordContentReload("failure")
		return err
	}
	s.swap(snap)
	metrics.RecordContentReload("success")
	return nil
}

// Snapshot returns the current content snapshot (thread-safe read).
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Reload rebuilds the snapshot from disk and embedded data. On failure the
// previous snapshot stays live and an error is returned.
func (s *Store) Reload(_ context.Context) error {
	s.logger.Info().Str("event", "content.reload_start").Msg("reloading content")

	snap, err := s.build()
	if err != nil {
		metrics.RecordContentReload("failure")
		s.logger.Error().
			Err(err).
			Str("event", "content.reload_failed").
			Msg("content reload failed, keeping previous snapshot")
		return fmt.Errorf("reload content: %w", err)
	}

	s.swap(snap)
	metrics.RecordContentReload("success")
	s.logger.Info().
		Str("event", "content.reload_success").
		Int(log.FieldRecords, len(snap.Packages)+len(snap.Testimonials)+len(snap.Venues)+len(snap.FAQs)).
		Msg("content reloaded")
	return nil
}

// OnReload registers a callback invoked after every successful snapshot
// swap (including the initial Load). Callbacks run synchronously; keep
// them fast.
func (s *Store) OnReload(fn func(*Snapshot)) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	s.onReload = append(s.onReload, fn)
}

// swap publishes a new snapshot and notifies reload listeners.
func (s *Store) swap(snap *Snapshot) {
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	counts := snap.Counts()
	metrics.SetContentRecords("packages", counts.Packages)
	metrics.SetContentRecords("tiers", counts.Tiers)
	metrics.SetContentRecords("testimonials", counts.Testimonials)
	metrics.SetContentRecords("venues", counts.Venues)
	metrics.SetContentRecords("faqs", counts.FAQs)

	s.reloadMu.RLock()
	listeners := s.onReload
	s.reloadMu.RUnlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

// Watch starts a filesystem watcher on the override directory and reloads
// on changes (500ms debounce). No-op when no override directory is set.
func (s *Store) Watch(ctx context.Context) error {
	if s.dir == "" {
		s.logger.Info().
			Str("event", "content.watcher_disabled").
			Msg("content watcher disabled (embedded content only)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	s.watcher = watcher

	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch content dir: %w", err)
	}

	s.logger.Info().
		Str("event", "content.watcher_started").
		Str(log.FieldContentDir, s.dir).
		Msg("watching content directory for changes")

	go s.watchLoop(ctx)
	return nil
}

// watchLoop is the main file watcher loop.
func (s *Store) watchLoop(ctx context.Context) {
	var debounceTimer *time.Timer
	debounceDuration := 500 * time.Millisecond

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Str("event", "content.watcher_stopped").Msg("content watcher stopped")
			if s.watcher != nil {
				_ = s.watcher.Close()
			}
			return

		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			// Write, Create and Rename cover editors and atomic replacers.
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				s.logger.Debug().
					Str("event", "content.file_changed").
					Str("op", event.Op.String()).
					Str(log.FieldPath, event.Name).
					Msg("content file changed")

				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.AfterFunc(debounceDuration, func() {
					if err := s.Reload(ctx); err != nil {
						s.logger.Error().
							Err(err).
							Str("event", "content.auto_reload_failed").
							Msg("automatic content reload failed")
					}
				})
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error().
				Err(err).
				Str("event", "content.watcher_error").
				Msg("content watcher error")
		}
	}
}

// Stop stops the content watcher (if running).
func (s *Store) Stop() {
	if s.watcher != nil {
		_ = s.watcher.Close()
	}
}

// build reads, decodes and validates all content files into a snapshot.
func (s *Store) build() (*Snapshot, error) {
	snap := &Snapshot{LoadedAt: time.Now().UTC()}

	// Required files: pricing and the about page depend on them.
	if err := s.loadInto(filePackages, &snap.Packages); err != nil {
		return nil, err
	}
	if err := validatePackages(filePackages, snap.Packages); err != nil {
		return nil, err
	}
	sort.SliceStable(snap.Packages, func(i, j int) bool {
		if snap.Packages[i].Order != snap.Packages[j].Order {
			return snap.Packages[i].Order < snap.Packages[j].Order
		}
		return snap.Packages[i].Name < snap.Packages[j].Name
	})

	if err := s.loadInto(fileDiscounts, &snap.Tiers); err != nil {
		return nil, err
	}
	if err := validateTiers(fileDiscounts, snap.Tiers); err != nil {
		return nil, err
	}

	var profile Profile
	if err := s.loadInto(fileProfile, &profile); err != nil {
		return nil, err
	}
	profile, warns, err := validateProfile(fileProfile, profile)
	if err != nil {
		return nil, err
	}
	s.warn(warns)
	snap.Profile = profile

	// Optional files: invalid records are skipped with warnings, a missing
	// file serves empty.
	var testimonials []Testimonial
	if err := s.loadOptional(fileTestimonials, &testimonials); err != nil {
		return nil, err
	}
	kept, warns2 := validateTestimonials(fileTestimonials, testimonials)
	s.warn(warns2)
	snap.Testimonials = kept

	var venues []Venue
	if err := s.loadOptional(fileVenues, &venues); err != nil {
		return nil, err
	}
	keptVenues, warns3 := validateVenues(fileVenues, venues)
	s.warn(warns3)
	snap.Venues = keptVenues

	var faqs []FAQ
	if err := s.loadOptional(fileFAQ, &faqs); err != nil {
		return nil, err
	}
	keptFAQs, warns4 := validateFAQs(fileFAQ, faqs)
	s.warn(warns4)
	sort.SliceStable(keptFAQs, func(i, j int) bool { return keptFAQs[i].Order < keptFAQs[j].Order })
	snap.FAQs = keptFAQs

	return snap, nil
}

// warn logs skipped-record warnings.
func (s *Store) warn(warns []RecordError) {
	for _, w := range warns {
		metrics.IncContentRecordSkipped(w.File)
		s.logger.Warn().
			Str("event", "content.record_skipped").
			Str("file", w.File).
			Int("index", w.Index).
			Str("field", w.Field).
			Msg(w.Msg)
	}
}

// loadInto reads and strictly decodes a required content file.
func (s *Store) loadInto(name string, v any) error {
	data, source, err := s.readFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := decodeStrict(data, v); err != nil {
		return fmt.Errorf("decode %s (%s): %w", name, source, err)
	}
	s.logger.Debug().
		Str("event", "content.file_loaded").
		Str("file", name).
		Str("source", source).
		Msg("content file loaded")
	return nil
}

// loadOptional is loadInto for files that may be absent.
func (s *Store) loadOptional(name string, v any) error {
	data, source, err := s.readFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Warn().
				Str("event", "content.file_missing").
				Str("file", name).
				Msg("optional content file missing, serving empty")
			return nil
		}
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := decodeStrict(data, v); err != nil {
		return fmt.Errorf("decode %s (%s): %w", name, source, err)
	}
	return nil
}

// readFile resolves a content file: override directory first, then the
// embedded copy.
func (s *Store) readFile(name string) ([]byte, string, error) {
	if s.dir != "" {
		p := filepath.Join(s.dir, name)
		data, err := os.ReadFile(p) // #nosec G304 -- content dir is operator-provided
		if err == nil {
			return data, p, nil
		}
		if !os.IsNotExist(err) {
			return nil, "", err
		}
	}
	data, err := embedded.ReadFile("data/" + name)
	if err != nil {
		return nil, "", err
	}
	return data, "embedded", nil
}

// decodeStrict decodes JSON rejecting unknown fields and trailing content.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing content after JSON document")
	}
	return nil
}
