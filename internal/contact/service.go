// SPDX-License-Identifier: MIT

package contact

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime/types"
	"github.com/rs/zerolog"

	"github.com/rishabh7g/rrishmusic/internal/metrics"
)

// Payload is the intake request body. The email address is checked in
// Validate so a malformed one is reported as a field error, not a
// decode error.
type Payload struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone,omitempty"`
	Service          string `json:"service"`
	Message          string `json:"message"`
	PreferredContact string `json:"preferredContact,omitempty"`
}

// ValidationError describes a rejected intake field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("contact: invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the payload beyond JSON shape.
func (p *Payload) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{Field: "name", Reason: "required"}
	}
	email := strings.TrimSpace(p.Email)
	if email == "" {
		return &ValidationError{Field: "email", Reason: "required"}
	}
	// types.Email validates on marshal; reuse that check here.
	if _, err := types.Email(email).MarshalJSON(); err != nil {
		return &ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	if !ValidService(p.Service) {
		return &ValidationError{Field: "service", Reason: "unknown service"}
	}
	msg := strings.TrimSpace(p.Message)
	if len(msg) < MinMessageLen {
		return &ValidationError{Field: "message", Reason: fmt.Sprintf("shorter than %d characters", MinMessageLen)}
	}
	if len(msg) > MaxMessageLen {
		return &ValidationError{Field: "message", Reason: fmt.Sprintf("longer than %d characters", MaxMessageLen)}
	}
	switch p.PreferredContact {
	case "", "email", "phone":
	default:
		return &ValidationError{Field: "preferredContact", Reason: "must be email or phone"}
	}
	if p.PreferredContact == "phone" && strings.TrimSpace(p.Phone) == "" {
		return &ValidationError{Field: "phone", Reason: "required when preferredContact is phone"}
	}
	return nil
}

// Notifier receives every stored submission. Failures are logged and
// counted but never fail the intake.
type Notifier interface {
	Notify(ctx context.Context, sub *Submission) error
}

// LogNotifier is the default notifier: a structured "contact.received" event.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n *LogNotifier) Notify(_ context.Context, sub *Submission) error {
	n.Logger.Info().
		Str("event", "contact.received").
		Str("id", sub.ID).
		Str("service", sub.Service).
		Str("name", sub.Name).
		Msg("contact submission received")
	return nil
}

// Service wires validation, idempotency, persistence and notification.
type Service struct {
	store          Store
	notifier       Notifier
	idempotencyTTL time.Duration
	logger         zerolog.Logger

	// overridable in tests
	now   func() time.Time
	newID func() string
}

// NewService creates a contact service over the given store.
func NewService(store Store, notifier Notifier, idempotencyTTL time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		store:          store,
		notifier:       notifier,
		idempotencyTTL: idempotencyTTL,
		logger:         logger.With().Str("component", "contact").Logger(),
		now:            time.Now,
		newID:          func() string { return uuid.NewString() },
	}
}

// Submit validates and stores a submission. When idemKey matches a prior
// submission the stored one is returned and created is false.
func (s *Service) Submit(ctx context.Context, p Payload, clientIP, idemKey string) (sub *Submission, created bool, err error) {
	if err := p.Validate(); err != nil {
		metrics.IncContactSubmission("invalid")
		return nil, false, err
	}

	if idemKey != "" {
		id, err := s.store.GetIdempotency(ctx, idemKey)
		if err != nil {
			return nil, false, fmt.Errorf("idempotency lookup: %w", err)
		}
		if id != "" {
			prev, err := s.store.Get(ctx, id)
			if err == nil {
				metrics.IncContactSubmission("replayed")
				return prev, false, nil
			}
			// Stored submission vanished (admin delete); fall through and
			// create a fresh one under the same key.
			s.logger.Warn().
				Str("event", "contact.idempotency_stale").
				Str("id", id).
				Msg("idempotency key points at a missing submission")
		}
	}

	sub = &Submission{
		ID:               s.newID(),
		Name:             strings.TrimSpace(p.Name),
		Email:            strings.TrimSpace(p.Email),
		Phone:            strings.TrimSpace(p.Phone),
		Service:          p.Service,
		Message:          strings.TrimSpace(p.Message),
		PreferredContact: p.PreferredContact,
		ClientIP:         clientIP,
		ReceivedAt:       s.now().UTC(),
	}

	if err := s.store.Put(ctx, sub); err != nil {
		metrics.IncContactSubmission("error")
		return nil, false, fmt.Errorf("store submission: %w", err)
	}
	metrics.IncContactSubmission("accepted")

	if idemKey != "" {
		if err := s.store.PutIdempotency(ctx, idemKey, sub.ID, s.idempotencyTTL); err != nil {
			s.logger.Warn().
				Err(err).
				Str("event", "contact.idempotency_store_failed").
				Str("id", sub.ID).
				Msg("failed to record idempotency key")
		}
	}

	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, sub); err != nil {
			metrics.IncContactNotification("error")
			s.logger.Error().
				Err(err).
				Str("event", "contact.notify_failed").
				Str("id", sub.ID).
				Msg("notifier failed")
		} else {
			metrics.IncContactNotification("ok")
		}
	}

	s.updatePendingGauge(ctx)
	return sub, true, nil
}

// List returns submissions newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Submission, error) {
	return s.store.List(ctx, limit, offset)
}

// Delete removes a submission by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.updatePendingGauge(ctx)
	return nil
}

// Count returns the number of stored submissions.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Ping proxies the store health probe.
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) updatePendingGauge(ctx context.Context) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return
	}
	metrics.SetContactPending(n)
}

// MarshalExport renders all submissions as indented JSON for the export
// subcommand.
func (s *Service) MarshalExport(ctx context.Context) ([]byte, int, error) {
	subs, err := s.store.List(ctx, 0, 0)
	if err != nil {
		return nil, 0, err
	}
	data, err := json.MarshalIndent(struct {
		ExportedAt  time.Time    `json:"exportedAt"`
		Count       int          `json:"count"`
		Submissions []Submission `json:"submissions"`
	}{
		ExportedAt:  s.now().UTC(),
		Count:       len(subs),
		Submissions: subs,
	}, "", "  ")
	if err != nil {
		return nil, 0, err
	}
	return data, len(subs), nil
}
