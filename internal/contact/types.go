// SPDX-License-Identifier: MIT

// Package contact implements the contact intake pipeline: validated
// submissions are persisted through a pluggable store and handed to a
// notifier. Email automation is out of scope; the default notifier is
// the structured log.
package contact

import (
	"errors"
	"time"

	"github.com/rishabh7g/rrishmusic/internal/content"
)

// ServiceGeneral extends the content service enum for enquiries that do
// not target a specific offering.
const ServiceGeneral = "general"

// Message length bounds enforced on intake.
const (
	MinMessageLen = 10
	MaxMessageLen = 4000
)

var (
	// ErrNotFound is returned when a submission id does not exist.
	ErrNotFound = errors.New("submission not found")

	// ErrDuplicateID is returned when a submission id is already stored.
	ErrDuplicateID = errors.New("submission id already exists")
)

// Submission is a stored contact request.
type Submission struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone,omitempty"`
	Service          string    `json:"service"`
	Message          string    `json:"message"`
	PreferredContact string    `json:"preferredContact,omitempty"`
	ClientIP         string    `json:"clientIP,omitempty"`
	ReceivedAt       time.Time `json:"receivedAt"`
}

// ValidService reports whether s is an accepted service value: the content
// service enum plus "general".
func ValidService(s string) bool {
	if s == ServiceGeneral {
		return true
	}
	return content.ServiceCategory(s).Valid()
}

// Services lists the accepted service values in display order.
func Services() []string {
	out := make([]string, 0, 4)
	for _, c := range content.Categories() {
		out = append(out, string(c))
	}
	return append(out, ServiceGeneral)
}
