// SPDX-License-Identifier: MIT

package contact

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPayload() Payload {
	return Payload{
		Name:    "Jamie Client",
		Email:   "jamie@example.com",
		Service: "lessons",
		Message: "I'd like to book a trial lesson for my daughter.",
	}
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc := NewService(NewMemoryStore(), nil, time.Hour, zerolog.Nop())
	return svc
}

func TestPayloadValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Payload)
		field  string
	}{
		{"missing name", func(p *Payload) { p.Name = "  " }, "name"},
		{"missing email", func(p *Payload) { p.Email = "" }, "email"},
		{"unknown service", func(p *Payload) { p.Service = "djing" }, "service"},
		{"empty service", func(p *Payload) { p.Service = "" }, "service"},
		{"message too short", func(p *Payload) { p.Message = "hi" }, "message"},
		{"message too long", func(p *Payload) {
			long := make([]byte, MaxMessageLen+1)
			for i := range long {
				long[i] = 'a'
			}
			p.Message = string(long)
		}, "message"},
		{"bad preferred contact", func(p *Payload) { p.PreferredContact = "fax" }, "preferredContact"},
		{"phone preferred without phone", func(p *Payload) { p.PreferredContact = "phone" }, "phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)
			err := p.Validate()
			require.Error(t, err)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}

	t.Run("valid", func(t *testing.T) {
		p := validPayload()
		require.NoError(t, p.Validate())
	})

	t.Run("general service accepted", func(t *testing.T) {
		p := validPayload()
		p.Service = ServiceGeneral
		require.NoError(t, p.Validate())
	})
}

func TestPayloadRejectsMalformedEmail(t *testing.T) {
	var p Payload
	err := json.Unmarshal([]byte(`{"name":"A","email":"not-an-email","service":"lessons","message":"0123456789"}`), &p)
	require.NoError(t, err, "decoding must not reject the email; Validate reports it as a field error")

	verr := &ValidationError{}
	require.ErrorAs(t, p.Validate(), &verr)
	assert.Equal(t, "email", verr.Field)

	err = json.Unmarshal([]byte(`{"name":"A","email":"a@example.com","service":"lessons","message":"0123456789"}`), &p)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", p.Email)
	require.NoError(t, p.Validate())
}

func TestServiceSubmit(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	sub, created, err := svc.Submit(ctx, validPayload(), "203.0.113.9", "")
	require.NoError(t, err)
	require.True(t, created)
	require.NotEmpty(t, sub.ID)
	assert.Equal(t, "203.0.113.9", sub.ClientIP)
	assert.False(t, sub.ReceivedAt.IsZero())

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestServiceSubmitInvalidNotStored(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	p := validPayload()
	p.Message = "hi"
	_, _, err := svc.Submit(ctx, p, "", "")
	require.Error(t, err)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestServiceSubmitIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, created, err := svc.Submit(ctx, validPayload(), "", "client-key-1")
	require.NoError(t, err)
	require.True(t, created)

	second, created, err := svc.Submit(ctx, validPayload(), "", "client-key-1")
	require.NoError(t, err)
	assert.False(t, created, "replay must not create a new submission")
	assert.Equal(t, first.ID, second.ID)

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	// A different key creates a fresh submission.
	third, created, err := svc.Submit(ctx, validPayload(), "", "client-key-2")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, first.ID, third.ID)
}

type failingNotifier struct{ calls int }

func (n *failingNotifier) Notify(context.Context, *Submission) error {
	n.calls++
	return assert.AnError
}

func TestServiceNotifierFailureDoesNotFailIntake(t *testing.T) {
	notifier := &failingNotifier{}
	svc := NewService(NewMemoryStore(), notifier, time.Hour, zerolog.Nop())

	_, created, err := svc.Submit(context.Background(), validPayload(), "", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 1, notifier.calls)
}

func TestServiceExport(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := svc.Submit(ctx, validPayload(), "", "")
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "export.json")
	n, err := svc.Export(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var out struct {
		Count       int          `json:"count"`
		Submissions []Submission `json:"submissions"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, 3, out.Count)
	assert.Len(t, out.Submissions, 3)
}

// countlessStore fails Count so the export count must come from the
// marshalled submissions themselves.
type countlessStore struct {
	Store
}

func (countlessStore) Count(ctx context.Context) (int, error) {
	return 0, errors.New("count unavailable")
}

func TestServiceExportCountIgnoresStoreCount(t *testing.T) {
	svc := NewService(countlessStore{Store: NewMemoryStore()}, nil, time.Hour, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, _, err := svc.Submit(ctx, validPayload(), "", "")
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), "export.json")
	n, err := svc.Export(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
