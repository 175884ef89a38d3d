package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"booking-service/data"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testTracer() trace.Tracer {
	return trace.NewNoopTracerProvider().Tracer("test")
}

// memReservationRepo is the in-memory reservation store used to make
// the read-validate-write race observable in tests.
type memReservationRepo struct {
	mu           sync.Mutex
	reservations data.Reservations
}

func (m *memReservationRepo) GetByProperty(_ context.Context, propertyID string) (data.Reservations, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result data.Reservations
	for _, r := range m.reservations {
		if r.PropertyID == propertyID {
			result = append(result, r)
		}
	}
	return result, nil
}

func (m *memReservationRepo) Insert(_ context.Context, reservation *data.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reservations = append(m.reservations, reservation)
	return nil
}

func (m *memReservationRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.reservations)
}

type memPropertyRepo struct {
	properties data.Properties
}

func newMemPropertyRepo() *memPropertyRepo {
	return &memPropertyRepo{properties: data.SeedProperties()}
}

func (m *memPropertyRepo) GetAll(_ context.Context) (data.Properties, error) {
	return m.properties, nil
}

func (m *memPropertyRepo) GetByID(_ context.Context, id string) (*data.Property, error) {
	for _, p := range m.properties {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("property %q not found", id)
}

// memDraftStore marshals drafts through real JSON so the tests also
// cover the round-trip fidelity the session store relies on.
type memDraftStore struct {
	mu     sync.Mutex
	drafts map[string][]byte
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{drafts: make(map[string][]byte)}
}

func (m *memDraftStore) Save(_ context.Context, draft *data.BookingDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[draft.SessionID] = payload
	return nil
}

func (m *memDraftStore) Load(_ context.Context, sessionID string) (*data.BookingDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.drafts[sessionID]
	if !ok {
		return nil, fmt.Errorf("draft session %q not found", sessionID)
	}
	var draft data.BookingDraft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (m *memDraftStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, sessionID)
	return nil
}
