package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jhoicas/Inventario-hotel/internal/application/entry"
)

var _ entry.SessionStore = (*SessionStore)(nil)

type sessionRecord struct {
	data      []byte
	expiresAt time.Time
}

// SessionStore sesiones de entrada serializadas en JSON con caducidad, igual que en
// Redis, para que quien lee nunca comparta punteros con quien escribe.
type SessionStore struct {
	mu   sync.Mutex
	ttl  time.Duration
	data map[string]sessionRecord
	now  func() time.Time
}

// NewSessionStore crea el almacén; ttl <= 0 desactiva la caducidad.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{ttl: ttl, data: make(map[string]sessionRecord), now: time.Now}
}

func (s *SessionStore) Get(_ context.Context, id string) (*entry.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	if !rec.expiresAt.IsZero() && !s.now().Before(rec.expiresAt) {
		delete(s.data, id)
		return nil, nil
	}
	var sess entry.Session
	if err := json.Unmarshal(rec.data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *SessionStore) Save(_ context.Context, sess *entry.Session) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	rec := sessionRecord{data: b}
	if s.ttl > 0 {
		rec.expiresAt = s.now().Add(s.ttl)
	}
	s.data[sess.ID] = rec
	return nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}
