package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"github.com/cirruslabs-it/asset-inventory/internal"
)

type resetEntry struct {
	email  string
	expiry time.Time
}

// ResetTokenStore maps opaque reset tokens to the email they were issued
// for. Entries are single-use and expire after the configured TTL; a
// janitor goroutine evicts stale entries so abandoned requests do not
// accumulate. The store is process-local and not persisted across
// restarts.
type ResetTokenStore struct {
	mu      sync.Mutex
	tokens  map[string]resetEntry
	ttl     time.Duration
	stopCh  chan struct{}
	stopped sync.Once
	now     func() time.Time
}

func NewResetTokenStore(ttl time.Duration) *ResetTokenStore {
	if ttl == 0 {
		ttl = time.Hour
	}
	s := &ResetTokenStore{
		tokens: make(map[string]resetEntry),
		ttl:    ttl,
		stopCh: make(chan struct{}),
		now:    time.Now,
	}
	go s.janitor()
	return s
}

// Create issues a new random token bound to the given email.
func (s *ResetTokenStore) Create(email string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)

	s.mu.Lock()
	s.tokens[token] = resetEntry{email: email, expiry: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return token, nil
}

// Consume validates a token against the email it was issued for and
// deletes it on success. Expired tokens are deleted on sight; a token
// bound to a different email is rejected but kept, matching the original
// single-owner semantics.
func (s *ResetTokenStore) Consume(token, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tokens[token]
	if !ok {
		return internal.ErrResetTokenInvalid
	}
	if s.now().After(entry.expiry) {
		delete(s.tokens, token)
		return internal.ErrResetTokenExpired
	}
	if entry.email != email {
		return internal.ErrResetTokenMismatch
	}

	delete(s.tokens, token)
	return nil
}

// Len reports the number of live entries; used by tests and diagnostics.
func (s *ResetTokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

func (s *ResetTokenStore) Stop() {
	s.stopped.Do(func() { close(s.stopCh) })
}

func (s *ResetTokenStore) janitor() {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.evictExpired()
		case <-s.stopCh:
			return
		}
	}
}

func (s *ResetTokenStore) evictExpired() {
	now := s.now()
	s.mu.Lock()
	for token, entry := range s.tokens {
		if now.After(entry.expiry) {
			delete(s.tokens, token)
		}
	}
	s.mu.Unlock()
}
