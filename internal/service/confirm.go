package service

import (
	"context"
	"time"
)

// PendingConfirmation describes a destructive action waiting for the
// operator to confirm it.
type PendingConfirmation struct {
	Token     string    `json:"token"`
	Action    string    `json:"action"`
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type pendingAction struct {
	info PendingConfirmation
	run  func(ctx context.Context) error
}

// addPending registers run under a new token. Callers hold s.mu; run is
// later invoked with s.mu held as well.
func (s *Session) addPending(action, subject string, run func(ctx context.Context) error) PendingConfirmation {
	s.pruneExpired()

	info := PendingConfirmation{
		Token:     s.newID(),
		Action:    action,
		Subject:   subject,
		ExpiresAt: s.now().Add(s.confirmTTL),
	}
	s.pending[info.Token] = pendingAction{info: info, run: run}
	return info
}

// Confirm runs the action behind token. A token works once.
func (s *Session) Confirm(ctx context.Context, token string) (PendingConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneExpired()
	p, ok := s.pending[token]
	if !ok {
		return PendingConfirmation{}, s.reject(ErrConfirmationNotFound)
	}
	delete(s.pending, token)

	if err := p.run(ctx); err != nil {
		return p.info, err
	}
	return p.info, nil
}

// Cancel drops the action behind token without running it.
func (s *Session) Cancel(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneExpired()
	if _, ok := s.pending[token]; !ok {
		return s.reject(ErrConfirmationNotFound)
	}
	delete(s.pending, token)
	return nil
}

// Pending lists confirmations that have not expired.
func (s *Session) Pending() []PendingConfirmation {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneExpired()
	out := make([]PendingConfirmation, 0, len(s.pending))
	for _, p := range s.pending {
		out = append(out, p.info)
	}
	return out
}

func (s *Session) pruneExpired() {
	now := s.now()
	for token, p := range s.pending {
		if !now.Before(p.info.ExpiresAt) {
			delete(s.pending, token)
		}
	}
}
