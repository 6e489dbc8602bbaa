package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kiwari-pos/stockbook/internal/enum"
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/kiwari-pos/stockbook/internal/store"
	"github.com/rs/zerolog/log"
)

const (
	defaultConfirmTTL = 2 * time.Minute
	defaultNoticeTTL  = 3 * time.Second
)

// Session owns the application state: catalog, order history, statistics
// and the working order. Every operation holds the session lock for its
// whole run, so operations never interleave.
type Session struct {
	mu sync.Mutex

	gw       *store.Gateway
	products []inventory.Product
	orders   []inventory.Order
	stats    inventory.Statistics
	working  *inventory.WorkingOrder
	pending  map[string]pendingAction

	notifier   Notifier
	observer   Observer
	now        func() time.Time
	newID      func() string
	confirmTTL time.Duration
	noticeTTL  time.Duration
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier sets where notices are sent.
func WithNotifier(n Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithObserver sets the state-change observer (metrics).
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDGenerator overrides how product, order and token IDs are made.
func WithIDGenerator(newID func() string) Option {
	return func(s *Session) { s.newID = newID }
}

// WithConfirmTTL sets how long a pending confirmation stays valid.
func WithConfirmTTL(d time.Duration) Option {
	return func(s *Session) { s.confirmTTL = d }
}

// WithNoticeTTL sets the DismissAfter of emitted notices.
func WithNoticeTTL(d time.Duration) Option {
	return func(s *Session) { s.noticeTTL = d }
}

// Open loads the persisted collections and starts a fresh working order.
// A collection whose stored value is corrupt is set aside under
// "<key>.corrupt" and replaced by its empty default.
func Open(ctx context.Context, gw *store.Gateway, opts ...Option) (*Session, error) {
	s := &Session{
		gw:         gw,
		pending:    make(map[string]pendingAction),
		notifier:   nopNotifier{},
		observer:   nopObserver{},
		now:        time.Now,
		newID:      uuid.NewString,
		confirmTTL: defaultConfirmTTL,
		noticeTTL:  defaultNoticeTTL,
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	s.products, err = gw.LoadProducts(ctx)
	if err := s.recoverCorrupt(ctx, err); err != nil {
		return nil, err
	}
	s.orders, err = gw.LoadOrders(ctx)
	if err := s.recoverCorrupt(ctx, err); err != nil {
		return nil, err
	}
	s.stats, err = gw.LoadStatistics(ctx)
	if err := s.recoverCorrupt(ctx, err); err != nil {
		return nil, err
	}

	s.working = inventory.NewWorkingOrder(s.newID(), s.now())
	s.catalogChanged()

	log.Info().
		Int("products", len(s.products)).
		Int("orders", len(s.orders)).
		Msg("session: state loaded")
	return s, nil
}

func (s *Session) recoverCorrupt(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	var corrupt *store.CorruptStateError
	if !errors.As(err, &corrupt) {
		return err
	}

	log.Error().Err(corrupt.Err).Str("key", corrupt.Key).Msg("session: stored state is corrupt, starting empty")
	if perr := s.gw.Preserve(ctx, corrupt.Key, corrupt.Raw); perr != nil {
		return fmt.Errorf("preserve corrupt %s: %w", corrupt.Key, perr)
	}
	s.observer.Rejected(ErrorKind(err))
	s.notify(enum.SeverityError, fmt.Sprintf("Stored %s were unreadable and have been reset", corrupt.Key))
	return nil
}

func (s *Session) catalogChanged() {
	s.observer.CatalogChanged(len(s.products), s.inventoryValuation())
}

func (s *Session) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p inventory.Product) bool { return p.ID == id })
}

func (s *Session) saveAll(ctx context.Context) error {
	if err := s.gw.SaveProducts(ctx, s.products); err != nil {
		return err
	}
	if err := s.gw.SaveOrders(ctx, s.orders); err != nil {
		return err
	}
	return s.gw.SaveStatistics(ctx, s.stats)
}
