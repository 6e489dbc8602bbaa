package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/kiwari-pos/stockbook/internal/enum"
	"github.com/kiwari-pos/stockbook/internal/inventory"
	"github.com/rs/zerolog/log"
)

// Export snapshots products, orders and statistics into one document.
func (s *Session) Export() inventory.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := inventory.Document{
		Products:   slices.Clone(s.products),
		Orders:     slices.Clone(s.orders),
		Statistics: s.stats.Clone(),
		ExportedAt: s.now().UTC(),
	}
	s.succeed("Data exported")
	return doc
}

// RequestImport parses raw and, if it is a valid document, returns a
// confirmation that replaces the collections present in it.
func (s *Session) RequestImport(raw []byte) (PendingConfirmation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, err := inventory.ParseImport(raw)
	if err != nil {
		return PendingConfirmation{}, s.reject(fmt.Errorf("%w: %w", ErrImportFormat, err))
	}
	return s.addPending(enum.ActionImport, importSubject(set), func(ctx context.Context) error {
		return s.applyImport(ctx, set)
	}), nil
}

func importSubject(set inventory.ImportSet) string {
	var products, orders int
	if set.Products != nil {
		products = len(*set.Products)
	}
	if set.Orders != nil {
		orders = len(*set.Orders)
	}
	return fmt.Sprintf("%d products, %d orders", products, orders)
}

// applyImport replaces the collections present in set and persists all
// three. The working order is kept. Callers hold s.mu.
func (s *Session) applyImport(ctx context.Context, set inventory.ImportSet) error {
	if set.Products != nil {
		s.products = slices.Clone(*set.Products)
	}
	if set.Orders != nil {
		s.orders = slices.Clone(*set.Orders)
	}
	if set.Statistics != nil {
		s.stats = set.Statistics.Clone()
	}

	if err := s.saveAll(ctx); err != nil {
		log.Error().Err(err).Msg("service: failed to persist imported data")
		return s.reject(fmt.Errorf("import: %w", err))
	}

	s.catalogChanged()
	log.Info().Int("products", len(s.products)).Int("orders", len(s.orders)).Msg("service: data imported")
	s.succeed("Data imported")
	return nil
}

// RequestReset returns a confirmation that clears all data.
func (s *Session) RequestReset() PendingConfirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addPending(enum.ActionReset, "", s.resetAll)
}

// resetAll empties every collection, starts a fresh working order and
// persists. Callers hold s.mu.
func (s *Session) resetAll(ctx context.Context) error {
	s.products = []inventory.Product{}
	s.orders = []inventory.Order{}
	s.stats = inventory.NewStatistics()
	s.resetWorking()

	if err := s.saveAll(ctx); err != nil {
		log.Error().Err(err).Msg("service: failed to persist reset")
		return s.reject(fmt.Errorf("reset: %w", err))
	}

	s.catalogChanged()
	log.Info().Msg("service: all data reset")
	s.succeed("Data reset")
	return nil
}
