package processing

import (
	"context"
	"sync"
	"time"

	"bill_split/internal/sheets"
	"bill_split/internal/split"

	"github.com/rs/zerolog/log"
)

// Notifier is told about every new split result.
type Notifier interface {
	NotifyTotals(ctx context.Context, totals split.Totals)
}

// SheetSync recalculates the split table held in a spreadsheet and writes the
// totals back whenever they change.
type SheetSync struct {
	store    sheets.ValueStore
	cfg      sheets.Config
	notifier Notifier

	mu      sync.Mutex
	last    split.Totals
	hasLast bool
}

func NewSheetSync(store sheets.ValueStore, cfg sheets.Config, notifier Notifier) *SheetSync {
	return &SheetSync{
		store:    store,
		cfg:      cfg,
		notifier: notifier,
	}
}

// RunOnce performs one read-calculate-write pass. It reports whether the
// totals were written. Totals equal to the last result are still rewritten
// when the sheet no longer shows them, but only new results are notified.
func (s *SheetSync) RunOnce(ctx context.Context) (bool, error) {
	log.Debug().Msg("Starting sheet sync")

	g, err := sheets.ReadSplitGrid(ctx, s.store, s.cfg)
	if err != nil {
		return false, err
	}

	totals := g.Calculate()

	s.mu.Lock()
	unchanged := s.hasLast && s.last.Equal(totals)
	s.mu.Unlock()
	if unchanged {
		written, err := sheets.TotalsWritten(ctx, s.store, s.cfg, totals)
		if err != nil {
			return false, err
		}
		if written {
			log.Debug().Msg("Totals unchanged, skipping write")
			return false, nil
		}
		log.Info().Msg("Totals table differs from the last result, rewriting")
	}

	if err := sheets.WriteTotals(ctx, s.store, s.cfg, totals); err != nil {
		return false, err
	}

	s.mu.Lock()
	s.last = totals
	s.hasLast = true
	s.mu.Unlock()

	if s.notifier != nil && !unchanged {
		s.notifier.NotifyTotals(ctx, totals)
	}

	log.Info().
		Int("people", len(totals.Shares())).
		Str("allocated", split.FormatAmount(totals.Sum())).
		Msg("Sheet sync complete")
	return true, nil
}

// Last returns the most recently written totals.
func (s *SheetSync) Last() (split.Totals, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.hasLast
}

// Run syncs immediately and then on every tick until ctx ends. Failed passes
// are logged and retried on the next tick.
func (s *SheetSync) Run(ctx context.Context, interval time.Duration) {
	log.Info().
		Dur("interval", interval).
		Str("range", s.cfg.SplitRange).
		Msg("Starting sheet sync. Running immediately and then on every tick...")

	s.runLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Sheet sync stopped")
			return
		case <-ticker.C:
			s.runLogged(ctx)
		}
	}
}

func (s *SheetSync) runLogged(ctx context.Context) {
	if _, err := s.RunOnce(ctx); err != nil {
		log.Error().Err(err).Msg("Sheet sync failed, will try again on next tick")
	}
}
