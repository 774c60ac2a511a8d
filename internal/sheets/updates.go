package sheets

import (
	"context"
	"fmt"

	"bill_split/internal/config"
	"bill_split/internal/retry"
	"bill_split/internal/split"
	"bill_split/internal/table"

	"github.com/rs/zerolog/log"
)

// WriteTotals replaces the totals table with a fresh Name/Total range.
func WriteTotals(ctx context.Context, store ValueStore, cfg Config, totals split.Totals) error {
	values := table.TotalsValues(totals)

	log.Debug().
		Str("range", cfg.TotalsRange).
		Int("people", len(values)-1).
		Msg("Writing totals")

	_, err := retry.WithRetry(ctx, config.DefaultResilienceConfig.SheetWrite, func(ctx context.Context) (struct{}, error) {
		if err := store.ClearRange(ctx, cfg.SpreadsheetID, cfg.totalsClearRange()); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, store.UpdateRange(ctx, cfg.SpreadsheetID, cfg.TotalsRange, values)
	})
	if err != nil {
		return fmt.Errorf("failed to write totals: %w", err)
	}

	log.Info().
		Int("people", len(values)-1).
		Str("range", cfg.TotalsRange).
		Msg("Totals written")
	return nil
}

// WriteGrid overwrites the split table range with g, clearing it first so
// a removed column does not linger. A half-written table loses ticks, so it
// retries until ctx ends.
func WriteGrid(ctx context.Context, store ValueStore, cfg Config, g table.Grid) error {
	values := g.Values()

	_, err := retry.WithRetry(ctx, config.InfiniteResilienceConfig.SheetWrite, func(ctx context.Context) (struct{}, error) {
		if err := store.ClearRange(ctx, cfg.SpreadsheetID, cfg.SplitRange); err != nil {
			log.Error().Err(err).Msg("Failed to clear split table, will retry")
			return struct{}{}, err
		}
		if err := store.UpdateRange(ctx, cfg.SpreadsheetID, cfg.SplitRange, values); err != nil {
			log.Error().Err(err).Msg("Failed to write split table, will retry")
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("failed to write split table: %w", err)
	}

	log.Info().
		Int("rows", len(values)).
		Int("people", len(g.People())).
		Msg("Split table written")
	return nil
}

// AddPersonColumn appends a person column to the sheet's split table.
func AddPersonColumn(ctx context.Context, store ValueStore, cfg Config, name string) error {
	g, err := ReadSplitGrid(ctx, store, cfg)
	if err != nil {
		return err
	}
	g, err = g.AddPerson(name)
	if err != nil {
		return err
	}
	return WriteGrid(ctx, store, cfg, g)
}

// RemovePersonColumn drops the last person column of the sheet's split table.
func RemovePersonColumn(ctx context.Context, store ValueStore, cfg Config) error {
	g, err := ReadSplitGrid(ctx, store, cfg)
	if err != nil {
		return err
	}
	g, err = g.RemovePerson()
	if err != nil {
		return err
	}
	return WriteGrid(ctx, store, cfg, g)
}
