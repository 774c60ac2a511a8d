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

// ReadSplitGrid reads the split table range and parses it into a grid.
func ReadSplitGrid(ctx context.Context, store ValueStore, cfg Config) (table.Grid, error) {
	log.Debug().
		Str("range", cfg.SplitRange).
		Msg("Reading split table")

	values, err := retry.WithRetry(ctx, config.DefaultResilienceConfig.SheetRead, func(ctx context.Context) ([][]interface{}, error) {
		return store.ReadSheet(ctx, cfg.SpreadsheetID, cfg.SplitRange)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read split table: %w", err)
	}

	log.Debug().Int("rows", len(values)).Msg("Retrieved split table values")

	g := table.FromValues(values)
	if len(g) == 0 {
		return nil, table.ErrEmptyTable
	}
	return g, nil
}

// TotalsWritten reports whether the totals table on the sheet already holds
// exactly totals. A hand-cleared or edited totals table reads as not written.
func TotalsWritten(ctx context.Context, store ValueStore, cfg Config, totals split.Totals) (bool, error) {
	values, err := retry.WithRetry(ctx, config.DefaultResilienceConfig.SheetRead, func(ctx context.Context) ([][]interface{}, error) {
		return store.ReadSheet(ctx, cfg.SpreadsheetID, cfg.totalsClearRange())
	})
	if err != nil {
		return false, fmt.Errorf("failed to read totals: %w", err)
	}

	want := table.TotalsValues(totals)
	if len(values) != len(want) {
		return false, nil
	}
	for i, row := range want {
		if len(values[i]) != len(row) {
			return false, nil
		}
		for j, cell := range row {
			if fmt.Sprint(values[i][j]) != fmt.Sprint(cell) {
				return false, nil
			}
		}
	}
	return true, nil
}
