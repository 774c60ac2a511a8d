package main

import (
	"context"

	"bill_split/internal/app"
	"bill_split/internal/sheets"

	"github.com/rs/zerolog/log"
)

// runColumnCommand edits the person columns of the spreadsheet's split table
// once and exits.
func runColumnCommand(ctx context.Context, cfg app.Config, addPerson string, removePerson bool) {
	if !cfg.Sheets.Enabled() {
		cfg.Sheets.SpreadsheetID = app.GetRequiredEnv("SPREADSHEET_ID")
	}
	client := app.InitializeSheetsClient(ctx, cfg)

	if addPerson != "" {
		if err := sheets.AddPersonColumn(ctx, client, cfg.Sheets, addPerson); err != nil {
			log.Fatal().Err(err).Str("person", addPerson).Msg("Failed to add person column")
		}
		log.Info().Str("person", addPerson).Msg("Added person column")
	}

	if removePerson {
		if err := sheets.RemovePersonColumn(ctx, client, cfg.Sheets); err != nil {
			log.Fatal().Err(err).Msg("Failed to remove person column")
		}
		log.Info().Msg("Removed last person column")
	}
}
