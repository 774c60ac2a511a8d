package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"bill_split/internal/app"
	"bill_split/internal/web"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	app.SetupEnvironment()
	cfg := app.LoadConfig()

	addr := flag.String("addr", cfg.Addr, "HTTP network address")
	debug := flag.Bool("debug", cfg.Debug, "use the sample receipt instead of OCR")
	addPerson := flag.String("add-person", "", "append a person column to the spreadsheet's split table and exit")
	removePerson := flag.Bool("remove-person", false, "remove the last person column from the spreadsheet's split table and exit")
	flag.Parse()

	cfg.Addr = *addr
	cfg.Debug = *debug

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *addPerson != "" || *removePerson {
		runColumnCommand(ctx, cfg, *addPerson, *removePerson)
		return
	}

	log.Debug().Msg("Starting application")

	sheetSync := app.InitializeSheetSync(ctx, cfg)

	server, err := web.NewServer(web.Config{
		Addr:        cfg.Addr,
		Debug:       cfg.Debug,
		OCRLanguage: cfg.OCRLanguage,
	}, sheetSync)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	// the server failing stops the sync loop too
	g, gctx := errgroup.WithContext(ctx)
	if sheetSync != nil {
		g.Go(func() error {
			sheetSync.Run(gctx, cfg.SyncInterval)
			return nil
		})
	}
	g.Go(func() error {
		return server.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
	log.Info().Msg("Bye")
}
