package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/walmart-importer/internal/config"
	idapp "github.com/orderdesk/walmart-importer/internal/identifier/application"
	idimap "github.com/orderdesk/walmart-importer/internal/identifier/infrastructure/imap"
	orderapp "github.com/orderdesk/walmart-importer/internal/order/application"
	"github.com/orderdesk/walmart-importer/internal/order/infrastructure/browser"
	orderfs "github.com/orderdesk/walmart-importer/internal/order/infrastructure/fs"
	orderpg "github.com/orderdesk/walmart-importer/internal/order/infrastructure/postgres"
	"github.com/orderdesk/walmart-importer/pkg/logging"
	"github.com/orderdesk/walmart-importer/pkg/period"
	"github.com/orderdesk/walmart-importer/pkg/shutdown"
)

func main() {
	periodFlag := flag.String("period", "", "month to import, as YYYY-MM (required)")
	flag.Parse()

	if *periodFlag == "" {
		fmt.Fprintln(os.Stderr, "usage: importer -period YYYY-MM")
		flag.PrintDefaults()
		os.Exit(2)
	}
	since, before, err := period.Parse(*periodFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	log.Info("walmart importer starting",
		"period", *periodFlag,
		"folder", cfg.Folder,
		"output_dir", cfg.OutputDir,
	)

	// Mail scan
	store := idimap.NewStore(log, cfg.IMAPAddr, cfg.IMAPUser, cfg.IMAPPassword)
	scanner := idapp.NewService(log, store, cfg.Folder, cfg.SubjectFilter)
	ids, err := scanner.Scan(ctx, since, before)
	if err != nil {
		log.Error("mail scan failed", "err", err)
		os.Exit(1)
	}
	for _, id := range ids {
		fmt.Println(id)
	}
	if len(ids) == 0 {
		log.Info("no delivered orders in period, nothing to import")
		return
	}

	// Order import
	fetcher, err := browser.New(ctx, log, cfg.UserDataDir, cfg.ContentTimeout, browser.StdinGate)
	if err != nil {
		log.Error("browser start failed", "err", err)
		os.Exit(1)
	}
	defer fetcher.Close()

	writer, err := orderfs.NewWriter(log, cfg.OutputDir)
	if err != nil {
		log.Error("output dir setup failed", "err", err)
		os.Exit(1)
	}

	sinks := []orderapp.SummarySink{writer}
	if cfg.PGURL != "" {
		pool, err := pgxpool.New(ctx, cfg.PGURL)
		if err != nil {
			log.Error("pg connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()

		archive := orderpg.NewArchive(log, pool)
		if err := archive.EnsureSchema(ctx); err != nil {
			log.Error("pg schema setup failed", "err", err)
			os.Exit(1)
		}
		sinks = append(sinks, archive)
	}

	importer := orderapp.NewService(log, fetcher, cfg.OrderURLTemplate, sinks...)
	if err := importer.Import(ctx, ids); err != nil {
		log.Error("import interrupted", "err", err)
		os.Exit(1)
	}

	log.Info("import complete", "orders", len(ids))
}
