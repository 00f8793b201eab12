package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nukrstore/nukr-backend/internal/storage"
	"github.com/nukrstore/nukr-backend/internal/vendors"
	"github.com/nukrstore/nukr-backend/pkg/config"
	"github.com/nukrstore/nukr-backend/pkg/logger"
	"github.com/nukrstore/nukr-backend/pkg/metrics"
	"github.com/nukrstore/nukr-backend/pkg/money"
)

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "nukrctl"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "verify", "store command: init|verify|snapshot|restore|stats")
	vendorName := flag.String("vendor", "", "vendor name (for stats)")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "nukrctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"cmd":    *cmd,
		"driver": cfg.Store.Driver,
	})

	// Restore works on the raw backup files, before any gateway touches
	// (and silently repairs) the data file.
	if *cmd == "restore" {
		if cfg.Store.Driver != config.StoreDriverFile {
			fmt.Fprintln(os.Stderr, "restore is only supported for the file driver")
			os.Exit(1)
		}
		rotator := storage.NewRotator(cfg.Backup, logg, nil)
		raw, name, err := rotator.RestoreLatest()
		if err != nil {
			fmt.Fprintf(os.Stderr, "restore failed: %v\n", err)
			os.Exit(1)
		}
		if err := os.WriteFile(cfg.Store.DataFile, raw, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "writing restored data: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("restored from backup:", name)
		return
	}

	registry := prometheus.NewRegistry()
	storeMetrics := metrics.NewStorageMetrics(registry)

	gateway, err := storage.New(cfg.Store, cfg.Backup, logg, storeMetrics)
	requireResource(ctx, logg, "storage gateway", err)

	switch *cmd {
	case "init":
		// Gateway construction seeds or repairs the schema.
		doc := gateway.Load(ctx)
		fmt.Println("store ready, schema version:", doc.Meta.Version)

	case "verify":
		doc := gateway.Load(ctx)
		fmt.Println("schema version:", doc.Meta.Version)
		fmt.Println("vendors:   ", len(doc.Vendors))
		fmt.Println("products:  ", len(doc.Products))
		fmt.Println("orders:    ", len(doc.Orders))
		fmt.Println("categories:", len(doc.Categories))

	case "snapshot":
		// A save always snapshots the previous state first, so writing the
		// document back unchanged forces a backup on either driver.
		doc := gateway.Load(ctx)
		if err := gateway.Save(ctx, doc); err != nil {
			fmt.Fprintf(os.Stderr, "snapshot failed: %v\n", err)
			os.Exit(1)
		}
		if doc.Meta.LastBackup != "" {
			fmt.Println("backup created:", doc.Meta.LastBackup)
		} else {
			fmt.Println("backup created")
		}

	case "stats":
		if *vendorName == "" {
			fmt.Fprintln(os.Stderr, "missing -vendor for stats")
			os.Exit(1)
		}
		vendorSvc, err := vendors.NewService(gateway, logg)
		requireResource(ctx, logg, "vendor service", err)
		stats, err := vendorSvc.Analytics(ctx, *vendorName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "stats failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("vendor:        ", *vendorName)
		fmt.Println("total sales:   ", money.Format(cfg.Store.CurrencySymbol, stats.TotalSales))
		fmt.Println("orders:        ", stats.OrderCount)
		fmt.Println("pending orders:", stats.PendingCount)

	default:
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to initialize "+resource, err)
	os.Exit(1)
}
