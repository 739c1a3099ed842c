// cmd/reconciler/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"menu-reconciler/internal/common/config"
	"menu-reconciler/internal/common/database"
	commonhttp "menu-reconciler/internal/common/http"
	"menu-reconciler/internal/common/logger"
	"menu-reconciler/internal/common/observability"
	"menu-reconciler/internal/dataset"
	"menu-reconciler/internal/export"
	"menu-reconciler/internal/reconcile"
	"menu-reconciler/internal/snappfood"
	"menu-reconciler/internal/tapsifood"
)

func main() {
	identifierFlag := flag.String("identifier", "", "vendor identifier to reconcile (either platform's code)")
	configPath := flag.String("config", "", "optional path to a config file")
	flag.Parse()

	identifier := *identifierFlag
	if identifier == "" && flag.NArg() > 0 {
		identifier = flag.Arg(0)
	}
	if identifier == "" {
		fmt.Fprintln(os.Stderr, "usage: reconciler [-config path] -identifier <vendor-code>")
		os.Exit(2)
	}

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.Load()
	}

	zapLog := logger.New("info", "console")
	if err == nil {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	}
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog.Info("Starting menu reconciler...",
		zap.String("identifier", identifier),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	if cfg.Metrics.Enabled {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	ctx := context.Background()

	// --- Load static datasets ---
	snap := dataset.Load(cfg.Datasets, log)
	zapLog.Info("Datasets loaded",
		zap.Int("vendorInfoRows", snap.VendorInfo.Len()),
		zap.Int("menuItemRows", snap.MenuItems.Len()),
		zap.Int("crosswalkPairs", snap.Crosswalk.Len()),
	)

	// --- Optional payload cache ---
	var cache snappfood.Cache
	if cfg.Cache.Enabled {
		redis, err := database.NewRedis(cfg.Cache.Redis)
		if err != nil {
			zapLog.Fatal("redis init failed", zap.Error(err))
		}
		defer redis.Close()
		if err := redis.Ping(ctx); err != nil {
			zapLog.Warn("redis unreachable, continuing without payload cache", zap.Error(err))
		} else {
			cache = redis
			zapLog.Info("Redis payload cache connected")
		}
	}

	// --- Wire the pipeline ---
	sfCfg := snappfood.LoadConfig(cfg)
	fetcher := snappfood.NewFetcher(sfCfg, commonhttp.NewClient(sfCfg.Timeout), cache, log)
	sfNorm := snappfood.NewNormalizer(sfCfg.BannedCategories, log)
	tfNorm := tapsifood.NewNormalizer(snap, log)

	service := reconcile.NewService(fetcher, sfNorm, tfNorm, snap.Crosswalk, obs, log)

	result, err := service.Execute(ctx, identifier)
	if err != nil {
		zapLog.Fatal("reconciliation failed", zap.Error(err))
	}

	// --- Write exports ---
	writeExport(result.Snappfood, cfg.Output.Dir, log)
	writeExport(result.Tapsifood, cfg.Output.Dir, log)

	// --- Print the structured result ---
	summary, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		zapLog.Fatal("failed to encode result", zap.Error(err))
	}
	fmt.Println(string(summary))

	if !result.Success {
		os.Exit(1)
	}
}

func writeExport(pr reconcile.PlatformResult, dir string, log logger.Logger) {
	if !pr.DataLoaded || pr.Filename == "" || pr.CSVData == "" {
		return
	}
	path, err := export.WriteFile(dir, pr.Filename, pr.CSVData)
	if err != nil {
		log.Error("failed to write export file", map[string]interface{}{
			"filename": pr.Filename,
			"error":    err.Error(),
		})
		return
	}
	log.Info("export written", map[string]interface{}{
		"path": path,
		"rows": len(pr.Rows),
	})
}
