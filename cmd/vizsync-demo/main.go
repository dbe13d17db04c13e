// Command vizsync-demo renders a main and a mini parallel view plus a
// selection table in the terminal, all coordinated by one vizsync
// Coordinator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hupe1980/vizsync"
	"github.com/hupe1980/vizsync/blobstore"
	"github.com/hupe1980/vizsync/blobstore/minio"
	"github.com/hupe1980/vizsync/blobstore/s3"
	"github.com/hupe1980/vizsync/codec"
	"github.com/hupe1980/vizsync/config"
	"github.com/hupe1980/vizsync/internal/resource"
	"github.com/hupe1980/vizsync/pack"
	"github.com/hupe1980/vizsync/testutil"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to a config file (toml, yaml or json)")
		packName   = flag.String("pack", "", "Blob name of the data pack (overrides data.pack)")
		sample     = flag.Bool("sample", false, "Use a generated sample pack instead of the configured store")
		logPath    = flag.String("log", "", "Write logs to this file (default: discard)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *packName != "" {
		cfg.Data.Pack = *packName
	}

	logger, closeLog, err := newLogger(cfg.Log, *logPath)
	if err != nil {
		log.Fatal(err)
	}
	defer closeLog()

	ctx := context.Background()

	store, err := openStore(ctx, cfg.Data, *sample)
	if err != nil {
		log.Fatal(err)
	}

	c, ok := codec.ByName(cfg.Data.Codec)
	if !ok {
		log.Fatalf("unknown codec %q", cfg.Data.Codec)
	}

	metrics := &vizsync.BasicMetricsCollector{}
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 64 << 20, MaxFetches: 4})

	coord := vizsync.New(
		vizsync.WithCodec(c),
		vizsync.WithViewOptions(cfg.View),
		vizsync.WithLogger(logger),
		vizsync.WithMetricsCollector(metrics),
		vizsync.WithResourceController(rc),
	)
	defer coord.Close()

	m, err := newModel(coord, metrics, rc, cfg.Playback.Interval)
	if err != nil {
		log.Fatal(err)
	}

	if err := coord.LoadPack(ctx, store, cfg.Data.Pack); err != nil {
		log.Fatalf("load %s: %v", cfg.Data.Pack, err)
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}

func newLogger(cfg config.LogConfig, path string) (*vizsync.Logger, func(), error) {
	if path == "" {
		return vizsync.NoopLogger(), func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log: %w", err)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler = slog.NewTextHandler(f, hopts)
	if strings.EqualFold(cfg.Format, "json") {
		h = slog.NewJSONHandler(f, hopts)
	}
	return vizsync.NewLogger(h), func() { _ = f.Close() }, nil
}

// openStore returns the blob store selected by cfg. With sample set, an
// in-memory store seeded with a generated pack under cfg.Pack is returned.
func openStore(ctx context.Context, cfg config.DataConfig, sample bool) (blobstore.Store, error) {
	if sample || cfg.Store == "memory" {
		store := blobstore.NewMemoryStore()
		p := testutil.NewRNG(7).Pack(testutil.PackSpec{
			Records:     24,
			Years:       12,
			Dimensions:  []string{"Solar", "Wind", "Hydro", "Coal", "Gas"},
			MissingRate: 0.05,
		})
		if err := pack.Save(ctx, store, cfg.Pack, p, nil); err != nil {
			return nil, err
		}
		return store, nil
	}

	switch cfg.Store {
	case "", "local":
		return blobstore.NewLocalStore(cfg.Root), nil
	case "s3":
		var optFns []s3.Option
		if cfg.Region != "" {
			optFns = append(optFns, s3.WithRegion(cfg.Region))
		}
		if cfg.Endpoint != "" {
			optFns = append(optFns, s3.WithEndpoint(cfg.Endpoint))
		}
		return s3.NewFromConfig(ctx, cfg.Bucket, cfg.Prefix, optFns...)
	case "minio":
		if cfg.Endpoint == "" {
			return nil, errors.New("minio store requires data.endpoint")
		}
		optFns := []minio.Option{minio.WithSSL(cfg.UseSSL)}
		if cfg.AccessKey != "" {
			optFns = append(optFns, minio.WithCredentials(cfg.AccessKey, cfg.SecretKey))
		}
		if cfg.Region != "" {
			optFns = append(optFns, minio.WithRegion(cfg.Region))
		}
		return minio.New(cfg.Endpoint, cfg.Bucket, cfg.Prefix, optFns...)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
}
