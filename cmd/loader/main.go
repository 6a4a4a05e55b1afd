// Package main provides the articulation data loader. It reads the
// per-campus agreement JSON files, flattens them into course rows, and
// replaces the SQLite tables the server reads from.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/dvc-advising/transferbot-go/internal/agreements"
	"github.com/dvc-advising/transferbot-go/internal/campus"
	"github.com/dvc-advising/transferbot-go/internal/config"
	domerrors "github.com/dvc-advising/transferbot-go/internal/errors"
	"github.com/dvc-advising/transferbot-go/internal/logger"
	"github.com/dvc-advising/transferbot-go/internal/storage"
)

// CLI flags
var (
	dirFlag    = flag.String("dir", "", "Agreements directory (default: AGREEMENTS_DIR from config)")
	strictFlag = flag.Bool("strict", false, "Fail on the first campus that cannot be loaded")
)

func main() {
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("Starting articulation loader")

	dir := *dirFlag
	if dir == "" {
		dir = cfg.AgreementsDir
	}

	db, err := storage.New(cfg.SQLitePath())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() { _ = db.Close() }()
	log.WithField("path", cfg.SQLitePath()).Info("Database connected")

	files, err := discoverFiles(dir)
	if err != nil {
		log.WithError(err).Fatal("Failed to scan agreements directory")
	}
	if len(files) == 0 {
		log.WithField("dir", dir).Fatal("No campus agreement files found")
	}

	ctx := context.Background()
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	loaded := map[campus.Key]int{}
	var failures []error

	// One loader goroutine per campus file. A bad file only fails its
	// campus unless -strict is set.
	for key, path := range files {
		g.Go(func() error {
			n, err := loadCampus(ctx, db, key, path)
			if err != nil {
				if *strictFlag {
					return err
				}
				log.WithError(err).WithField("campus", key.String()).Error("Campus load failed")
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				return nil
			}
			log.WithField("campus", key.String()).
				WithField("rows", n).
				WithField("file", filepath.Base(path)).
				Info("Campus loaded")
			mu.Lock()
			loaded[key] = n
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.WithError(err).Fatal("Load aborted")
	}

	if len(loaded) == 0 {
		log.Fatal("No campuses loaded")
	}

	total := 0
	for _, n := range loaded {
		total += n
	}
	log.WithField("campuses", len(loaded)).
		WithField("rows", total).
		WithField("failures", len(failures)).
		Info("Load complete")
}

// discoverFiles maps each campus to its agreement file. Filenames are
// expected as <campus>_*.json (e.g. ucb_fall25.json); unknown prefixes
// are skipped.
func discoverFiles(dir string) (map[campus.Key]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, err
	}

	files := make(map[campus.Key]string)
	for _, path := range paths {
		base := filepath.Base(path)
		prefix, _, _ := strings.Cut(base, "_")
		// Exact key match only. Alias detection would let unrelated
		// filenames ("calendar.json" contains "cal") claim a campus.
		key := campus.Key(strings.ToUpper(prefix))
		if !campus.IsValid(key) {
			continue
		}
		// First file per campus wins, matching load order
		if _, exists := files[key]; !exists {
			files[key] = path
		}
	}
	return files, nil
}

// loadCampus flattens one agreement file and replaces the campus rows.
func loadCampus(ctx context.Context, db *storage.DB, key campus.Key, path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, domerrors.NewLoadError(key.String(), path, err)
	}

	flat, err := agreements.Flatten(raw)
	if err != nil {
		return 0, domerrors.NewLoadError(key.String(), path, err)
	}

	rows := make([]storage.EquivalencyRow, len(flat))
	for i, r := range flat {
		rows[i] = storage.EquivalencyRow{
			Category:        r.Category,
			MinimumRequired: r.MinimumRequired,
			SourceCode:      r.SourceCode,
			SourceTitle:     r.SourceTitle,
			SourceUnits:     r.SourceUnits,
		}
	}

	if err := db.ReplaceCampusRows(ctx, key, rows); err != nil {
		return 0, domerrors.NewLoadError(key.String(), path, err)
	}
	return len(rows), nil
}
