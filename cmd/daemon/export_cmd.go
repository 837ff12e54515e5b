// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rishabh7g/rrishmusic/internal/config"
	"github.com/rishabh7g/rrishmusic/internal/contact"
	"github.com/rishabh7g/rrishmusic/internal/persistence/sqlite"
	"github.com/rishabh7g/rrishmusic/internal/version"
)

// runExportCLI dumps stored contact submissions to a JSON file. It opens
// the store directly, so the daemon should not hold it at the same time
// when the backend is sqlite or badger.
func runExportCLI(args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var file string
	var out string
	var timeout time.Duration
	fs.StringVar(&file, "config", "", "path to YAML configuration file")
	fs.StringVar(&out, "out", "", "output file path (required)")
	fs.DurationVar(&timeout, "timeout", 30*time.Second, "export timeout")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if strings.TrimSpace(out) == "" {
		fmt.Fprintln(os.Stderr, "Error: --out is required")
		return 2
	}

	configPath := strings.TrimSpace(file)
	if configPath == "" {
		configPath = resolveDefaultConfigPath()
	}

	loader := config.NewLoader(configPath, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	storePath := cfg.Contact.Path
	if storePath != "" && !filepath.IsAbs(storePath) {
		storePath = filepath.Join(cfg.DataDir, storePath)
	}

	// A sqlite file that fails quick_check would export garbage; refuse
	// before opening it for reads.
	if cfg.Contact.Store == "sqlite" && storePath != "" {
		if _, err := os.Stat(storePath); err == nil {
			problems, err := sqlite.VerifyIntegrity(storePath, "quick")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Integrity check failed for %s: %v\n", storePath, err)
				return 1
			}
			if len(problems) > 0 {
				fmt.Fprintf(os.Stderr, "Store %s is corrupted:\n", storePath)
				for _, p := range problems {
					fmt.Fprintf(os.Stderr, "  %s\n", p)
				}
				return 1
			}
		}
	}

	store, err := contact.OpenStore(cfg.Contact.Store, storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open contact store (%s at %s): %v\n", cfg.Contact.Store, storePath, err)
		return 1
	}
	defer func() { _ = store.Close() }()

	svc := contact.NewService(store, nil, cfg.Contact.IdempotencyTTL, zerolog.New(os.Stderr).Level(zerolog.WarnLevel))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	n, err := svc.Export(ctx, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		return 1
	}

	fmt.Printf("Exported %d submissions to %s\n", n, out)
	return 0
}
