// SPDX-License-Identifier: MIT

// validate checks rrishmusic YAML configuration files and content
// directories without starting the daemon.
//
// Usage:
//
//	validate -f config.yaml
//	validate --content ./content
//	validate -f config.yaml --content ./content
//
// Exit codes:
//   - 0: Input is valid
//   - 1: Input is invalid (parse or validation error)
//   - 2: Usage error (no input given)
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rishabh7g/rrishmusic/internal/config"
	"github.com/rishabh7g/rrishmusic/internal/content"
	"github.com/rishabh7g/rrishmusic/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var file string
	var contentDir string
	var showVersion bool

	fs.StringVar(&file, "file", "", "path to YAML configuration file")
	fs.StringVar(&file, "f", "", "path to YAML configuration file (shorthand)")
	fs.StringVar(&contentDir, "content", "", "path to a content directory")
	fs.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if showVersion {
		fmt.Fprintln(stdout, version.Version)
		return 0
	}

	if file == "" && contentDir == "" {
		fmt.Fprintln(stderr, "Error: --file or --content is required")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Usage:")
		fmt.Fprintln(stderr, "  validate -f config.yaml")
		fmt.Fprintln(stderr, "  validate --content ./content")
		return 2
	}

	if file != "" {
		// Load applies strict YAML parsing and business validation.
		loader := config.NewLoader(file, version.Version)
		if _, err := loader.Load(); err != nil {
			fmt.Fprintf(stderr, "Configuration error in %s:\n", file)
			fmt.Fprintf(stderr, "  %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "%s is valid\n", file)
	}

	if contentDir != "" {
		if info, err := os.Stat(contentDir); err != nil || !info.IsDir() {
			fmt.Fprintf(stderr, "Content error: %s is not a readable directory\n", contentDir)
			return 1
		}
		store := content.NewStore(contentDir)
		if err := store.Load(); err != nil {
			fmt.Fprintf(stderr, "Content error in %s:\n", contentDir)
			fmt.Fprintf(stderr, "  %v\n", err)
			return 1
		}
		counts := store.Snapshot().Counts()
		fmt.Fprintf(stdout, "%s is valid (%d packages, %d tiers, %d testimonials, %d venues, %d FAQs)\n",
			contentDir, counts.Packages, counts.Tiers, counts.Testimonials, counts.Venues, counts.FAQs)
	}

	return 0
}
