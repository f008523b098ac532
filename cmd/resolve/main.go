// Command resolve performs a one-shot resolution for a selection and
// prints the merged asset URLs once every axis settles.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"champ-model-viewer/internal/candidates"
	"champ-model-viewer/internal/catalog"
	"champ-model-viewer/internal/config"
	"champ-model-viewer/internal/orchestrator"
	"champ-model-viewer/internal/patterns"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	host := flag.String("host", "", "Primary asset host (overrides config)")
	mirror := flag.String("mirror", "", "Mirror asset host (overrides config)")
	catalogPath := flag.String("catalog", "", "Catalog JSON path (overrides config)")
	subject := flag.String("subject", "", "Subject slug to resolve")
	skin := flag.Int("skin", 0, "Skin number")
	chroma := flag.Int("chroma", 0, "Chroma id (0 = none)")
	form := flag.Bool("form", false, "Toggle the alternate form")
	version := flag.Int("version", 0, "Historical version index (0 = current)")
	wait := flag.Duration("wait", 15*time.Second, "Max time to wait for resolution")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{PrimaryHost: *host, MirrorHost: *mirror, CatalogPath: *catalogPath})

	if cfg.PrimaryHost == "" {
		fmt.Fprintln(os.Stderr, "Error: no primary host. Use -host or config.json.")
		os.Exit(1)
	}
	if *subject == "" {
		fmt.Fprintln(os.Stderr, "Error: -subject is required.")
		os.Exit(1)
	}

	cat, err := catalog.Parse(cfg.CatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}
	tables, err := patterns.Load(cfg.PatternsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading patterns: %v\n", err)
		os.Exit(1)
	}

	settled := make(chan orchestrator.Snapshot, 16)
	o := orchestrator.New(orchestrator.Options{
		Hosts:   candidates.Hosts{Primary: cfg.PrimaryHost, Mirror: cfg.MirrorHost},
		Tables:  tables,
		Catalog: cat,
		OnChange: func(s orchestrator.Snapshot) {
			settled <- s
		},
	})

	if err := o.Select(*subject, *skin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *chroma > 0 {
		o.SetChroma(*chroma)
	}
	if *form {
		o.SetForm(true)
	}
	if *version > 0 {
		o.SetVersion(*version)
	}

	deadline := time.After(*wait)
	for {
		select {
		case s := <-settled:
			if !s.Settled {
				continue
			}
			printSnapshot(s)
			return
		case <-deadline:
			fmt.Fprintln(os.Stderr, "Timed out waiting for resolution; partial state:")
			printSnapshot(o.Snapshot())
			os.Exit(1)
		}
	}
}

func printSnapshot(s orchestrator.Snapshot) {
	fmt.Printf("subject:   %s (skin %d)\n", s.Subject, s.Skin)
	fmt.Printf("model:     %s\n", orDash(s.ModelURL))
	fmt.Printf("texture:   %s\n", orDash(s.TextureURL))
	if s.CompanionModelURL != "" || s.CompanionTextureURL != "" {
		fmt.Printf("companion: %s\n", orDash(s.CompanionModelURL))
		fmt.Printf("comp.tex:  %s\n", orDash(s.CompanionTextureURL))
	}
	if s.ExtraModelURL != "" {
		fmt.Printf("extra:     %s\n", s.ExtraModelURL)
	}
	if s.IdleOverride != "" {
		fmt.Printf("idle:      %s\n", s.IdleOverride)
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
