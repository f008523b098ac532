// Command audit probes every subject and skin in the catalog and reports
// which variant assets exist. Useful after an asset-host deploy to spot
// missing models and art.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"champ-model-viewer/internal/candidates"
	"champ-model-viewer/internal/catalog"
	"champ-model-viewer/internal/config"
	"champ-model-viewer/internal/patterns"
	"champ-model-viewer/internal/probe"
	"champ-model-viewer/internal/selection"
)

type job struct {
	subject catalog.Subject
	skin    catalog.Skin
}

type result struct {
	slug     string
	skin     int
	model    bool
	splash   bool
	loading  bool
	chromas  int // chromas whose texture resolved
	expected int // chromas the catalog lists
}

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	host := flag.String("host", "", "Primary asset host (overrides config)")
	catalogPath := flag.String("catalog", "", "Catalog JSON path (overrides config)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	onlyMissing := flag.Bool("missing", false, "Print only skins with missing assets")

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
	cfg.Resolve(config.Flags{PrimaryHost: *host, CatalogPath: *catalogPath, Workers: *workers})

	if cfg.PrimaryHost == "" {
		fmt.Fprintln(os.Stderr, "Error: no primary host. Use -host or config.json.")
		os.Exit(1)
	}

	cat, err := catalog.Parse(cfg.CatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	gen := &candidates.Generator{
		Hosts:  candidates.Hosts{Primary: cfg.PrimaryHost, Mirror: cfg.MirrorHost},
		Tables: patterns.Default(),
	}
	checker := &probe.HTTPChecker{}

	var jobs []job
	for _, subj := range cat.Subjects() {
		for _, skin := range subj.Skins {
			jobs = append(jobs, job{subject: subj, skin: skin})
		}
	}
	total := len(jobs)
	results := make([]result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f skins/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = auditSkin(gen, checker, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	report(results, *onlyMissing)
	fmt.Printf("\nAudited %d skins in %.1fs\n", total, time.Since(start).Seconds())
}

func auditSkin(gen *candidates.Generator, checker probe.Checker, j job) result {
	ctx := context.Background()
	sel := selection.Context{
		Subject:        j.subject.Slug,
		NumericKey:     j.subject.NumericKey,
		Skin:           j.skin.Number,
		CompanionAlias: j.subject.CompanionAlias,
	}

	r := result{slug: j.subject.Slug, skin: j.skin.Number, expected: len(j.skin.Chromas)}
	r.model = probe.Resolve(ctx, checker, gen.Generate(sel, candidates.FamilyModel)).Found
	r.splash = probe.Resolve(ctx, checker, gen.Generate(sel, candidates.FamilySplash)).Found
	r.loading = probe.Resolve(ctx, checker, gen.Generate(sel, candidates.FamilyLoading)).Found

	for _, id := range j.skin.Chromas {
		sel.Variant = selection.Variant{Kind: selection.VariantChroma, Chroma: id}
		if probe.Resolve(ctx, checker, gen.Generate(sel, candidates.FamilyChromaTexture)).Found {
			r.chromas++
		}
	}
	return r
}

func report(results []result, onlyMissing bool) {
	var missing int
	for _, r := range results {
		complete := r.model && r.splash && r.loading && r.chromas == r.expected
		if !complete {
			missing++
		}
		if onlyMissing && complete {
			continue
		}
		fmt.Printf("%-24s skin %-3d model=%s splash=%s loading=%s chromas=%d/%d\n",
			r.slug, r.skin, mark(r.model), mark(r.splash), mark(r.loading), r.chromas, r.expected)
	}
	fmt.Printf("\n%d/%d skins incomplete\n", missing, len(results))
}

func mark(ok bool) string {
	if ok {
		return "ok"
	}
	return "MISSING"
}
