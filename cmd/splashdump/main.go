// Command splashdump fetches a skin's splash art through the fallback
// chain and writes it as WebP, optionally downscaled to a thumbnail.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	"champ-model-viewer/internal/candidates"
	"champ-model-viewer/internal/catalog"
	"champ-model-viewer/internal/config"
	"champ-model-viewer/internal/imageload"
	"champ-model-viewer/internal/patterns"
	"champ-model-viewer/internal/selection"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	host := flag.String("host", "", "Primary asset host (overrides config)")
	mirror := flag.String("mirror", "", "Mirror asset host (overrides config)")
	catalogPath := flag.String("catalog", "", "Catalog JSON path (overrides config)")
	subject := flag.String("subject", "", "Subject slug")
	skin := flag.Int("skin", 0, "Skin number")
	loading := flag.Bool("loading", false, "Fetch the loading screen instead of the splash")
	thumb := flag.Int("thumb", 0, "Downscale so the longest side is N pixels (0 = original size)")
	outDir := flag.String("output", ".", "Output directory")

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

	if cfg.PrimaryHost == "" || *subject == "" {
		fmt.Fprintln(os.Stderr, "Error: -host and -subject are required.")
		os.Exit(1)
	}

	cat, err := catalog.Parse(cfg.CatalogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}
	subj, ok := cat.Find(*subject)
	if !ok {
		if hint := cat.Suggest(*subject); hint != "" {
			fmt.Fprintf(os.Stderr, "Unknown subject %q. Did you mean %q?\n", *subject, hint)
		} else {
			fmt.Fprintf(os.Stderr, "Unknown subject %q.\n", *subject)
		}
		os.Exit(1)
	}

	sel := selection.Context{Subject: subj.Slug, NumericKey: subj.NumericKey, Skin: *skin}
	gen := &candidates.Generator{
		Hosts:  candidates.Hosts{Primary: cfg.PrimaryHost, Mirror: cfg.MirrorHost},
		Tables: patterns.Default(),
	}
	family := candidates.FamilySplash
	kind := "splash"
	if *loading {
		family = candidates.FamilyLoading
		kind = "loading"
	}
	urls := gen.Generate(sel, family)

	resultCh := make(chan imageload.Result, 1)
	loader := imageload.New(&imageload.HTTPFetcher{}, cfg.SplashTimeout(), func(r imageload.Result) {
		resultCh <- r
	})
	loader.Load(urls)

	var res imageload.Result
	select {
	case res = <-resultCh:
	case <-time.After(cfg.SplashTimeout() * time.Duration(len(urls)+1)):
		fmt.Fprintln(os.Stderr, "Gave up waiting for the fallback chain.")
		os.Exit(1)
	}
	if res.Exhausted {
		fmt.Fprintf(os.Stderr, "No %s art exists for %s skin %d.\n", kind, subj.Slug, *skin)
		os.Exit(1)
	}

	img := res.Image
	if *thumb > 0 {
		img = downscale(img, *thumb)
	}

	outPath := filepath.Join(*outDir, fmt.Sprintf("%s-%d-%s.webp", subj.Slug, *skin, kind))
	f, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", outPath, err)
		os.Exit(1)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		fmt.Fprintf(os.Stderr, "WebP encode: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (from %s)\n", outPath, res.URL)
}

// downscale resizes so the longest side is max pixels, preserving aspect.
func downscale(src image.Image, max int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= max && h <= max {
		return src
	}
	scale := float64(max) / float64(w)
	if h > w {
		scale = float64(max) / float64(h)
	}
	nw := int(float64(w)*scale + 0.5)
	nh := int(float64(h)*scale + 0.5)
	dst := image.NewNRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}
