// Command viewerd exposes the catalog and the variant orchestrator over a
// small HTTP API for the viewer frontend. All resolution state lives in
// one orchestrator; the frontend drives it with selection updates and
// polls the merged snapshot.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"champ-model-viewer/internal/candidates"
	"champ-model-viewer/internal/catalog"
	"champ-model-viewer/internal/config"
	"champ-model-viewer/internal/imageload"
	"champ-model-viewer/internal/orchestrator"
	"champ-model-viewer/internal/pan"
	"champ-model-viewer/internal/patterns"
	"champ-model-viewer/internal/probe"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	configFile := flag.String("config", "", "Path to config.json file")
	host := flag.String("host", "", "Primary asset host (overrides config)")
	mirror := flag.String("mirror", "", "Mirror asset host (overrides config)")
	catalogPath := flag.String("catalog", "", "Catalog JSON path (overrides config)")
	listen := flag.String("listen", "", "Listen address (overrides config)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			logger.Error("load config", "error", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		PrimaryHost: *host,
		MirrorHost:  *mirror,
		CatalogPath: *catalogPath,
		ListenAddr:  *listen,
	})
	if cfg.PrimaryHost == "" {
		logger.Error("no primary host configured")
		os.Exit(1)
	}

	cat, err := catalog.Parse(cfg.CatalogPath)
	if err != nil {
		logger.Error("load catalog", "error", err)
		os.Exit(1)
	}
	tables, err := patterns.Load(cfg.PatternsPath)
	if err != nil {
		logger.Error("load patterns", "error", err)
		os.Exit(1)
	}

	s := &server{cat: cat, logger: logger}
	s.orch = orchestrator.New(orchestrator.Options{
		Hosts:   candidates.Hosts{Primary: cfg.PrimaryHost, Mirror: cfg.MirrorHost},
		Tables:  tables,
		Catalog: cat,
		Checker: &probe.HTTPChecker{Logger: logger},
		Logger:  logger,
		OnChange: func(snap orchestrator.Snapshot) {
			logger.Debug("snapshot updated", "subject", snap.Subject, "settled", snap.Settled)
		},
	})
	s.splash = imageload.New(&imageload.HTTPFetcher{}, cfg.SplashTimeout(), func(r imageload.Result) {
		logger.Debug("splash chain done", "url", r.URL, "exhausted", r.Exhausted)
	})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/catalog", s.listSubjects)
	r.Get("/catalog/{slug}", s.getSubject)
	r.Post("/selection", s.postSelection)
	r.Post("/selection/chroma", s.postChroma)
	r.Post("/selection/form", s.postForm)
	r.Post("/selection/version", s.postVersion)
	r.Get("/snapshot", s.getSnapshot)
	r.Get("/texture", s.getTexture)
	r.Get("/splash/pan", s.getSplashPan)

	logger.Info("listening", "addr", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, r); err != nil {
		logger.Error("serve", "error", err)
		os.Exit(1)
	}
}

type server struct {
	cat    *catalog.Catalog
	orch   *orchestrator.Orchestrator
	splash *imageload.Loader
	logger *slog.Logger
}

func (s *server) listSubjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.Subjects())
}

func (s *server) getSubject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	subj, ok := s.cat.Find(slug)
	if !ok {
		msg := fmt.Sprintf("unknown subject %q", slug)
		if hint := s.cat.Suggest(slug); hint != "" {
			msg = fmt.Sprintf("%s (did you mean %q?)", msg, hint)
		}
		writeJSON(w, http.StatusNotFound, map[string]string{"error": msg})
		return
	}
	writeJSON(w, http.StatusOK, subj)
}

func (s *server) postSelection(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("subject")
	skin, _ := strconv.Atoi(r.URL.Query().Get("skin"))
	if err := s.orch.Select(slug, skin); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	// Reselecting the identical skin keeps the loader's completed state;
	// the loader only restarts when the candidate list changes.
	s.splash.Load(s.orch.SplashCandidates())

	writeJSON(w, http.StatusOK, s.orch.Snapshot())
}

func (s *server) postChroma(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	if err != nil || id < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "id must be a non-negative integer"})
		return
	}
	s.orch.SetChroma(id)
	writeJSON(w, http.StatusOK, s.orch.Snapshot())
}

func (s *server) postForm(w http.ResponseWriter, r *http.Request) {
	on := r.URL.Query().Get("on") == "true"
	s.orch.SetForm(on)
	writeJSON(w, http.StatusOK, s.orch.Snapshot())
}

func (s *server) postVersion(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(r.URL.Query().Get("index"))
	if err != nil || index < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "index must be a non-negative integer"})
		return
	}
	s.orch.SetVersion(index)
	writeJSON(w, http.StatusOK, s.orch.Snapshot())
}

func (s *server) getSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.orch.Snapshot()

	var splashURL string
	res, splashDone := s.splash.Result()
	if splashDone && !res.Exhausted {
		splashURL = res.URL
	}

	writeJSON(w, http.StatusOK, struct {
		orchestrator.Snapshot
		SplashURL  string `json:"splash_url,omitempty"`
		SplashDone bool   `json:"splash_done"`
	}{snap, splashURL, splashDone})
}

// getTexture serves the decoded texture for the current selection as PNG.
// Only URLs the snapshot actually resolved are served.
func (s *server) getTexture(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	snap := s.orch.Snapshot()
	if url == "" || (url != snap.TextureURL && url != snap.CompanionTextureURL) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no such texture in the current selection"})
		return
	}
	img := s.orch.Texture(r.Context(), url)
	if img == nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "texture fetch failed"})
		return
	}
	w.Header().Set("Content-Type", "image/png")
	png.Encode(w, img)
}

// getSplashPan clamps a requested pan offset to the pannable range of the
// loaded splash art inside the given panel.
func (s *server) getSplashPan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, _ := strconv.ParseFloat(q.Get("x"), 64)
	y, _ := strconv.ParseFloat(q.Get("y"), 64)
	panelW, _ := strconv.ParseFloat(q.Get("panel_w"), 64)
	panelH, _ := strconv.ParseFloat(q.Get("panel_h"), 64)

	res, done := s.splash.Result()
	if !done || res.Image == nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": "no splash art loaded"})
		return
	}
	b := res.Image.Bounds()
	off := pan.Clamp(pan.Offset{X: x, Y: y}, panelW, panelH, float64(b.Dx()), float64(b.Dy()))
	writeJSON(w, http.StatusOK, map[string]float64{"x": off.X, "y": off.Y})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
