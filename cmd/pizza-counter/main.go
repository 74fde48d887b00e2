package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/akamensky/argparse"

	"github.com/Hihi1310/pizza-counter/internal/app"
	"github.com/Hihi1310/pizza-counter/internal/config"
	"github.com/Hihi1310/pizza-counter/internal/counter"
	"github.com/Hihi1310/pizza-counter/internal/detector"
	"github.com/Hihi1310/pizza-counter/internal/server"
	"github.com/Hihi1310/pizza-counter/internal/store"
	"github.com/Hihi1310/pizza-counter/internal/tray"
	"github.com/Hihi1310/pizza-counter/internal/video"
	"github.com/Hihi1310/pizza-counter/internal/zone"
)

func main() {
	parser := argparse.NewParser("pizza-counter", "Count objects crossing zones in a video")
	videoPath := parser.String("v", "video", &argparse.Options{Help: "Input video file", Required: false})
	camera := parser.String("", "camera", &argparse.Options{Help: "Camera device ID for live mode", Required: false, Default: ""})
	configPath := parser.String("c", "config", &argparse.Options{Help: "YAML config file", Required: false, Default: ""})
	zonesPath := parser.String("z", "zones", &argparse.Options{Help: "Zone definition JSON file", Required: true})
	model := parser.String("m", "model", &argparse.Options{Help: "ONNX detection model; omit to use the mock detector", Required: false, Default: ""})
	confidence := parser.Float("", "confidence", &argparse.Options{Help: "Confidence threshold override", Required: false, Default: -1.0})
	outputVideo := parser.String("o", "save-video", &argparse.Options{Help: "Write an annotated copy of the input", Required: false, Default: ""})
	resultsPath := parser.String("r", "results", &argparse.Options{Help: "Write run results as JSON", Required: false, Default: ""})
	dbPath := parser.String("", "db", &argparse.Options{Help: "SQLite database path", Required: false, Default: ""})
	serveAddr := parser.String("s", "serve", &argparse.Options{Help: "Serve the HTTP API on this address", Required: false, Default: ""})
	live := parser.Flag("l", "live", &argparse.Options{Help: "Run continuously with a tray icon", Required: false})

	if err := parser.Parse(os.Args); err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}
	if *videoPath == "" && *camera == "" {
		fmt.Print(parser.Usage(fmt.Errorf("either --video or --camera is required")))
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	if *model != "" {
		cfg.Model.Path = *model
	}
	if *confidence >= 0 {
		cfg.Model.ConfidenceThreshold = *confidence
	}

	zones, err := zone.Load(*zonesPath)
	if err != nil {
		log.Fatalf("Failed to load zones: %v", err)
	}

	det, err := newDetector(cfg)
	if err != nil {
		log.Fatalf("Failed to create detector: %v", err)
	}

	var st *store.Store
	if *dbPath != "" {
		if dir := filepath.Dir(*dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				log.Fatalf("Failed to create database directory: %v", err)
			}
		}
		st, err = store.New(*dbPath)
		if err != nil {
			log.Fatalf("Failed to initialize store: %v", err)
		}
		defer st.Close()
	}

	reader, source, err := openSource(*videoPath, *camera)
	if err != nil {
		log.Fatalf("Failed to open source: %v", err)
	}

	a, err := app.New(app.Config{
		Store:    st,
		Detector: det,
		Zones:    zones,
		Counter: counter.Config{
			MaxDisappeared:      cfg.Tracking.MaxDisappeared,
			MaxDistance:         cfg.Tracking.MaxDistance,
			MinTrackLength:      cfg.Counting.MinTrackLength,
			ConfidenceThreshold: cfg.Model.ConfidenceThreshold,
			TargetClass:         cfg.Model.TargetClass,
			HistorySize:         cfg.Tracking.HistorySize,
		},
		Source:      source,
		ModelPath:   cfg.Model.Path,
		OutputVideo: *outputVideo,
	})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if *serveAddr != "" {
		srv := server.New(server.Config{App: a, Store: st})
		go func() {
			log.Printf("Serving HTTP API on %s", *serveAddr)
			if err := srv.ListenAndServe(*serveAddr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		}()
	}

	if *live {
		runLive(a, reader)
		return
	}

	defer reader.Close()
	results, err := a.Run(reader)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}
	if err := det.Close(); err != nil {
		log.Printf("Error closing detector: %v", err)
	}

	if *resultsPath != "" {
		if err := results.WriteFile(*resultsPath); err != nil {
			log.Fatalf("Failed to write results: %v", err)
		}
		log.Printf("Results written to %s", *resultsPath)
	}

	printSummary(results)
}

// runLive drives a continuous run under a tray icon. The tray owns the main
// goroutine; quitting the tray stops the pipeline.
func runLive(a *app.App, reader *video.Reader) {
	if err := a.Start(reader); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnQuit(a.Stop)
	a.OnEvent(func(zone.CountEvent) {
		t.SetCount(a.Counter().Total())
	})
	t.Run()
}

func newDetector(cfg config.Config) (detector.Detector, error) {
	if cfg.Model.Path == "" {
		log.Println("No model configured, using mock detector")
		return detector.NewMockDetector(), nil
	}
	yoloCfg := detector.DefaultYOLOConfig(cfg.Model.Path)
	yoloCfg.NamesPath = cfg.Model.NamesPath
	yoloCfg.ScoreThreshold = cfg.Model.ConfidenceThreshold
	yoloCfg.NMSThreshold = cfg.Model.NMSThreshold
	yoloCfg.InputSize = cfg.Model.InputSize
	return detector.NewYOLODetector(yoloCfg)
}

func openSource(videoPath, camera string) (*video.Reader, string, error) {
	if videoPath != "" {
		r, err := video.OpenFile(videoPath)
		return r, videoPath, err
	}
	id, err := strconv.Atoi(camera)
	if err != nil {
		return nil, "", fmt.Errorf("invalid camera ID %q", camera)
	}
	r, err := video.OpenCamera(id)
	return r, fmt.Sprintf("camera:%d", id), err
}

func printSummary(r *app.Results) {
	fmt.Printf("\nRun %s\n", r.RunID)
	fmt.Printf("Source: %s\n", r.Source)
	fmt.Printf("Frames: %d in %.1fs (%.1f fps)\n", r.FramesProcessed, r.ProcessingSeconds, r.FPS)

	names := make([]string, 0, len(r.Totals))
	for name := range r.Totals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		dirs := make([]string, 0, len(r.Totals[name]))
		for dir := range r.Totals[name] {
			dirs = append(dirs, dir)
		}
		sort.Strings(dirs)
		for _, dir := range dirs {
			fmt.Printf("  %s %s: %d\n", name, dir, r.Totals[name][dir])
		}
	}
	fmt.Printf("Total: %d\n", r.Total)
}
