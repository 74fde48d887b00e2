// Package app orchestrates one counting run: frames in, detections through
// the counter, events out to storage and listeners.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"gocv.io/x/gocv"

	"github.com/Hihi1310/pizza-counter/internal/counter"
	"github.com/Hihi1310/pizza-counter/internal/detector"
	"github.com/Hihi1310/pizza-counter/internal/store"
	"github.com/Hihi1310/pizza-counter/internal/video"
	"github.com/Hihi1310/pizza-counter/internal/zone"
)

// ProgressInterval is the number of frames between progress log lines.
const ProgressInterval = 100

// Config holds configuration options for the application.
type Config struct {
	Store    *store.Store
	Detector detector.Detector
	Zones    []zone.Zone
	Counter  counter.Config

	// Source is the input path or "camera:N" label, recorded with the run.
	Source string

	// ModelPath is recorded with the run for traceability.
	ModelPath string

	// OutputVideo, when set, writes an annotated copy of the input.
	OutputVideo string
}

// EventListener receives each count event as it fires.
type EventListener func(zone.CountEvent)

// App drives the counting pipeline over a video source.
type App struct {
	config  Config
	counter *counter.Counter
	runID   string

	mu         sync.RWMutex
	enabled    bool
	stopCh     chan struct{}
	listeners  []EventListener
	latestJPEG []byte
}

// New creates a new App instance with the given configuration.
func New(config Config) (*App, error) {
	c, err := counter.New(config.Counter, config.Zones)
	if err != nil {
		return nil, err
	}
	return &App{
		config:  config,
		counter: c,
		runID:   uuid.New().String(),
		enabled: true,
	}, nil
}

// RunID returns the unique identifier of this run.
func (a *App) RunID() string {
	return a.runID
}

// Counter returns the counting engine.
func (a *App) Counter() *counter.Counter {
	return a.counter
}

// OnEvent registers a listener called for every count event. Listeners are
// invoked from the pipeline goroutine and must not block.
func (a *App) OnEvent(fn EventListener) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.listeners = append(a.listeners, fn)
}

// SetEnabled pauses or resumes counting. While paused, frames are still
// read but not processed.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether counting is active.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// LatestFrame returns the most recent annotated frame as JPEG bytes, or nil
// if no frame has been processed yet.
func (a *App) LatestFrame() []byte {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.latestJPEG
}

// Run processes the whole source to completion and returns the results.
// It records the run and its events in the store as it goes.
func (a *App) Run(reader *video.Reader) (*Results, error) {
	started := time.Now()

	if a.config.Store != nil {
		run := &store.Run{
			ID:         a.runID,
			Source:     a.config.Source,
			Model:      a.config.ModelPath,
			Confidence: a.config.Counter.ConfidenceThreshold,
		}
		if err := a.config.Store.Runs().Create(run); err != nil {
			return nil, fmt.Errorf("failed to record run: %w", err)
		}
	}

	var writer *video.Writer
	if a.config.OutputVideo != "" {
		w, err := video.NewWriter(a.config.OutputVideo, reader.FPS(), reader.Width(), reader.Height())
		if err != nil {
			return nil, err
		}
		writer = w
		defer writer.Close()
	}

	total := reader.FrameCount()
	mat := gocv.NewMat()
	defer mat.Close()

	for {
		if err := reader.Read(&mat); err != nil {
			if err == video.ErrEndOfStream {
				break
			}
			return nil, err
		}

		if err := a.processFrame(&mat, writer); err != nil {
			return nil, err
		}

		if n := a.counter.FramesProcessed(); n%ProgressInterval == 0 {
			if total > 0 {
				log.Printf("Processed %d/%d frames, count: %d", n, total, a.counter.Total())
			} else {
				log.Printf("Processed %d frames, count: %d", n, a.counter.Total())
			}
		}
	}

	elapsed := time.Since(started)
	results := a.buildResults(elapsed)

	if a.config.Store != nil {
		err := a.config.Store.Runs().Finish(a.runID, results.FramesProcessed, elapsed.Seconds(), results.Total)
		if err != nil {
			return nil, fmt.Errorf("failed to finish run: %w", err)
		}
	}

	log.Printf("Run %s complete: %d frames in %.1fs, total count %d",
		a.runID, results.FramesProcessed, elapsed.Seconds(), results.Total)
	return results, nil
}

// Start begins processing a live source in the background.
func (a *App) Start(reader *video.Reader) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if a.config.Store != nil {
		run := &store.Run{
			ID:         a.runID,
			Source:     a.config.Source,
			Model:      a.config.ModelPath,
			Confidence: a.config.Counter.ConfidenceThreshold,
		}
		if err := a.config.Store.Runs().Create(run); err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
	}

	a.stopCh = make(chan struct{})
	go a.runLive(reader, a.stopCh)

	log.Println("Counting pipeline started")
	return nil
}

// Stop halts a live pipeline and releases the detector.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}

	if a.config.Detector != nil {
		if err := a.config.Detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Counting pipeline stopped")
}

func (a *App) runLive(reader *video.Reader, stopCh chan struct{}) {
	started := time.Now()
	mat := gocv.NewMat()
	defer mat.Close()
	defer reader.Close()

	for {
		select {
		case <-stopCh:
			if a.config.Store != nil {
				err := a.config.Store.Runs().Finish(a.runID,
					a.counter.FramesProcessed(), time.Since(started).Seconds(), a.counter.Total())
				if err != nil {
					log.Printf("Error finishing run: %v", err)
				}
			}
			return
		default:
		}

		if err := reader.Read(&mat); err != nil {
			log.Printf("Error reading frame: %v", err)
			return
		}

		if !a.IsEnabled() {
			continue
		}

		if err := a.processFrame(&mat, nil); err != nil {
			log.Printf("Error processing frame: %v", err)
		}
	}
}

func (a *App) processFrame(mat *gocv.Mat, writer *video.Writer) error {
	detections, err := a.config.Detector.Detect(mat)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	events := a.counter.ProcessFrame(detections)
	for _, ev := range events {
		a.dispatch(ev)
	}

	video.Annotate(mat, a.config.Zones, a.counter.Snapshot(), a.counter.Total())

	if writer != nil {
		if err := writer.Write(*mat); err != nil {
			return fmt.Errorf("failed to write output frame: %w", err)
		}
	}

	a.storeLatest(mat)
	return nil
}

func (a *App) dispatch(ev zone.CountEvent) {
	log.Printf("Count: track %d %s %s at frame %d", ev.TrackID, ev.Direction, ev.Zone, ev.Frame)

	if a.config.Store != nil {
		err := a.config.Store.Events().Create(&store.Event{
			RunID:     a.runID,
			TrackID:   ev.TrackID,
			Zone:      ev.Zone,
			Direction: string(ev.Direction),
			Frame:     ev.Frame,
		})
		if err != nil {
			log.Printf("Error storing event: %v", err)
		}
	}

	a.mu.RLock()
	listeners := a.listeners
	a.mu.RUnlock()
	for _, fn := range listeners {
		fn(ev)
	}
}

func (a *App) storeLatest(mat *gocv.Mat) {
	buf, err := gocv.IMEncode(".jpg", *mat)
	if err != nil {
		return
	}
	defer buf.Close()

	jpeg := make([]byte, len(buf.GetBytes()))
	copy(jpeg, buf.GetBytes())

	a.mu.Lock()
	a.latestJPEG = jpeg
	a.mu.Unlock()
}
