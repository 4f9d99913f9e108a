package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"lbphist/internal/algorithms"
	"lbphist/internal/lbp"
	"lbphist/internal/logger"
	"lbphist/internal/opencv/conversion"
)

const component = "ExtractionService"

var ErrServiceClosed = errors.New("extraction service is shut down")

// Loader reads one image and returns its channels.
type Loader func(path string) ([]lbp.Channel, error)

// Result is the feature vector of one input image.
type Result struct {
	Path     string
	Vector   lbp.FeatureVector
	Channels int
	Duration time.Duration
}

// ExtractionService runs the current extractor over batches of image files.
type ExtractionService struct {
	manager *algorithms.Manager
	loader  Loader
	workers int
	logger  logger.Logger

	mu       sync.Mutex
	closed   bool
	nextID   int
	inFlight map[int]context.CancelFunc
}

func NewExtractionService(manager *algorithms.Manager, loader Loader, workers int, log logger.Logger) *ExtractionService {
	if loader == nil {
		loader = conversion.LoadChannels
	}
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = logger.NewNop()
	}

	return &ExtractionService{
		manager:  manager,
		loader:   loader,
		workers:  workers,
		logger:   log,
		inFlight: make(map[int]context.CancelFunc),
	}
}

// ExtractFiles extracts one feature vector per path. Results keep the input
// order. The first failure cancels the rest of the batch.
func (s *ExtractionService) ExtractFiles(ctx context.Context, paths []string) ([]Result, error) {
	ctx, done, err := s.begin(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	name := s.manager.GetCurrentExtractor()
	extractor, err := s.manager.GetExtractor(name)
	if err != nil {
		return nil, err
	}
	params := s.manager.GetParameters(name)
	if err := extractor.ValidateParameters(params); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}

	startTime := time.Now()
	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			imageStart := time.Now()
			channels, err := s.loader(path)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}

			vec, err := extractor.Extract(channels, params)
			if err != nil {
				return fmt.Errorf("extract %s: %w", path, err)
			}

			results[i] = Result{
				Path:     path,
				Vector:   vec,
				Channels: len(channels),
				Duration: time.Since(imageStart),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error(component, err, map[string]interface{}{
			"extractor": name,
			"images":    len(paths),
		})
		return nil, err
	}

	s.logger.Info(component, "batch extracted", map[string]interface{}{
		"extractor": name,
		"images":    len(paths),
		"workers":   s.workers,
		"elapsed":   time.Since(startTime).String(),
	})
	return results, nil
}

// ExtractAccumulated adds the feature vectors of every path into dst. dst is
// left untouched unless the whole batch succeeds.
func (s *ExtractionService) ExtractAccumulated(ctx context.Context, paths []string, dst lbp.FeatureVector) error {
	results, err := s.ExtractFiles(ctx, paths)
	if err != nil {
		return err
	}

	for _, r := range results {
		if len(r.Vector) != len(dst) {
			return fmt.Errorf("%s: %w: output buffer has %d bins, want %d",
				r.Path, lbp.ErrLengthMismatch, len(dst), len(r.Vector))
		}
	}
	for _, r := range results {
		if err := lbp.Accumulate(dst, lbp.Histogram(r.Vector)); err != nil {
			return fmt.Errorf("%s: %w", r.Path, err)
		}
	}
	return nil
}

// Shutdown rejects new batches and cancels the ones in progress.
func (s *ExtractionService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for id, cancel := range s.inFlight {
		cancel()
		delete(s.inFlight, id)
	}
}

func (s *ExtractionService) begin(ctx context.Context) (context.Context, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, ErrServiceClosed
	}

	ctx, cancel := context.WithCancel(ctx)
	id := s.nextID
	s.nextID++
	s.inFlight[id] = cancel

	done := func() {
		s.mu.Lock()
		delete(s.inFlight, id)
		s.mu.Unlock()
		cancel()
	}
	return ctx, done, nil
}
