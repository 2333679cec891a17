// Package worker runs the race analysis pipeline: per-boat tracking fan-out,
// fleet leader identification, and distance-to-leader computation.
package worker

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/kairichard/SGP-Data-Challenge/internal/cache"
	"github.com/kairichard/SGP-Data-Challenge/internal/logging"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
	"github.com/kairichard/SGP-Data-Challenge/internal/race"
	"github.com/kairichard/SGP-Data-Challenge/internal/storage"
	"github.com/kairichard/SGP-Data-Challenge/internal/tracker"
)

// Dependencies holds all dependencies for the worker manager.
type Dependencies struct {
	Fleet      *cache.FleetCache
	LogManager *logging.SlogManager
}

// Manager runs the analysis stages against a storage backend.
type Manager struct {
	deps    Dependencies
	backend storage.Backend
	course  *core.Course

	// OTEL metrics
	samplesProcessed metric.Int64Counter
	samplesRejected  metric.Int64Counter
	boatsTracked     metric.Int64ObservableGauge
}

// NewManager creates a new worker manager.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewManager(deps Dependencies, backend storage.Backend, course *core.Course) (*Manager, error) {
	m := &Manager{
		deps:    deps,
		backend: backend,
		course:  course,
	}

	mt := meter()

	var err error

	m.samplesProcessed, err = mt.Int64Counter(
		"tracker.samples.processed",
		metric.WithDescription("Total position samples run through mark tracking"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating processed counter: %w", err)
	}

	m.samplesRejected, err = mt.Int64Counter(
		"tracker.samples.rejected",
		metric.WithDescription("Total position samples rejected as GPS jumps"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating rejected counter: %w", err)
	}

	m.boatsTracked, err = mt.Int64ObservableGauge(
		"tracker.fleet.boats",
		metric.WithDescription("Number of boats with a tracked stream"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating fleet gauge: %w", err)
	}

	_, err = mt.RegisterCallback(
		func(ctx context.Context, o metric.Observer) error {
			o.ObserveInt64(m.boatsTracked, int64(m.deps.Fleet.Len()))
			return nil
		},
		m.boatsTracked,
	)
	if err != nil {
		return nil, fmt.Errorf("registering fleet callback: %w", err)
	}

	return m, nil
}

// TrackFleet runs mark-progression tracking for every boat in parallel,
// stores the annotated streams in the fleet cache, and writes them to the
// backend. It returns once every boat has been tracked.
func (m *Manager) TrackFleet(streams map[string][]core.PositionSample) error {
	log := m.deps.LogManager.Logger()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for boatID, samples := range streams {
		wg.Add(1)
		go func(boatID string, samples []core.PositionSample) {
			defer wg.Done()

			tr := tracker.New(m.course, log.With("boat", boatID))
			tracked := tr.Track(samples)

			m.recordSampleMetrics(boatID, tracked)
			m.deps.Fleet.SetStream(boatID, tracked)

			if err := m.backend.WriteTrackedStream(boatID, tracked); err != nil {
				log.Error("failed to write tracked stream", "boat", boatID, "error", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("boat %s: %w", boatID, err)
				}
				mu.Unlock()
			}
		}(boatID, samples)
	}

	wg.Wait()
	return firstErr
}

// ComputeLeader identifies the fleet leader over the cached tracked streams
// and writes the result to the backend.
func (m *Manager) ComputeLeader() ([]core.LeaderRecord, error) {
	leaders := race.IdentifyLeader(m.deps.Fleet.Snapshot())
	if err := m.backend.WriteLeaderStream(leaders); err != nil {
		return nil, fmt.Errorf("failed to write leader stream: %w", err)
	}
	return leaders, nil
}

// ComputeDTL computes distance-to-leader for every cached boat and writes
// each stream to the backend.
func (m *Manager) ComputeDTL(leaders []core.LeaderRecord) (map[string][]core.DTLRecord, error) {
	streams := make(map[string][]core.DTLRecord, m.deps.Fleet.Len())
	for _, boatID := range m.deps.Fleet.Boats() {
		stream, ok := m.deps.Fleet.GetStream(boatID)
		if !ok {
			continue
		}
		records := race.CalculateDTL(stream, leaders, m.course)
		if err := m.backend.WriteDTLStream(boatID, records); err != nil {
			return nil, fmt.Errorf("failed to write dtl stream for %s: %w", boatID, err)
		}
		streams[boatID] = records
	}
	return streams, nil
}

func (m *Manager) recordSampleMetrics(boatID string, tracked []core.TrackedSample) {
	ctx := context.Background()
	boatAttr := metric.WithAttributes(attribute.String("boat", boatID))

	m.samplesProcessed.Add(ctx, int64(len(tracked)), boatAttr)
	for _, s := range tracked {
		if s.JumpRejected {
			m.samplesRejected.Add(ctx, 1, boatAttr)
		}
	}
}
