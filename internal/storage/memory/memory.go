// Package memory stores race results in memory and exports them to a JSON
// file when the race ends.
package memory

import (
	"sync"

	"github.com/kairichard/SGP-Data-Challenge/internal/config"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// BoatRecord groups one boat's result streams.
type BoatRecord struct {
	Tracked []core.TrackedSample `json:"tracked"`
	DTL     []core.DTLRecord     `json:"dtl,omitempty"`
}

// Backend stores race data in memory and exports to JSON.
type Backend struct {
	cfg    config.MemoryConfig
	course *core.Course

	boats   map[string]*BoatRecord
	leaders []core.LeaderRecord

	lastExportPath string

	mu sync.RWMutex
}

// New creates a new memory backend.
func New(cfg config.MemoryConfig) *Backend {
	return &Backend{
		cfg:   cfg,
		boats: make(map[string]*BoatRecord),
	}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return nil
}

// Close cleans up resources.
func (b *Backend) Close() error {
	return nil
}

// StartRace begins recording a new race, dropping previous data.
func (b *Backend) StartRace(course *core.Course) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.course = course
	b.boats = make(map[string]*BoatRecord)
	b.leaders = nil
	return nil
}

// EndRace finalizes and exports the race data.
func (b *Backend) EndRace() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.exportJSON()
}

// WriteTrackedStream stores one boat's annotated stream.
func (b *Backend) WriteTrackedStream(boatID string, samples []core.TrackedSample) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.boat(boatID).Tracked = samples
	return nil
}

// WriteLeaderStream stores the fleet leader stream.
func (b *Backend) WriteLeaderStream(records []core.LeaderRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.leaders = records
	return nil
}

// WriteDTLStream stores one boat's distance-to-leader stream.
func (b *Backend) WriteDTLStream(boatID string, records []core.DTLRecord) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.boat(boatID).DTL = records
	return nil
}

// LastExportPath returns the path of the most recent JSON export.
func (b *Backend) LastExportPath() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastExportPath
}

// boat returns the record for a boat, creating it on first use.
// Callers must hold the write lock.
func (b *Backend) boat(boatID string) *BoatRecord {
	r, ok := b.boats[boatID]
	if !ok {
		r = &BoatRecord{}
		b.boats[boatID] = r
	}
	return r
}
