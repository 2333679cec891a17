// Package cache holds the fleet cache: per-boat tracked streams keyed by
// boat id. Tracking workers write each boat exactly once; leader and DTL
// analysis read the merged fleet after the tracking barrier.
package cache

import (
	"sync"

	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// FleetCache is a thread-safe map of boat id to tracked stream.
type FleetCache struct {
	m       sync.RWMutex
	streams map[string][]core.TrackedSample
}

// NewFleetCache creates an empty fleet cache.
func NewFleetCache() *FleetCache {
	return &FleetCache{
		streams: make(map[string][]core.TrackedSample),
	}
}

// Reset drops all cached streams.
func (c *FleetCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.streams = make(map[string][]core.TrackedSample)
}

// SetStream stores the tracked stream for a boat, replacing any previous one.
func (c *FleetCache) SetStream(boatID string, samples []core.TrackedSample) {
	c.m.Lock()
	defer c.m.Unlock()
	c.streams[boatID] = samples
}

// GetStream returns a boat's tracked stream.
func (c *FleetCache) GetStream(boatID string) ([]core.TrackedSample, bool) {
	c.m.RLock()
	defer c.m.RUnlock()
	s, ok := c.streams[boatID]
	return s, ok
}

// Boats returns the ids of all cached boats.
func (c *FleetCache) Boats() []string {
	c.m.RLock()
	defer c.m.RUnlock()
	ids := make([]string, 0, len(c.streams))
	for id := range c.streams {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot returns a shallow copy of the whole fleet map. The contained
// streams are treated as immutable once written, so sharing the slices is
// safe.
func (c *FleetCache) Snapshot() map[string][]core.TrackedSample {
	c.m.RLock()
	defer c.m.RUnlock()
	out := make(map[string][]core.TrackedSample, len(c.streams))
	for id, s := range c.streams {
		out[id] = s
	}
	return out
}

// Len returns the number of cached boats.
func (c *FleetCache) Len() int {
	c.m.RLock()
	defer c.m.RUnlock()
	return len(c.streams)
}
