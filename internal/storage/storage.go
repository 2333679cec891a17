// Package storage defines the backend interface the pipeline writes its
// results to, plus the factory selecting a concrete implementation.
package storage

import "github.com/kairichard/SGP-Data-Challenge/internal/model/core"

// Backend is the interface all storage implementations must satisfy.
// The pipeline calls StartRace once, then the Write methods in any order
// (tracked streams first in practice), then EndRace.
type Backend interface {
	// Lifecycle
	Init() error
	Close() error

	// Race management
	StartRace(course *core.Course) error
	EndRace() error

	// Result recording
	WriteTrackedStream(boatID string, samples []core.TrackedSample) error
	WriteLeaderStream(records []core.LeaderRecord) error
	WriteDTLStream(boatID string, records []core.DTLRecord) error
}
