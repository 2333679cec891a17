// Package postgres implements the storage.Backend interface using GORM
// with internal queues and a background DB writer goroutine. The same
// backend serves SQLite when a SQLite connection is injected.
package postgres

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/kairichard/SGP-Data-Challenge/internal/database"
	"github.com/kairichard/SGP-Data-Challenge/internal/logging"
	"github.com/kairichard/SGP-Data-Challenge/internal/model"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/convert"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
	"github.com/kairichard/SGP-Data-Challenge/internal/queue"
)

// writeInterval is how often the background writer drains the queues.
const writeInterval = 2 * time.Second

// Dependencies holds all dependencies for the GORM storage backend. When
// DB is nil the backend connects itself through a database.Manager, which
// falls back to a local SQLite file when no Postgres server is reachable.
type Dependencies struct {
	DB         *gorm.DB
	Log        zerolog.Logger
	LogManager *logging.SlogManager
}

// queues holds all the write queues for batch DB insertion.
type queues struct {
	TrackPoints  *queue.Queue[model.TrackPoint]
	LeaderPoints *queue.Queue[model.LeaderPoint]
	DTLPoints    *queue.Queue[model.DTLPoint]
}

func newQueues() *queues {
	return &queues{
		TrackPoints:  queue.New[model.TrackPoint](),
		LeaderPoints: queue.New[model.LeaderPoint](),
		DTLPoints:    queue.New[model.DTLPoint](),
	}
}

// Backend implements storage.Backend using GORM with queue-based batch writes.
type Backend struct {
	deps     Dependencies
	dbm      *database.Manager
	queues   *queues
	raceID   atomic.Uint64
	stopChan chan struct{}
	dbReady  bool
}

// New creates a new GORM storage backend.
func New(deps Dependencies) *Backend {
	return &Backend{
		deps: deps,
	}
}

// Init creates internal queues, runs schema migration, and starts the DB
// writer goroutine. If no DB was injected via Dependencies, it connects
// through a database.Manager.
func (b *Backend) Init() error {
	b.queues = newQueues()
	b.stopChan = make(chan struct{})

	if b.deps.DB == nil {
		dbm := database.NewManager(b.deps.Log)
		if err := dbm.Connect(); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		b.dbm = dbm
		b.deps.DB = dbm.DB
	}

	if err := b.setupDB(); err != nil {
		return fmt.Errorf("failed to setup DB: %w", err)
	}
	b.dbReady = true

	b.startDBWriter()
	return nil
}

// setupDB migrates the schema.
func (b *Backend) setupDB() error {
	db := b.deps.DB
	log := b.deps.LogManager

	log.WriteLog("setupDB", "Migrating schema", "INFO")
	if err := db.AutoMigrate(model.DatabaseModels...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.WriteLog("setupDB", "Database setup complete", "INFO")
	return nil
}

// Close stops the DB writer goroutine after a final flush.
func (b *Backend) Close() error {
	if b.stopChan != nil {
		close(b.stopChan)
	}
	b.flush()
	if b.dbm != nil {
		return b.dbm.Close()
	}
	return nil
}

// StartRace inserts the race row plus its course marks and gate segments,
// and records the DB-assigned race ID for the writer goroutine.
func (b *Backend) StartRace(course *core.Course) error {
	if b.deps.DB == nil {
		return nil
	}

	db := b.deps.DB
	log := b.deps.LogManager

	race, err := convert.RaceToModel(course)
	if err != nil {
		return err
	}

	// Race get-or-create, keyed on the external race ID
	if err := db.Where(model.Race{RaceID: race.RaceID}).FirstOrCreate(&race).Error; err != nil {
		return fmt.Errorf("failed to get or insert race: %w", err)
	}

	marks, gates := convert.CourseMarksToModels(course, race.ID)
	if len(marks) > 0 {
		if err := db.Create(&marks).Error; err != nil {
			log.WriteLog("StartRace", fmt.Sprintf("Failed to insert course marks: %v", err), "ERROR")
			return fmt.Errorf("failed to insert course marks: %w", err)
		}
	}
	if len(gates) > 0 {
		if err := db.Create(&gates).Error; err != nil {
			return fmt.Errorf("failed to insert gate segments: %w", err)
		}
	}

	b.raceID.Store(uint64(race.ID))
	return nil
}

// EndRace flushes any queued rows synchronously.
func (b *Backend) EndRace() error {
	b.flush()
	return nil
}

// SetRaceID sets the current race ID for the DB writer (used by CLI tools).
func (b *Backend) SetRaceID(id uint) {
	b.raceID.Store(uint64(id))
}

// WriteTrackedStream converts one boat's annotated samples and queues them.
func (b *Backend) WriteTrackedStream(boatID string, samples []core.TrackedSample) error {
	raceID := uint(b.raceID.Load())
	for _, s := range samples {
		b.queues.TrackPoints.Push(convert.TrackPointFrom(raceID, boatID, s))
	}
	return nil
}

// WriteLeaderStream converts the fleet leader records and queues them.
func (b *Backend) WriteLeaderStream(records []core.LeaderRecord) error {
	raceID := uint(b.raceID.Load())
	for _, r := range records {
		b.queues.LeaderPoints.Push(convert.LeaderPointFrom(raceID, r))
	}
	return nil
}

// WriteDTLStream converts one boat's distance-to-leader records and queues them.
func (b *Backend) WriteDTLStream(boatID string, records []core.DTLRecord) error {
	raceID := uint(b.raceID.Load())
	for _, r := range records {
		b.queues.DTLPoints.Push(convert.DTLPointFrom(raceID, boatID, r))
	}
	return nil
}

// writeQueue writes all items from a queue to the database in a transaction.
func writeQueue[T any](db *gorm.DB, q *queue.Queue[T], name string, log func(string, string, string)) {
	if q.Empty() {
		return
	}

	tx := db.Begin()
	items := q.Drain()
	if err := tx.Create(&items).Error; err != nil {
		log(":DB:WRITER:", fmt.Sprintf("Error creating %s: %v", name, err), "ERROR")
		tx.Rollback()
		q.Push(items...)
		return
	}

	tx.Commit()
}

// flush drains every queue into the database once.
func (b *Backend) flush() {
	if !b.dbReady || b.deps.DB == nil {
		return
	}
	log := b.deps.LogManager.WriteLog

	writeQueue(b.deps.DB, b.queues.TrackPoints, "track points", log)
	writeQueue(b.deps.DB, b.queues.LeaderPoints, "leader points", log)
	writeQueue(b.deps.DB, b.queues.DTLPoints, "dtl points", log)
}

// startDBWriter starts the background goroutine that periodically drains
// queues into the DB.
func (b *Backend) startDBWriter() {
	go func() {
		for {
			select {
			case <-b.stopChan:
				return
			default:
			}

			if !b.dbReady {
				time.Sleep(1 * time.Second)
				continue
			}

			b.flush()
			time.Sleep(writeInterval)
		}
	}()
}
