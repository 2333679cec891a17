package postgres

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/kairichard/SGP-Data-Challenge/internal/logging"
	"github.com/kairichard/SGP-Data-Challenge/internal/model"
	"github.com/kairichard/SGP-Data-Challenge/internal/model/core"
)

// newTestBackend creates a Backend on an in-memory SQLite DB. The GORM code
// paths are identical for Postgres and SQLite.
func newTestBackend(t *testing.T) *Backend {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return New(Dependencies{
		DB:         db,
		LogManager: logging.NewSlogManager(),
	})
}

func testCourse() *core.Course {
	return &core.Course{
		RaceID:    "2408",
		StartTime: time.Date(2024, 8, 1, 14, 0, 0, 0, time.UTC),
		Marks: []core.CompoundMark{
			{
				ID: 1, Name: "SL1", SeqID: 1, Rounding: "SP", ZoneSize: 50,
				Marks: []core.Mark{
					{Name: "SL1A", Lat: 41.38, Lon: 2.17},
					{Name: "SL1B", Lat: 41.381, Lon: 2.171},
				},
			},
			{
				ID: 2, Name: "M1", SeqID: 2, Rounding: "Port", ZoneSize: 50,
				Marks: []core.Mark{{Name: "M1", Lat: 41.39, Lon: 2.18}},
			},
		},
	}
}

func TestInitClose(t *testing.T) {
	b := newTestBackend(t)

	err := b.Init()
	require.NoError(t, err)
	require.NotNil(t, b.queues)
	require.NotNil(t, b.stopChan)

	err = b.Close()
	require.NoError(t, err)
}

func TestStartRace_InsertsCourseRows(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.StartRace(testCourse()))

	var races, marks, gates int64
	b.deps.DB.Model(&model.Race{}).Count(&races)
	b.deps.DB.Model(&model.CourseMark{}).Count(&marks)
	b.deps.DB.Model(&model.GateSegment{}).Count(&gates)

	assert.Equal(t, int64(1), races)
	assert.Equal(t, int64(3), marks)
	assert.Equal(t, int64(1), gates)
	assert.NotZero(t, b.raceID.Load())
}

func TestWriteTrackedStream_QueuesToInternalQueue(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Init())
	defer b.Close()
	require.NoError(t, b.StartRace(testCourse()))

	samples := []core.TrackedSample{
		{
			PositionSample: core.PositionSample{Time: time.Unix(100, 0).UTC(), Lat: 41.37, Lon: 2.16, Speed: 55, Heading: 40},
			NextMark:       "M1", MarkDistance: 2400, LegIndex: 1, VMC: 50,
		},
		{
			PositionSample: core.PositionSample{Time: time.Unix(101, 0).UTC(), Lat: 41.371, Lon: 2.161, Speed: 56, Heading: 41},
			NextMark:       "M1", MarkDistance: 2250, LegIndex: 1, VMC: 51,
		},
	}

	err := b.WriteTrackedStream("GER", samples)
	require.NoError(t, err)
	assert.Equal(t, 2, b.queues.TrackPoints.Len())
}

func TestEndRace_FlushesQueuesToDB(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Init())
	defer b.Close()
	require.NoError(t, b.StartRace(testCourse()))

	samples := []core.TrackedSample{
		{
			PositionSample: core.PositionSample{Time: time.Unix(100, 0).UTC(), Lat: 41.37, Lon: 2.16},
			NextMark:       "M1", LegIndex: 1,
		},
	}
	require.NoError(t, b.WriteTrackedStream("GER", samples))
	require.NoError(t, b.WriteLeaderStream([]core.LeaderRecord{
		{Time: time.Unix(100, 0).UTC(), BoatID: "GER", Position: core.LatLon{Lat: 41.37, Lon: 2.16}, LegIndex: 1},
	}))
	require.NoError(t, b.WriteDTLStream("FRA", []core.DTLRecord{
		{Time: time.Unix(100, 0).UTC(), Direct: 12, CourseAdjusted: 15, LegsBehind: 0},
	}))

	require.NoError(t, b.EndRace())

	var tracks, leaders, dtls int64
	b.deps.DB.Model(&model.TrackPoint{}).Count(&tracks)
	b.deps.DB.Model(&model.LeaderPoint{}).Count(&leaders)
	b.deps.DB.Model(&model.DTLPoint{}).Count(&dtls)

	assert.Equal(t, int64(1), tracks)
	assert.Equal(t, int64(1), leaders)
	assert.Equal(t, int64(1), dtls)
	assert.True(t, b.queues.TrackPoints.Empty())

	// rows carry the DB-assigned race ID
	var tp model.TrackPoint
	require.NoError(t, b.deps.DB.First(&tp).Error)
	assert.Equal(t, uint(b.raceID.Load()), tp.RaceID)
	assert.Equal(t, "GER", tp.BoatID)
}

func TestStartRace_SameRaceTwice_SingleRow(t *testing.T) {
	b := newTestBackend(t)
	require.NoError(t, b.Init())
	defer b.Close()

	require.NoError(t, b.StartRace(testCourse()))
	first := b.raceID.Load()
	require.NoError(t, b.StartRace(testCourse()))

	var races int64
	b.deps.DB.Model(&model.Race{}).Count(&races)
	assert.Equal(t, int64(1), races)
	assert.Equal(t, first, b.raceID.Load())
}
