package database

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"agriverse/config"
	"agriverse/entities"
)

func openTemp(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := OpenAndMigrate(config.AppConfig{DBDriver: "sqlite", DBPath: filepath.Join(t.TempDir(), "a.db")})
	require.NoError(t, err)
	return db
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(config.AppConfig{DBDriver: "mongo"})
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}

func TestOpen_PostgresNeedsDSN(t *testing.T) {
	_, err := Open(config.AppConfig{DBDriver: "postgres"})
	assert.ErrorContains(t, err, "DB_DSN")
}

func TestCycleLineageIndex_RejectsDuplicateVersion(t *testing.T) {
	db := openTemp(t)
	c1 := &entities.CultivationCycle{FarmerID: "f", LandID: "l", CropName: "Wheat", CycleVersion: 1, Status: entities.CycleActive}
	require.NoError(t, db.Create(c1).Error)

	c2 := &entities.CultivationCycle{FarmerID: "f", LandID: "l", CropName: "Wheat", CycleVersion: 1, Status: entities.CycleActive}
	err := db.Create(c2).Error
	require.Error(t, err)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey), "got %v", err)
}

func TestScheduleTasks_RoundTripAsJSON(t *testing.T) {
	db := openTemp(t)
	s := &entities.CropSchedule{
		FarmerID: "f", LandID: "l", CropName: "Rice",
		Schedule: []entities.ScheduleTask{{ID: "t1", Day: 1, Phase: "Preparation", Task: "Soil Testing", Priority: "High"}},
	}
	require.NoError(t, db.Create(s).Error)
	assert.NotEmpty(t, s.ID)

	var got entities.CropSchedule
	require.NoError(t, db.First(&got, "id = ?", s.ID).Error)
	require.Len(t, got.Schedule, 1)
	assert.Equal(t, "Soil Testing", got.Schedule[0].Task)
}

func TestWeatherSnapshot_PersistsAsJSONType(t *testing.T) {
	db := openTemp(t)
	c := &entities.CultivationCycle{
		FarmerID: "f", LandID: "l", CropName: "Maize", CycleVersion: 1, Status: entities.CycleActive,
		WeatherSnapshot: datatypes.NewJSONType(entities.WeatherReading{Temperature: 25, Humidity: 65, Description: "Partly cloudy"}),
	}
	require.NoError(t, db.Create(c).Error)

	var got entities.CultivationCycle
	require.NoError(t, db.First(&got, "id = ?", c.ID).Error)
	assert.Equal(t, "Partly cloudy", got.WeatherSnapshot.Data().Description)
}
