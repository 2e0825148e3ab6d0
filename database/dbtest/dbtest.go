// Package dbtest opens throwaway sqlite stores for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"agriverse/config"
	"agriverse/database"
	"agriverse/entities"
)

func DB(tb testing.TB) *gorm.DB {
	tb.Helper()
	cfg := config.AppConfig{DBDriver: "sqlite", DBPath: filepath.Join(tb.TempDir(), "test.db")}
	db, err := database.OpenAndMigrate(cfg)
	if err != nil {
		tb.Fatalf("failed to init test db: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func User(tb testing.TB, db *gorm.DB, userType string) *entities.User {
	tb.Helper()
	u := &entities.User{Email: userType + "-" + filepath.Base(tb.TempDir()) + "@example.com", UserType: userType, Name: "Test " + userType}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func Land(tb testing.TB, db *gorm.DB, farmerID string) *entities.Land {
	tb.Helper()
	l := &entities.Land{
		FarmerID: farmerID,
		Name:     "North Field",
		Size:     25.5,
		Location: entities.GeoPoint{Lat: 28.61, Lng: 77.20},
		SoilType: "Loamy",
	}
	if err := db.Create(l).Error; err != nil {
		tb.Fatalf("seed land: %v", err)
	}
	return l
}
