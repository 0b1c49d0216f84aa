package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	name := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")

	if host == "" || user == "" || name == "" || port == "" {
		log.Fatalf("DATABASE ENV MISSING — check .env file")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, pass, name, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect: %v", err)
	}

	DB = db

	if err := Migrate(DB); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}

	fmt.Println("✅ Database connected and migrated successfully")
}

// Migrate runs AutoMigrate for all models and seeds the singleton
// club profile row.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Activity{},
		&AttendanceRecord{},
		&GalleryPhoto{},
		&LearningMaterial{},
		&ClubProfile{},
		&Mission{},
		&OrganizationMember{},
		&Achievement{},
	)
	if err != nil {
		return err
	}
	return seedProfile(db)
}

// seedProfile guarantees the club_profiles table holds exactly one row
// with id 1. History and vision start empty; admins fill them in later.
func seedProfile(db *gorm.DB) error {
	var profile ClubProfile
	if err := db.First(&profile, clubProfileID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return db.Create(&ClubProfile{ID: clubProfileID}).Error
		}
		return err
	}
	return nil
}

// clubProfileID is the fixed primary key of the singleton profile row.
const clubProfileID uint = 1
