package main

import (
	"time"
)

// Roles
const (
	RoleAdmin   = "ADMIN"
	RoleAnggota = "ANGGOTA"
)

// MaxAdmins is the hard cap on privileged accounts.
const MaxAdmins = 3

// Activity status
const (
	ActivityComing    = "COMING"
	ActivityCompleted = "COMPLETED"
)

// Attendance status
const (
	AttendancePresent = "PRESENT"
	AttendanceAbsent  = "ABSENT"
)

// Learning material types
const (
	MaterialPDF   = "PDF"
	MaterialVideo = "VIDEO"
)

// User represents a registered club member or admin
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         string    `json:"role" gorm:"type:varchar(16);not null;default:ANGGOTA"`
	AvatarPath   string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Activity is an agenda entry. Date holds "YYYY-MM-DD" or
// "YYYY-MM-DDTHH:MM" when a time of day was supplied at creation.
type Activity struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	Date        string    `json:"date" gorm:"not null"`
	Status      string    `json:"status" gorm:"type:varchar(16);not null;default:COMING"`
	CreatedBy   uint      `json:"created_by" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type AttendanceRecord struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	ActivityID uint      `json:"activity_id" gorm:"index;not null"`
	Status     string    `json:"status" gorm:"type:varchar(16);not null"`
	CreatedAt  time.Time `json:"created_at"`
}

type GalleryPhoto struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	ImagePath string    `json:"-" gorm:"not null"`
	CreatedBy uint      `json:"created_by" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
}

// LearningMaterial holds either an uploaded file or an external link,
// never both.
type LearningMaterial struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Type        string    `json:"type" gorm:"type:varchar(16);not null"`
	FilePath    string    `json:"-"`
	ExternalURL string    `json:"-"`
	CreatedBy   uint      `json:"created_by" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}

// ClubProfile is a singleton row (id = 1), seeded at migration time.
type ClubProfile struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	History string `json:"history"`
	Vision  string `json:"vision"`
}

// Mission is one ordered line of the club mission list. The whole set
// is replaced on every profile update.
type Mission struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProfileID uint   `json:"profile_id" gorm:"index;not null"`
	Position  int    `json:"position" gorm:"not null"`
	Text      string `json:"text"`
}

// OrganizationMember is a node of the org chart. ParentID is a nullable
// self-reference; the set forms a forest by convention.
type OrganizationMember struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ProfileID uint   `json:"profile_id" gorm:"index;not null"`
	Name      string `json:"name" gorm:"not null"`
	Role      string `json:"role"`
	ParentID  *uint  `json:"parent_id"`
	PhotoPath string `json:"-"`
}

type Achievement struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Year        string    `json:"year"`
	Description string    `json:"description"`
	PhotoPath   string    `json:"-"`
	CreatedBy   uint      `json:"created_by" gorm:"index"`
	CreatedAt   time.Time `json:"created_at"`
}
