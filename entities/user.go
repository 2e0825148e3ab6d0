package entities

import (
	"time"

	"gorm.io/gorm"
)

const (
	UserTypeFarmer   = "farmer"
	UserTypeCustomer = "customer"
)

type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:255" json:"email"`
	PasswordHash string    `json:"-"`
	UserType     string    `gorm:"size:16" json:"user_type"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	Location     *GeoPoint `gorm:"serializer:json" json:"location,omitempty"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) BeforeCreate(*gorm.DB) error { ensureID(&u.ID); return nil }
