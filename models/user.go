package models

import "time"

type User struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Email           string    `gorm:"uniqueIndex;not null" json:"email"`
	Password        string    `gorm:"not null" json:"-"` // bcrypt hash
	IsAdmin         bool      `gorm:"not null;default:false" json:"isAdmin"`
	IsDeliveryAdmin bool      `gorm:"not null;default:false" json:"isDeliveryAdmin"`
	CreatedAt       time.Time `json:"createdAt"`
}

// RoleFlags is the part of a User that authorization decisions read.
type RoleFlags struct {
	IsAdmin         bool `json:"isAdmin"`
	IsDeliveryAdmin bool `json:"isDeliveryAdmin"`
}

func (u User) Roles() RoleFlags {
	return RoleFlags{IsAdmin: u.IsAdmin, IsDeliveryAdmin: u.IsDeliveryAdmin}
}

// UserSummary is the presentation view of an order's owner.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
