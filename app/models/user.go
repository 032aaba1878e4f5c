package models

import "gorm.io/gorm"

// User is a marketplace account. Role decides which side of the market the
// account operates on: clients buy produce, farmers list and fulfil it.
type User struct {
	gorm.Model
	Name     string `gorm:"size:255;not null"             json:"name"`
	Email    string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password string `gorm:"size:255;not null"             json:"-"` // bcrypt hash, never serialised
	Role     string `gorm:"size:50;not null;index"        json:"role"`
	Phone    string `gorm:"size:20"                       json:"phone,omitempty"`

	// Client-side profile.
	DeliveryArea *string `gorm:"size:255" json:"delivery_area,omitempty"`

	// Farmer-side profile.
	FarmName     string `gorm:"size:255" json:"farm_name,omitempty"`
	FarmLocation string `gorm:"size:255" json:"farm_location,omitempty"`

	Favorites []Product `gorm:"many2many:user_favorites" json:"-"`
}

// IsFarmer reports whether the account is on the selling side.
func (u *User) IsFarmer() bool { return u.Role == "farmer" }
