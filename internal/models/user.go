package models

import (
	"time"
)

type User struct {
	ID           uint64    `gorm:"primarykey" json:"id"`
	Username     string    `gorm:"type:varchar(80);uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Bio          string    `gorm:"type:text" json:"bio"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	IsBanned     bool      `gorm:"not null;default:false" json:"is_banned"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Posts        []Post            `gorm:"foreignKey:AuthorID" json:"-"`
	Achievements []UserAchievement `gorm:"foreignKey:UserID" json:"-"`
}

// IsActive reports whether the user may create or modify content.
func (u *User) IsActive() bool {
	return !u.IsBanned
}
