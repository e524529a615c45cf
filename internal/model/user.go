package model

import "time"

// Roles assignable to a user account. There is no hierarchy: an admin is
// not a student and vice versa.
const (
	RoleStudent = "student"
	RoleAdmin   = "admin"
)

// User represents a registered account. Emails are stored lowercase so the
// unique index enforces case-insensitive uniqueness.
type User struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	FullName      string    `json:"fullname" gorm:"size:255;not null"`
	Email         string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash  string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role          string    `json:"role" gorm:"size:50;not null;default:'student';index"`
	Faculty       string    `json:"faculty,omitempty" gorm:"size:255"`
	ProfilePicURL string    `json:"profile_pic,omitempty" gorm:"size:512"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
