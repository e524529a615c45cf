package model

import "time"

// Event status values. The active -> ended transition is one-way.
const (
	EventStatusActive = "active"
	EventStatusEnded  = "ended"
)

// Event represents a scheduled campus event. The composite unique index on
// (location, event_date, event_time) backs the schedule-conflict rule: no two
// events may occupy the same place at the same moment.
type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Description string    `json:"description" gorm:"type:text"`
	EventDate   time.Time `json:"event_date" gorm:"type:date;not null;uniqueIndex:idx_schedule"`
	EventTime   string    `json:"event_time" gorm:"size:5;not null;uniqueIndex:idx_schedule"` // "HH:MM"
	Location    string    `json:"location" gorm:"size:255;not null;uniqueIndex:idx_schedule"`
	Capacity    int       `json:"capacity" gorm:"not null"`
	ImageURL    string    `json:"image_url,omitempty" gorm:"size:512"`
	// Deadline is date-granular: registration stays open through the whole
	// deadline day. Nil means no deadline.
	RegistrationDeadline *time.Time `json:"registration_deadline,omitempty" gorm:"type:date"`
	Status               string     `json:"status" gorm:"size:20;not null;default:'active';index"`
	CreatedBy            uint       `json:"created_by" gorm:"index"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
