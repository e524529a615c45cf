package model

import "time"

// Registration links a user to an event. The composite unique index on
// (user_id, event_id) guarantees a user registers for an event at most once,
// even under concurrent attempts.
type Registration struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_user_event"`
	EventID   uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_user_event;index"`
	CreatedAt time.Time `json:"registration_date"`
}
