package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campusevents/internal/model"
)

// EventWithStats is an event row joined with its organizer name and live
// registration count, as served by the public event listing.
type EventWithStats struct {
	model.Event
	Organizer       string `json:"organizer"`
	RegisteredCount int64  `json:"registered_count"`
}

// EventRepository defines event persistence operations.
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	FindByID(ctx context.Context, id uint) (*model.Event, error)
	Update(ctx context.Context, event *model.Event) error
	Delete(ctx context.Context, id uint) error
	SetStatus(ctx context.Context, id uint, status string) error
	ListWithStats(ctx context.Context) ([]EventWithStats, error)
	HasConflict(ctx context.Context, location string, date time.Time, eventTime string, excludeID uint) (bool, error)
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository builds a GORM-backed repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Update(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Save(event).Error
}

// Delete removes the event and its registrations. Registrations carry no
// meaning without their event, so they go in the same transaction.
func (r *eventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.Registration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Event{}, id).Error
	})
}

func (r *eventRepository) SetStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&model.Event{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *eventRepository) ListWithStats(ctx context.Context) ([]EventWithStats, error) {
	var rows []EventWithStats
	err := r.db.WithContext(ctx).
		Model(&model.Event{}).
		Select("events.*, users.full_name AS organizer, " +
			"(SELECT COUNT(*) FROM registrations WHERE registrations.event_id = events.id) AS registered_count").
		Joins("LEFT JOIN users ON users.id = events.created_by").
		Order("events.event_date ASC, events.event_time ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// HasConflict reports whether another event occupies the same (location,
// date, time) slot. excludeID skips the event being edited; pass 0 on create.
func (r *eventRepository) HasConflict(ctx context.Context, location string, date time.Time, eventTime string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&model.Event{}).
		Where("location = ? AND event_date = ? AND event_time = ?", location, date, eventTime)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
