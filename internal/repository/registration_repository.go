package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campusevents/internal/model"
)

// ErrCapacityFull is returned by CreateAdmission when the event has no free
// spots left at commit time.
var ErrCapacityFull = errors.New("event capacity reached")

// UserRegistrationRow is a registration joined with its event, for the
// caller's own registration list.
type UserRegistrationRow struct {
	RegID            uint      `json:"reg_id"`
	RegistrationDate time.Time `json:"registration_date"`
	model.Event
}

// RosterRow is a registration joined with the registrant, for an event roster.
type RosterRow struct {
	RegID            uint      `json:"reg_id"`
	RegistrationDate time.Time `json:"registration_date"`
	FullName         string    `json:"fullname"`
	Email            string    `json:"email"`
	Faculty          string    `json:"faculty"`
}

// ReportRow is a registration joined with both registrant and event, for the
// global registration report.
type ReportRow struct {
	RegID            uint      `json:"reg_id"`
	RegistrationDate time.Time `json:"registration_date"`
	StudentName      string    `json:"student_name"`
	Email            string    `json:"email"`
	Faculty          string    `json:"faculty"`
	EventTitle       string    `json:"event_title"`
}

// RegistrationRepository defines registration persistence operations.
type RegistrationRepository interface {
	FindByUserAndEvent(ctx context.Context, userID, eventID uint) (*model.Registration, error)
	// CreateAdmission inserts the registration only while the event still has
	// capacity. Returns ErrCapacityFull when the event is full,
	// gorm.ErrRecordNotFound when the event vanished and
	// gorm.ErrDuplicatedKey when the user is already registered.
	CreateAdmission(ctx context.Context, reg *model.Registration) error
	// DeleteOwned removes the registration only when it belongs to userID.
	// Returns the number of rows removed (0 or 1).
	DeleteOwned(ctx context.Context, id, userID uint) (int64, error)
	ListByUser(ctx context.Context, userID uint) ([]UserRegistrationRow, error)
	ListByEvent(ctx context.Context, eventID uint) ([]RosterRow, error)
	ListAll(ctx context.Context) ([]ReportRow, error)
}

type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository builds a GORM-backed repository.
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

func (r *registrationRepository) FindByUserAndEvent(ctx context.Context, userID, eventID uint) (*model.Registration, error) {
	var reg model.Registration
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// CreateAdmission locks the event row so the count-then-insert sequence is
// serialized across concurrent requests: capacity cannot be exceeded by two
// admissions racing past the same count.
func (r *registrationRepository) CreateAdmission(ctx context.Context, reg *model.Registration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event model.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&event, reg.EventID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&model.Registration{}).
			Where("event_id = ?", reg.EventID).
			Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(event.Capacity) {
			return ErrCapacityFull
		}

		return tx.Create(reg).Error
	})
}

func (r *registrationRepository) DeleteOwned(ctx context.Context, id, userID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Registration{})
	return res.RowsAffected, res.Error
}

func (r *registrationRepository) ListByUser(ctx context.Context, userID uint) ([]UserRegistrationRow, error) {
	var rows []UserRegistrationRow
	err := r.db.WithContext(ctx).
		Model(&model.Registration{}).
		Select("registrations.id AS reg_id, registrations.created_at AS registration_date, events.*").
		Joins("JOIN events ON events.id = registrations.event_id").
		Where("registrations.user_id = ?", userID).
		Order("events.event_date ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *registrationRepository) ListByEvent(ctx context.Context, eventID uint) ([]RosterRow, error) {
	var rows []RosterRow
	err := r.db.WithContext(ctx).
		Model(&model.Registration{}).
		Select("registrations.id AS reg_id, registrations.created_at AS registration_date, " +
			"users.full_name AS full_name, users.email, users.faculty").
		Joins("JOIN users ON users.id = registrations.user_id").
		Where("registrations.event_id = ?", eventID).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *registrationRepository) ListAll(ctx context.Context) ([]ReportRow, error) {
	var rows []ReportRow
	err := r.db.WithContext(ctx).
		Model(&model.Registration{}).
		Select("registrations.id AS reg_id, registrations.created_at AS registration_date, " +
			"users.full_name AS student_name, users.email, users.faculty, events.title AS event_title").
		Joins("JOIN users ON users.id = registrations.user_id").
		Joins("JOIN events ON events.id = registrations.event_id").
		Order("registrations.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
