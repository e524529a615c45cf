package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperr "campusevents/internal/errors"
	"campusevents/internal/model"
	"campusevents/internal/repository"
)

// RegistrationService handles admission control and the registration ledger.
type RegistrationService interface {
	Register(ctx context.Context, userID, eventID uint) (*model.Registration, error)
	Cancel(ctx context.Context, registrationID, userID uint) error
	MyRegistrations(ctx context.Context, userID uint) ([]repository.UserRegistrationRow, error)
	EventRoster(ctx context.Context, eventID uint) ([]repository.RosterRow, error)
	AllRegistrations(ctx context.Context) ([]repository.ReportRow, error)
}

type registrationService struct {
	regRepo   repository.RegistrationRepository
	eventRepo repository.EventRepository
	now       func() time.Time
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(regRepo repository.RegistrationRepository, eventRepo repository.EventRepository) RegistrationService {
	return &registrationService{
		regRepo:   regRepo,
		eventRepo: eventRepo,
		now:       time.Now,
	}
}

// dateOnly truncates a timestamp to its calendar day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Register runs the admission checks in order, short-circuiting on the first
// failure: duplicate, missing event, ended event, passed deadline, capacity.
// The capacity check and the insert happen atomically in the ledger, so
// concurrent attempts cannot push an event past its capacity; the uniqueness
// constraint backstops the duplicate check the same way.
func (s *registrationService) Register(ctx context.Context, userID, eventID uint) (*model.Registration, error) {
	existing, err := s.regRepo.FindByUserAndEvent(ctx, userID, eventID)
	if err == nil && existing != nil {
		return nil, apperr.ErrAlreadyRegistered
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}

	if event.Status == model.EventStatusEnded {
		return nil, apperr.ErrEventEnded
	}

	if event.RegistrationDeadline != nil {
		// Date-granular: a deadline of day D admits through all of day D.
		if dateOnly(s.now()).After(dateOnly(*event.RegistrationDeadline)) {
			return nil, apperr.ErrDeadlinePassed
		}
	}

	reg := &model.Registration{UserID: userID, EventID: eventID}
	if err := s.regRepo.CreateAdmission(ctx, reg); err != nil {
		switch {
		case errors.Is(err, repository.ErrCapacityFull):
			return nil, apperr.ErrCapacityExceeded
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, apperr.ErrAlreadyRegistered
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, apperr.ErrEventNotFound
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}

	return reg, nil
}

// Cancel deletes the registration only when it belongs to the caller. There
// is no admin override.
func (s *registrationService) Cancel(ctx context.Context, registrationID, userID uint) error {
	deleted, err := s.regRepo.DeleteOwned(ctx, registrationID, userID)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if deleted == 0 {
		return apperr.ErrRegistrationNotFound
	}
	return nil
}

// MyRegistrations lists the caller's registrations joined with event data.
func (s *registrationService) MyRegistrations(ctx context.Context, userID uint) ([]repository.UserRegistrationRow, error) {
	return s.regRepo.ListByUser(ctx, userID)
}

// EventRoster lists all registrants of one event.
func (s *registrationService) EventRoster(ctx context.Context, eventID uint) ([]repository.RosterRow, error) {
	if _, err := s.eventRepo.FindByID(ctx, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return s.regRepo.ListByEvent(ctx, eventID)
}

// AllRegistrations returns the global registration report.
func (s *registrationService) AllRegistrations(ctx context.Context) ([]repository.ReportRow, error) {
	return s.regRepo.ListAll(ctx)
}
