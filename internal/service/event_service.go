package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"campusevents/internal/cache"
	apperr "campusevents/internal/errors"
	"campusevents/internal/model"
	"campusevents/internal/repository"
)

const (
	eventListCacheKey = "events:list"
	eventListCacheTTL = 30 * time.Second

	// defaultEventImageURL is shown for events created without a thumbnail.
	defaultEventImageURL = "https://images.unsplash.com/photo-1540575861501-7ad05823c9f5?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80"
)

// EventInput carries the fields of a create or full-update request. An empty
// ImageURL on update keeps the event's existing image.
type EventInput struct {
	Title                string
	Description          string
	EventDate            time.Time
	EventTime            string
	Location             string
	Capacity             int
	ImageURL             string
	RegistrationDeadline *time.Time
}

// EventService handles event catalog operations.
type EventService interface {
	List(ctx context.Context) ([]repository.EventWithStats, error)
	Create(ctx context.Context, createdBy uint, in EventInput) (*model.Event, error)
	Update(ctx context.Context, id uint, in EventInput) error
	Delete(ctx context.Context, id uint) error
	End(ctx context.Context, id uint) error
}

type eventService struct {
	eventRepo repository.EventRepository
	cache     *cache.Client
}

// NewEventService creates a new event service.
func NewEventService(eventRepo repository.EventRepository, cache *cache.Client) EventService {
	return &eventService{eventRepo: eventRepo, cache: cache}
}

// List returns all events with organizer names and live registration counts.
// The listing is the hottest read so it is cached briefly; every write path
// below invalidates it.
func (s *eventService) List(ctx context.Context) ([]repository.EventWithStats, error) {
	if data, _ := s.cache.Get(ctx, eventListCacheKey); data != nil {
		var cached []repository.EventWithStats
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	events, err := s.eventRepo.ListWithStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	if payload, err := json.Marshal(events); err == nil {
		_ = s.cache.Set(ctx, eventListCacheKey, payload, eventListCacheTTL)
	}
	return events, nil
}

func (s *eventService) invalidateList(ctx context.Context) {
	_ = s.cache.Delete(ctx, eventListCacheKey)
}

// Create adds a new event after checking the schedule slot is free.
func (s *eventService) Create(ctx context.Context, createdBy uint, in EventInput) (*model.Event, error) {
	conflict, err := s.eventRepo.HasConflict(ctx, in.Location, in.EventDate, in.EventTime, 0)
	if err != nil {
		return nil, fmt.Errorf("check schedule conflict: %w", err)
	}
	if conflict {
		return nil, apperr.ErrScheduleConflict
	}

	imageURL := in.ImageURL
	if imageURL == "" {
		imageURL = defaultEventImageURL
	}

	event := &model.Event{
		Title:                in.Title,
		Description:          in.Description,
		EventDate:            in.EventDate,
		EventTime:            in.EventTime,
		Location:             in.Location,
		Capacity:             in.Capacity,
		ImageURL:             imageURL,
		RegistrationDeadline: in.RegistrationDeadline,
		Status:               model.EventStatusActive,
		CreatedBy:            createdBy,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.ErrScheduleConflict
		}
		return nil, fmt.Errorf("create event: %w", err)
	}

	s.invalidateList(ctx)
	return event, nil
}

// Update replaces the event's fields. The conflict check skips the event
// itself so saving without moving it is not a conflict.
func (s *eventService) Update(ctx context.Context, id uint, in EventInput) error {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrEventNotFound
		}
		return fmt.Errorf("find event: %w", err)
	}

	conflict, err := s.eventRepo.HasConflict(ctx, in.Location, in.EventDate, in.EventTime, id)
	if err != nil {
		return fmt.Errorf("check schedule conflict: %w", err)
	}
	if conflict {
		return apperr.ErrScheduleConflict
	}

	event.Title = in.Title
	event.Description = in.Description
	event.EventDate = in.EventDate
	event.EventTime = in.EventTime
	event.Location = in.Location
	event.Capacity = in.Capacity
	event.RegistrationDeadline = in.RegistrationDeadline
	if in.ImageURL != "" {
		event.ImageURL = in.ImageURL
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperr.ErrScheduleConflict
		}
		return fmt.Errorf("update event: %w", err)
	}

	s.invalidateList(ctx)
	return nil
}

// Delete hard-deletes the event and its registrations.
func (s *eventService) Delete(ctx context.Context, id uint) error {
	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrEventNotFound
		}
		return fmt.Errorf("find event: %w", err)
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	s.invalidateList(ctx)
	return nil
}

// End marks the event ended. The transition is one-way and does not touch
// existing registrations.
func (s *eventService) End(ctx context.Context, id uint) error {
	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrEventNotFound
		}
		return fmt.Errorf("find event: %w", err)
	}

	if err := s.eventRepo.SetStatus(ctx, id, model.EventStatusEnded); err != nil {
		return fmt.Errorf("end event: %w", err)
	}

	s.invalidateList(ctx)
	return nil
}
