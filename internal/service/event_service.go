package service

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/domain"
	"github.com/spec-kit/membership-service/internal/repository"
	"github.com/spec-kit/membership-service/internal/storage"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

// EventInput carries event form fields. Nil fields are left untouched
// on update.
type EventInput struct {
	Title       *string
	Description *string
	Date        *time.Time
	Location    *string
	Category    *string
	Status      *string
}

// ImageUpload is an optional event banner to push to the object store.
type ImageUpload struct {
	Filename string
	Content  []byte
}

// EventService manages event listings and announces new events to
// active members.
type EventService struct {
	events   repository.EventRepository
	users    repository.UserRepository
	uploader storage.Uploader
	notify   *NotificationService
	logger   *zap.Logger
	folder   string
}

// EventDependencies bundles requirements for the service.
type EventDependencies struct {
	EventRepo     repository.EventRepository
	UserRepo      repository.UserRepository
	Uploader      storage.Uploader
	Notifications *NotificationService
	Logger        *zap.Logger
	UploadFolder  string
}

// NewEventService constructs the service.
func NewEventService(deps EventDependencies) *EventService {
	return &EventService{
		events:   deps.EventRepo,
		users:    deps.UserRepo,
		uploader: deps.Uploader,
		notify:   deps.Notifications,
		logger:   deps.Logger,
		folder:   deps.UploadFolder,
	}
}

// Create validates and persists a new event, then announces it to every
// active member. Individual announcement failures are logged and do not
// fail the create.
func (s *EventService) Create(ctx context.Context, createdBy string, input EventInput, image *ImageUpload) (*domain.Event, error) {
	event := &domain.Event{
		Status:    domain.EventStatusUpcoming,
		CreatedBy: createdBy,
	}
	if err := applyEventInput(event, input); err != nil {
		return nil, err
	}
	if event.Title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if event.Date.IsZero() {
		return nil, apperrors.NewValidationError("date is required", nil)
	}
	if event.Category == "" {
		event.Category = domain.EventCategoryOther
	}

	if image != nil {
		url, err := s.uploader.Upload(ctx, bytes.NewReader(image.Content), image.Filename, s.folder)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		event.ImageURL = url
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	s.announce(ctx, event)
	return event, nil
}

// Update merges provided fields over the stored event.
func (s *EventService) Update(ctx context.Context, id string, input EventInput, image *ImageUpload) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("event", nil)
		}
		return nil, err
	}

	if err := applyEventInput(event, input); err != nil {
		return nil, err
	}
	if image != nil {
		url, err := s.uploader.Upload(ctx, bytes.NewReader(image.Content), image.Filename, s.folder)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		event.ImageURL = url
	}

	if err := s.events.Update(ctx, event); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("event", nil)
		}
		return nil, err
	}
	return event, nil
}

// Get returns one event.
func (s *EventService) Get(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err == pgx.ErrNoRows {
		return nil, apperrors.NewNotFound("event", nil)
	}
	return event, err
}

// List returns all events ordered by date.
func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx)
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id string) error {
	err := s.events.Delete(ctx, id)
	if err == pgx.ErrNoRows {
		return apperrors.NewNotFound("event", nil)
	}
	return err
}

func (s *EventService) announce(ctx context.Context, event *domain.Event) {
	members, err := s.users.ListByStage(ctx, domain.StageActiveMember)
	if err != nil {
		s.logger.Warn("listing members for event announcement failed", zap.String("event_id", event.ID), zap.Error(err))
		return
	}
	for i := range members {
		if err := s.notify.SendEventAnnouncement(ctx, &members[i], event); err != nil {
			s.logger.Warn("event announcement failed",
				zap.String("event_id", event.ID),
				zap.String("user_id", members[i].ID),
				zap.Error(err),
			)
		}
	}
}

func applyEventInput(event *domain.Event, input EventInput) error {
	if input.Title != nil {
		event.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		event.Description = strings.TrimSpace(*input.Description)
	}
	if input.Date != nil {
		event.Date = *input.Date
	}
	if input.Location != nil {
		event.Location = strings.TrimSpace(*input.Location)
	}
	if input.Category != nil {
		category := domain.EventCategory(*input.Category)
		if !domain.ValidEventCategory(category) {
			return apperrors.NewValidationError("invalid event category", map[string]any{"category": category})
		}
		event.Category = category
	}
	if input.Status != nil {
		status := domain.EventStatus(*input.Status)
		switch status {
		case domain.EventStatusUpcoming, domain.EventStatusInProgress, domain.EventStatusCompleted, domain.EventStatusPast:
		default:
			return apperrors.NewValidationError("invalid event status", map[string]any{"status": status})
		}
		event.Status = status
	}
	return nil
}
