package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/membership-service/internal/domain"
	apperrors "github.com/spec-kit/membership-service/pkg/util"
)

type eventFixture struct {
	users  *fakeUserRepo
	events *fakeEventRepo
	sender *fakeSender
	svc    *EventService
}

func newEventFixture(t *testing.T) *eventFixture {
	t.Helper()
	users := newFakeUserRepo()
	events := newFakeEventRepo()
	sender := &fakeSender{}

	return &eventFixture{
		users:  users,
		events: events,
		sender: sender,
		svc: NewEventService(EventDependencies{
			EventRepo:     events,
			UserRepo:      users,
			Uploader:      &fakeUploader{},
			Notifications: testNotificationService(sender),
			Logger:        zap.NewNop(),
			UploadFolder:  "event_uploads",
		}),
	}
}

func (f *eventFixture) addUser(t *testing.T, email string, stage domain.Stage) *domain.User {
	t.Helper()
	user := &domain.User{
		FirstName: "Member",
		LastName:  "User",
		Email:     email,
		Provider:  domain.ProviderEmail,
		Role:      domain.RoleMember,
		Stage:     stage,
		Verified:  true,
		Active:    true,
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func timePtr(t time.Time) *time.Time { return &t }

func eventInput() EventInput {
	return EventInput{
		Title:    strPtr("Annual Outsourcing Summit"),
		Date:     timePtr(time.Now().Add(30 * 24 * time.Hour)),
		Location: strPtr("Accra International Conference Centre"),
		Category: strPtr(string(domain.EventCategoryConference)),
	}
}

func TestCreateEventNotifiesActiveMembersOnly(t *testing.T) {
	f := newEventFixture(t)
	active := f.addUser(t, "active@example.com", domain.StageActiveMember)
	f.addUser(t, "pending@example.com", domain.StageDetailsSubmitted)

	event, err := f.svc.Create(context.Background(), "admin-1", eventInput(), nil)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusUpcoming, event.Status)

	emails := f.sender.emails()
	require.Len(t, emails, 1)
	assert.Equal(t, active.Email, emails[0].To)
	assert.Contains(t, emails[0].Subject, "Annual Outsourcing Summit")
}

func TestCreateEventSucceedsWhenAnnouncementsFail(t *testing.T) {
	f := newEventFixture(t)
	f.addUser(t, "active@example.com", domain.StageActiveMember)
	f.sender.failErr = assert.AnError

	event, err := f.svc.Create(context.Background(), "admin-1", eventInput(), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
}

func TestCreateEventValidation(t *testing.T) {
	f := newEventFixture(t)

	input := eventInput()
	input.Title = nil
	_, err := f.svc.Create(context.Background(), "admin-1", input, nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	input = eventInput()
	input.Category = strPtr("Gala")
	_, err = f.svc.Create(context.Background(), "admin-1", input, nil)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestCreateEventStoresImage(t *testing.T) {
	f := newEventFixture(t)

	event, err := f.svc.Create(context.Background(), "admin-1", eventInput(), &ImageUpload{
		Filename: "banner.png",
		Content:  []byte("png"),
	})
	require.NoError(t, err)
	assert.Contains(t, event.ImageURL, "event_uploads/banner.png")
}

func TestUpdateEventPartialMerge(t *testing.T) {
	f := newEventFixture(t)
	event, err := f.svc.Create(context.Background(), "admin-1", eventInput(), nil)
	require.NoError(t, err)

	updated, err := f.svc.Update(context.Background(), event.ID, EventInput{
		Status: strPtr(string(domain.EventStatusCompleted)),
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusCompleted, updated.Status)
	assert.Equal(t, "Annual Outsourcing Summit", updated.Title)
}

func TestUpdateEventNotFound(t *testing.T) {
	f := newEventFixture(t)

	_, err := f.svc.Update(context.Background(), "missing", eventInput(), nil)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestDeleteEvent(t *testing.T) {
	f := newEventFixture(t)
	event, err := f.svc.Create(context.Background(), "admin-1", eventInput(), nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), event.ID))

	_, err = f.svc.Get(context.Background(), event.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
