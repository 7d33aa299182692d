package domain

import "time"

// EventCategory classifies events.
type EventCategory string

const (
	EventCategoryWorkshop   EventCategory = "Workshop"
	EventCategorySeminar    EventCategory = "Seminar"
	EventCategoryConference EventCategory = "Conference"
	EventCategoryWebinar    EventCategory = "Webinar"
	EventCategoryOther      EventCategory = "Other"
)

// ValidEventCategory reports membership in the closed category set.
func ValidEventCategory(c EventCategory) bool {
	switch c {
	case EventCategoryWorkshop, EventCategorySeminar, EventCategoryConference, EventCategoryWebinar, EventCategoryOther:
		return true
	}
	return false
}

// EventStatus tracks where an event sits on the calendar.
type EventStatus string

const (
	EventStatusUpcoming   EventStatus = "Upcoming"
	EventStatusInProgress EventStatus = "InProgress"
	EventStatusCompleted  EventStatus = "Completed"
	EventStatusPast       EventStatus = "Past"
)

// Event is an association event listing.
type Event struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Location    string
	ImageURL    string
	Category    EventCategory
	Status      EventStatus
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
