// Package models defines the event, registration and club entities of the
// activity catalog, together with the status machines that govern them.
package models

import (
	"time"

	id "campushub/pkg/domain"
)

// EventStatus is derived from an event's date and occupancy, never stored.
type EventStatus string

const (
	EventUpcoming EventStatus = "upcoming"
	EventFull     EventStatus = "full"
	EventPast     EventStatus = "past"
)

// Event is a scheduled activity with a fixed seat capacity. Registered counts
// seats consumed by pending and approved registrations only; waitlisted
// entries hold no seat.
type Event struct {
	ID          id.EventID
	Title       string
	Club        string
	Category    string
	Date        time.Time
	Venue       string
	Capacity    int
	Registered  int
	Description string
	Organizer   string
	CreatedAt   time.Time
}

// Status derives the event state at the given instant. A past date wins over
// occupancy; otherwise the event is full exactly when every seat is taken.
func (e *Event) Status(now time.Time) EventStatus {
	if e.Date.Before(now) {
		return EventPast
	}
	if e.Registered >= e.Capacity {
		return EventFull
	}
	return EventUpcoming
}

// HasSeat reports whether a new registration can take a counted seat.
func (e *Event) HasSeat() bool {
	return e.Registered < e.Capacity
}

// RegistrationStatus is the lifecycle state of a registration.
type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "pending"
	StatusApproved  RegistrationStatus = "approved"
	StatusWaitlist  RegistrationStatus = "waitlist"
	StatusRejected  RegistrationStatus = "rejected"
	StatusCancelled RegistrationStatus = "cancelled"
)

// Counted reports whether the status consumes a seat in Event.Registered.
func (s RegistrationStatus) Counted() bool {
	return s == StatusPending || s == StatusApproved
}

// Active reports whether the status blocks the same student from registering
// again for the same event. Only a cancelled registration frees the pair.
func (s RegistrationStatus) Active() bool {
	return s != StatusCancelled
}

// Registration ties a student to an event in one lifecycle state. The email
// is snapshotted at registration time so status updates can be delivered
// without a lookup against the identity store.
type Registration struct {
	ID           id.RegistrationID
	EventID      id.EventID
	StudentID    id.StudentID
	StudentName  string
	StudentEmail string
	Status       RegistrationStatus
	CreatedAt    time.Time
}

// Club is a read-only catalog entry; events reference clubs by name.
type Club struct {
	ID          id.ClubID
	Name        string
	Category    string
	Description string
	Members     int
}
