package models

import "time"

// This file contains transport-layer response models for JSON output.
// These are shaped for API responses and should avoid domain behavior.

// EventResponse is the API shape of an event, with the status derived at
// serialization time.
type EventResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Club        string    `json:"club"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
	Venue       string    `json:"venue"`
	Capacity    int       `json:"capacity"`
	Registered  int       `json:"registered"`
	Status      string    `json:"status"`
	Description string    `json:"description,omitempty"`
	Organizer   string    `json:"organizer,omitempty"`
}

// NewEventResponse converts an event to its API shape as of now.
func NewEventResponse(e *Event, now time.Time) EventResponse {
	return EventResponse{
		ID:          e.ID.String(),
		Title:       e.Title,
		Club:        e.Club,
		Category:    e.Category,
		Date:        e.Date,
		Venue:       e.Venue,
		Capacity:    e.Capacity,
		Registered:  e.Registered,
		Status:      string(e.Status(now)),
		Description: e.Description,
		Organizer:   e.Organizer,
	}
}

// RegistrationResponse is the API shape of a registration.
type RegistrationResponse struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	StudentID   string    `json:"student_id"`
	StudentName string    `json:"student_name"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewRegistrationResponse converts a registration to its API shape.
func NewRegistrationResponse(r *Registration) RegistrationResponse {
	return RegistrationResponse{
		ID:          r.ID.String(),
		EventID:     r.EventID.String(),
		StudentID:   r.StudentID.String(),
		StudentName: r.StudentName,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
	}
}

// ClubResponse is the API shape of a club catalog entry.
type ClubResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Members     int    `json:"members"`
}

// NewClubResponse converts a club to its API shape.
func NewClubResponse(c *Club) ClubResponse {
	return ClubResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Category:    c.Category,
		Description: c.Description,
		Members:     c.Members,
	}
}
