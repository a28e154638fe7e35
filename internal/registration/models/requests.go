package models

import s "campushub/pkg/string"

// CreateEventRequest carries the inputs for publishing a new event.
type CreateEventRequest struct {
	Title       string `json:"title" validate:"required,notblank,max=200"`
	Club        string `json:"club" validate:"required,notblank,max=120"`
	Category    string `json:"category" validate:"required,notblank,max=60"`
	Date        string `json:"date" validate:"required"`
	Venue       string `json:"venue" validate:"required,notblank,max=200"`
	Capacity    int    `json:"capacity" validate:"required,gt=0,lte=10000"`
	Description string `json:"description" validate:"max=2000"`
	Organizer   string `json:"organizer" validate:"max=120"`
}

func (r *CreateEventRequest) Normalize() {
	s.TrimStrings(&r.Title, &r.Club, &r.Category, &r.Date, &r.Venue, &r.Description, &r.Organizer)
}
