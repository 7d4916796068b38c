package models

import "time"

// ClassStatus is the state of a single session.
type ClassStatus string

const (
	ClassScheduled ClassStatus = "SCHEDULED"
	ClassCompleted ClassStatus = "COMPLETED"
	ClassCancelled ClassStatus = "CANCELLED"
)

// Class is one teaching session of a cohort.
type Class struct {
	ID              string      `json:"id"`
	CohortID        string      `json:"cohortId"`
	InstructorID    string      `json:"instructorId,omitempty"`
	Title           string      `json:"title"`
	Description     string      `json:"description,omitempty"`
	ScheduledAt     time.Time   `json:"scheduledAt"`
	DurationMinutes int         `json:"durationMinutes"`
	Location        string      `json:"location,omitempty"`
	MeetingURL      string      `json:"meetingUrl,omitempty"`
	Status          ClassStatus `json:"status"`
	Timestamps
}

func (Class) Header() []string {
	return []string{"ID", "TITLE", "SCHEDULED", "MINUTES", "STATUS"}
}

func (c Class) Row() []string {
	return []string{c.ID, c.Title, formatTime(c.ScheduledAt), itoa(c.DurationMinutes), string(c.Status)}
}

// CreateClassRequest is the body of POST /classes.
type CreateClassRequest struct {
	CohortID        string    `json:"cohortId"`
	InstructorID    string    `json:"instructorId,omitempty"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
	Location        string    `json:"location,omitempty"`
	MeetingURL      string    `json:"meetingUrl,omitempty"`
}

// UpdateClassRequest is the body of PATCH /classes/:id.
type UpdateClassRequest struct {
	InstructorID    *string    `json:"instructorId,omitempty"`
	Title           *string    `json:"title,omitempty"`
	Description     *string    `json:"description,omitempty"`
	ScheduledAt     *time.Time `json:"scheduledAt,omitempty"`
	DurationMinutes *int       `json:"durationMinutes,omitempty"`
	Location        *string    `json:"location,omitempty"`
	MeetingURL      *string    `json:"meetingUrl,omitempty"`
}

// ClassFilters narrows GET /classes.
type ClassFilters struct {
	ListParams
	CohortID     string      `query:"cohortId"`
	InstructorID string      `query:"instructorId"`
	Status       ClassStatus `query:"status"`
	From         *time.Time  `query:"from"`
	To           *time.Time  `query:"to"`
}
