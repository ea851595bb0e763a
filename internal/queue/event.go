// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names, one per booking lifecycle transition.
const (
	BookingCreatedQueue   = "booking.created"
	BookingCancelledQueue = "booking.cancelled"
)

// BookingEvent is published when a booking is created or cancelled.  It
// carries enough detail for downstream consumers to log or notify without
// querying the primary database.
type BookingEvent struct {
	Type            string  `json:"type"`
	BookingID       string  `json:"booking_id"`
	UserID          string  `json:"user_id"`
	MovieID         string  `json:"movie_id"`
	MovieTitle      string  `json:"movie_title,omitempty"`
	Showtime        string  `json:"showtime"`
	NumberOfTickets int     `json:"number_of_tickets"`
	TotalPrice      float64 `json:"total_price"`
	OccurredAt      string  `json:"occurred_at"`
}
