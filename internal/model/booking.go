package model

import (
	"encoding/json"
	"time"
)

// Booking records a user's tickets for one showtime of a movie.  TotalPrice
// is fixed when the booking is created and never recomputed.
//
// MovieID is always set.  Movie is set only when the reference has been
// resolved, in which case the JSON form embeds the whole movie under "movie";
// otherwise "movie" carries the id string.
type Booking struct {
	ID              string
	MovieID         string
	Movie           *Movie
	Showtime        string
	NumberOfTickets int
	TotalPrice      float64
	UserID          string
	BookingDate     time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// populated distinguishes a resolved reference whose movie has since
	// disappeared (encoded as null) from an unresolved one (encoded as id).
	populated bool
}

// Populate attaches the resolved movie.  A nil movie marks a dangling reference.
func (b *Booking) Populate(m *Movie) {
	b.Movie = m
	b.populated = true
}

type bookingJSON struct {
	ID              string          `json:"id"`
	Movie           json.RawMessage `json:"movie"`
	Showtime        string          `json:"showtime"`
	NumberOfTickets int             `json:"numberOfTickets"`
	TotalPrice      float64         `json:"totalPrice"`
	User            string          `json:"user"`
	BookingDate     time.Time       `json:"bookingDate"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// MarshalJSON renders the booking with the movie reference either embedded
// or as its id.
func (b Booking) MarshalJSON() ([]byte, error) {
	var (
		movie []byte
		err   error
	)
	switch {
	case b.Movie != nil:
		movie, err = json.Marshal(b.Movie)
	case b.populated:
		movie = []byte("null")
	default:
		movie, err = json.Marshal(b.MovieID)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(bookingJSON{
		ID:              b.ID,
		Movie:           movie,
		Showtime:        b.Showtime,
		NumberOfTickets: b.NumberOfTickets,
		TotalPrice:      b.TotalPrice,
		User:            b.UserID,
		BookingDate:     b.BookingDate,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	})
}
