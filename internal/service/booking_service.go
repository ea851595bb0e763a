package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinebook/internal/model"
	q "github.com/iliyamo/cinebook/internal/queue"
	"github.com/iliyamo/cinebook/internal/repository"
)

const (
	MsgBookingNotFound  = "Booking not found"
	MsgInvalidBookingID = "Invalid booking ID format"
	MsgViewForbidden    = "Not authorized to view this booking"
	MsgDeleteForbidden  = "Not authorized to delete this booking"
	MsgBookingRemoved   = "Booking removed"
	MsgTicketsRequired  = "At least one ticket is required"
	MsgNegativeTotal    = "Total price cannot be negative"
	MsgShowtimeRequired = "Path `showtime` is required."
)

// CreateBookingInput is the client-controlled part of a booking.  The owner
// never comes from here.
type CreateBookingInput struct {
	MovieID         string
	Showtime        string
	NumberOfTickets int
}

// BookingService applies pricing and ownership rules to the ledger.
type BookingService struct {
	bookings  BookingStore
	movies    MovieStore
	publisher Publisher
	now       func() time.Time
}

func NewBookingService(bookings BookingStore, movies MovieStore, publisher Publisher) *BookingService {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	return &BookingService{bookings: bookings, movies: movies, publisher: publisher, now: time.Now}
}

// Create books tickets for callerID.  The total is the movie's ticket price
// times the number of tickets, fixed at creation.  The showtime is stored as
// given.
func (s *BookingService) Create(ctx context.Context, callerID string, in CreateBookingInput) (model.Booking, error) {
	if _, err := uuid.Parse(in.MovieID); err != nil {
		return model.Booking{}, BadRequest(MsgInvalidMovieID)
	}
	movie, err := s.movies.GetByID(ctx, in.MovieID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Booking{}, NotFound(MsgMovieNotFound)
		}
		return model.Booking{}, Internal(err)
	}

	total := movie.TicketPrice * float64(in.NumberOfTickets)
	showtime := strings.TrimSpace(in.Showtime)
	var msgs []string
	if showtime == "" {
		msgs = append(msgs, MsgShowtimeRequired)
	}
	if in.NumberOfTickets < 1 {
		msgs = append(msgs, MsgTicketsRequired)
	}
	if total < 0 {
		msgs = append(msgs, MsgNegativeTotal)
	}
	if err := Validation(msgs...); err != nil {
		return model.Booking{}, err
	}

	at := s.now().UTC()
	b := model.Booking{
		ID:              uuid.NewString(),
		MovieID:         movie.ID,
		Showtime:        showtime,
		NumberOfTickets: in.NumberOfTickets,
		TotalPrice:      total,
		UserID:          callerID,
		BookingDate:     at,
		CreatedAt:       at,
		UpdatedAt:       at,
	}
	if err := s.bookings.Create(ctx, &b); err != nil {
		return model.Booking{}, Internal(err)
	}
	publish(ctx, s.publisher, q.BookingCreatedQueue, bookingEvent("created", b, movie.Title, at))
	return b, nil
}

// ListMine returns the caller's bookings with movies embedded.
func (s *BookingService) ListMine(ctx context.Context, callerID string) ([]model.Booking, error) {
	out, err := s.bookings.ListByUser(ctx, callerID)
	if err != nil {
		return nil, Internal(err)
	}
	return out, nil
}

// ListAll returns the whole ledger with movies embedded.
func (s *BookingService) ListAll(ctx context.Context) ([]model.Booking, error) {
	out, err := s.bookings.ListAll(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return out, nil
}

// GetOne returns a booking owned by callerID.
func (s *BookingService) GetOne(ctx context.Context, callerID, bookingID string) (model.Booking, error) {
	return s.owned(ctx, callerID, bookingID, MsgViewForbidden)
}

// Cancel permanently removes a booking owned by callerID.  Cancelling the
// same booking twice reports NotFound the second time.
func (s *BookingService) Cancel(ctx context.Context, callerID, bookingID string) error {
	b, err := s.owned(ctx, callerID, bookingID, MsgDeleteForbidden)
	if err != nil {
		return err
	}
	if err := s.bookings.Delete(ctx, b.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return NotFound(MsgBookingNotFound)
		}
		return Internal(err)
	}
	title := ""
	if b.Movie != nil {
		title = b.Movie.Title
	}
	publish(ctx, s.publisher, q.BookingCancelledQueue, bookingEvent("cancelled", b, title, s.now().UTC()))
	return nil
}

func (s *BookingService) owned(ctx context.Context, callerID, bookingID, forbidden string) (model.Booking, error) {
	if _, err := uuid.Parse(bookingID); err != nil {
		return model.Booking{}, BadRequest(MsgInvalidBookingID)
	}
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Booking{}, NotFound(MsgBookingNotFound)
		}
		return model.Booking{}, Internal(err)
	}
	if callerID == "" || b.UserID != callerID {
		return model.Booking{}, Forbidden(forbidden)
	}
	return b, nil
}

func bookingEvent(kind string, b model.Booking, title string, at time.Time) q.BookingEvent {
	return q.BookingEvent{
		Type:            kind,
		BookingID:       b.ID,
		UserID:          b.UserID,
		MovieID:         b.MovieID,
		MovieTitle:      title,
		Showtime:        b.Showtime,
		NumberOfTickets: b.NumberOfTickets,
		TotalPrice:      b.TotalPrice,
		OccurredAt:      at.Format(time.RFC3339),
	}
}
