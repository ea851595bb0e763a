package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/cinebook/internal/model"
)

// BookingRepo is the ledger of bookings.  Reads resolve the movie reference
// with a LEFT JOIN so a booking whose movie has vanished is still returned,
// with a nil movie.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to db.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts b as given; the caller has already computed the price and
// stamped the owner and timestamps.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (id, movie_id, user_id, showtime, number_of_tickets, total_price, booking_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q,
		b.ID, b.MovieID, b.UserID, b.Showtime, b.NumberOfTickets, b.TotalPrice, b.BookingDate, b.CreatedAt, b.UpdatedAt)
	return err
}

const bookingSelect = `SELECT b.id, b.movie_id, b.user_id, b.showtime, b.number_of_tickets, b.total_price,
		b.booking_date, b.created_at, b.updated_at,
		m.id, m.title, m.genre, m.description, m.image_url, m.duration, m.rating, m.director,
		m.cast_members, m.showtimes, m.ticket_price, m.created_at, m.updated_at
	FROM bookings b
	LEFT JOIN movies m ON m.id = b.movie_id`

// ListByUser returns the bookings owned by userID with movies resolved.
func (r *BookingRepo) ListByUser(ctx context.Context, userID string) ([]model.Booking, error) {
	return r.list(ctx, bookingSelect+` WHERE b.user_id = ? ORDER BY b.created_at, b.id`, userID)
}

// ListAll returns the whole ledger with movies resolved.
func (r *BookingRepo) ListAll(ctx context.Context) ([]model.Booking, error) {
	return r.list(ctx, bookingSelect+` ORDER BY b.created_at, b.id`)
}

// GetByID fetches one booking with its movie resolved, or ErrNotFound.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (model.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, bookingSelect+` WHERE b.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Booking{}, ErrNotFound
	}
	return b, err
}

// Delete removes the booking permanently.  Deleting an id that is not in the
// ledger yields ErrNotFound.
func (r *BookingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *BookingRepo) list(ctx context.Context, q string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func scanBooking(s scanner) (model.Booking, error) {
	var (
		b  model.Booking
		mv struct {
			ID, Title, Genre, Description, ImageURL sql.NullString
			Duration, Rating, Director              sql.NullString
			Cast, Showtimes                         []byte
			TicketPrice                             sql.NullFloat64
			CreatedAt, UpdatedAt                    sql.NullTime
		}
	)
	err := s.Scan(&b.ID, &b.MovieID, &b.UserID, &b.Showtime, &b.NumberOfTickets, &b.TotalPrice,
		&b.BookingDate, &b.CreatedAt, &b.UpdatedAt,
		&mv.ID, &mv.Title, &mv.Genre, &mv.Description, &mv.ImageURL, &mv.Duration, &mv.Rating, &mv.Director,
		&mv.Cast, &mv.Showtimes, &mv.TicketPrice, &mv.CreatedAt, &mv.UpdatedAt)
	if err != nil {
		return model.Booking{}, err
	}
	if !mv.ID.Valid {
		b.Populate(nil)
		return b, nil
	}
	m := &model.Movie{
		ID:          mv.ID.String,
		Title:       mv.Title.String,
		Genre:       mv.Genre.String,
		Description: mv.Description.String,
		ImageURL:    mv.ImageURL.String,
		Duration:    mv.Duration.String,
		Rating:      mv.Rating.String,
		Director:    mv.Director.String,
		TicketPrice: mv.TicketPrice.Float64,
		CreatedAt:   nullTime(mv.CreatedAt),
		UpdatedAt:   nullTime(mv.UpdatedAt),
	}
	if err := decodeList(mv.Cast, &m.Cast); err != nil {
		return model.Booking{}, err
	}
	if err := decodeList(mv.Showtimes, &m.Showtimes); err != nil {
		return model.Booking{}, err
	}
	b.Populate(m)
	return b, nil
}

func nullTime(t sql.NullTime) time.Time {
	if t.Valid {
		return t.Time
	}
	return time.Time{}
}
