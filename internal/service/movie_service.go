package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
)

const (
	MsgMovieNotFound  = "Movie not found"
	MsgInvalidMovieID = "Invalid movie ID format"
	MsgDuplicateTitle = "A movie with this title already exists."
	MsgNegativePrice  = "Ticket price cannot be negative"
)

// MovieInput carries an already validated catalog entry.  TicketPrice has
// been coerced to a number by the transport layer.
type MovieInput struct {
	Title       string
	Genre       string
	Description string
	ImageURL    string
	Duration    string
	Rating      string
	Director    string
	Cast        []string
	Showtimes   []string
	TicketPrice float64
}

// MovieService exposes the catalog.
type MovieService struct {
	movies MovieStore
	now    func() time.Time
}

func NewMovieService(movies MovieStore) *MovieService {
	return &MovieService{movies: movies, now: time.Now}
}

// List returns all movies.
func (s *MovieService) List(ctx context.Context) ([]model.Movie, error) {
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, Internal(err)
	}
	return movies, nil
}

// Get returns one movie by id.
func (s *MovieService) Get(ctx context.Context, id string) (model.Movie, error) {
	if _, err := uuid.Parse(id); err != nil {
		return model.Movie{}, BadRequest(MsgInvalidMovieID)
	}
	m, err := s.movies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Movie{}, NotFound(MsgMovieNotFound)
		}
		return model.Movie{}, Internal(err)
	}
	return m, nil
}

// Add stores a new catalog entry.  Titles are unique.
func (s *MovieService) Add(ctx context.Context, in MovieInput) (model.Movie, error) {
	if in.TicketPrice < 0 {
		return model.Movie{}, Validation(MsgNegativePrice)
	}
	at := s.now().UTC()
	m := model.Movie{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Genre:       strings.TrimSpace(in.Genre),
		Description: in.Description,
		ImageURL:    strings.TrimSpace(in.ImageURL),
		Duration:    strings.TrimSpace(in.Duration),
		Rating:      strings.TrimSpace(in.Rating),
		Director:    strings.TrimSpace(in.Director),
		Cast:        orEmpty(in.Cast),
		Showtimes:   orEmpty(in.Showtimes),
		TicketPrice: in.TicketPrice,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if m.ImageURL == "" {
		m.ImageURL = model.DefaultImageURL
	}
	if err := s.movies.Create(ctx, &m); err != nil {
		if errors.Is(err, repository.ErrDuplicateTitle) {
			return model.Movie{}, Conflict(MsgDuplicateTitle)
		}
		return model.Movie{}, Internal(err)
	}
	return m, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
