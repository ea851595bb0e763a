package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iliyamo/cinebook/internal/model"
)

// MovieRepo persists the catalog.  Cast and showtimes are stored as JSON
// arrays so that their order survives the round trip.
type MovieRepo struct {
	db *sql.DB
}

// NewMovieRepo returns a MovieRepo bound to db.
func NewMovieRepo(db *sql.DB) *MovieRepo { return &MovieRepo{db: db} }

const movieColumns = "id, title, genre, description, image_url, duration, rating, director, cast_members, showtimes, ticket_price, created_at, updated_at"

// Create inserts m.  A title already present in the catalog yields
// ErrDuplicateTitle.
func (r *MovieRepo) Create(ctx context.Context, m *model.Movie) error {
	cast, err := json.Marshal(nonNil(m.Cast))
	if err != nil {
		return err
	}
	showtimes, err := json.Marshal(nonNil(m.Showtimes))
	if err != nil {
		return err
	}
	const q = `INSERT INTO movies (` + movieColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q,
		m.ID, m.Title, m.Genre, m.Description, m.ImageURL, m.Duration, m.Rating, m.Director,
		cast, showtimes, m.TicketPrice, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicateTitle
		}
		return err
	}
	return nil
}

// List returns every movie in storage order.
func (r *MovieRepo) List(ctx context.Context) ([]model.Movie, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+movieColumns+` FROM movies ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// GetByID fetches one movie or returns ErrNotFound.
func (r *MovieRepo) GetByID(ctx context.Context, id string) (model.Movie, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+movieColumns+` FROM movies WHERE id = ?`, id)
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Movie{}, ErrNotFound
	}
	return m, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(s scanner) (model.Movie, error) {
	var (
		m               model.Movie
		cast, showtimes []byte
	)
	if err := s.Scan(&m.ID, &m.Title, &m.Genre, &m.Description, &m.ImageURL, &m.Duration, &m.Rating,
		&m.Director, &cast, &showtimes, &m.TicketPrice, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return model.Movie{}, err
	}
	if err := decodeList(cast, &m.Cast); err != nil {
		return model.Movie{}, fmt.Errorf("movie %s cast: %w", m.ID, err)
	}
	if err := decodeList(showtimes, &m.Showtimes); err != nil {
		return model.Movie{}, fmt.Errorf("movie %s showtimes: %w", m.ID, err)
	}
	return m, nil
}

func decodeList(raw []byte, dst *[]string) error {
	*dst = []string{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
