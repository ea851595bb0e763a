package router

import (
	"context"
	"sync"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
)

// store keeps users, movies and bookings in memory behind one lock.
type store struct {
	mu       sync.Mutex
	users    map[string]model.User
	movies   []model.Movie
	bookings []model.Booking
}

func newStore() *store { return &store{users: map[string]model.User{}} }

type userStore struct{ *store }
type movieStore struct{ *store }
type bookingStore struct{ *store }

func (s userStore) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.users {
		if x.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s userStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.users {
		if x.Email == email {
			return x, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (s userStore) GetByID(_ context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.PasswordHash = ""
	return u, nil
}

func (s movieStore) Create(_ context.Context, m *model.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.movies {
		if x.Title == m.Title {
			return repository.ErrDuplicateTitle
		}
	}
	s.movies = append(s.movies, *m)
	return nil
}

func (s movieStore) List(context.Context) ([]model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Movie{}, s.movies...), nil
}

func (s movieStore) GetByID(_ context.Context, id string) (model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.movie(id)
}

func (s *store) movie(id string) (model.Movie, error) {
	for _, m := range s.movies {
		if m.ID == id {
			return m, nil
		}
	}
	return model.Movie{}, repository.ErrNotFound
}

func (s *store) populated(b model.Booking) model.Booking {
	if m, err := s.movie(b.MovieID); err == nil {
		b.Populate(&m)
	} else {
		b.Populate(nil)
	}
	return b
}

func (s bookingStore) Create(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append(s.bookings, *b)
	return nil
}

func (s bookingStore) ListByUser(_ context.Context, userID string) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Booking{}
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, s.populated(b))
		}
	}
	return out, nil
}

func (s bookingStore) ListAll(context.Context) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Booking{}
	for _, b := range s.bookings {
		out = append(out, s.populated(b))
	}
	return out, nil
}

func (s bookingStore) GetByID(_ context.Context, id string) (model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return s.populated(b), nil
		}
	}
	return model.Booking{}, repository.ErrNotFound
}

func (s bookingStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.bookings {
		if b.ID == id {
			s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}
