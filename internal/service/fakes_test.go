package service

import (
	"context"
	"sync"

	"github.com/iliyamo/cinebook/internal/model"
	q "github.com/iliyamo/cinebook/internal/queue"
	"github.com/iliyamo/cinebook/internal/repository"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[string]model.User
	err  error
}

func newMemUsers() *memUsers { return &memUsers{byID: map[string]model.User{}} }

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, x := range m.byID {
		if x.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	for _, x := range m.byID {
		if x.Email == email {
			return x, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) GetByID(_ context.Context, id string) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.User{}, m.err
	}
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.PasswordHash = ""
	return u, nil
}

type memMovies struct {
	mu    sync.Mutex
	order []string
	byID  map[string]model.Movie
	err   error
}

func newMemMovies() *memMovies { return &memMovies{byID: map[string]model.Movie{}} }

func (m *memMovies) Create(_ context.Context, mv *model.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, x := range m.byID {
		if x.Title == mv.Title {
			return repository.ErrDuplicateTitle
		}
	}
	m.byID[mv.ID] = *mv
	m.order = append(m.order, mv.ID)
	return nil
}

func (m *memMovies) List(context.Context) ([]model.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Movie, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.byID[id])
	}
	return out, nil
}

func (m *memMovies) GetByID(_ context.Context, id string) (model.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.Movie{}, m.err
	}
	mv, ok := m.byID[id]
	if !ok {
		return model.Movie{}, repository.ErrNotFound
	}
	return mv, nil
}

type memBookings struct {
	mu     sync.Mutex
	order  []string
	byID   map[string]model.Booking
	movies *memMovies
	err    error
}

func newMemBookings(movies *memMovies) *memBookings {
	return &memBookings{byID: map[string]model.Booking{}, movies: movies}
}

func (m *memBookings) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.byID[b.ID] = *b
	m.order = append(m.order, b.ID)
	return nil
}

func (m *memBookings) populate(b model.Booking) model.Booking {
	if mv, err := m.movies.GetByID(context.Background(), b.MovieID); err == nil {
		b.Populate(&mv)
	} else {
		b.Populate(nil)
	}
	return b
}

func (m *memBookings) ListByUser(_ context.Context, userID string) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Booking, 0)
	for _, id := range m.order {
		if b, ok := m.byID[id]; ok && b.UserID == userID {
			out = append(out, m.populate(b))
		}
	}
	return out, nil
}

func (m *memBookings) ListAll(context.Context) ([]model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]model.Booking, 0)
	for _, id := range m.order {
		if b, ok := m.byID[id]; ok {
			out = append(out, m.populate(b))
		}
	}
	return out, nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return model.Booking{}, m.err
	}
	b, ok := m.byID[id]
	if !ok {
		return model.Booking{}, repository.ErrNotFound
	}
	return m.populate(b), nil
}

func (m *memBookings) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type event struct {
	queue string
	ev    q.BookingEvent
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []event
	err    error
}

func (p *recordingPublisher) PublishBooking(_ context.Context, queue string, ev q.BookingEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event{queue, ev})
	return p.err
}
