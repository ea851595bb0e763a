package service

import (
	"context"

	"github.com/iliyamo/cinebook/internal/model"
)

// The service layer depends on these narrow views of the repositories.

// UserStore is the credential store.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// MovieStore is the catalog.
type MovieStore interface {
	Create(ctx context.Context, m *model.Movie) error
	List(ctx context.Context) ([]model.Movie, error)
	GetByID(ctx context.Context, id string) (model.Movie, error)
}

// BookingStore is the ledger.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	ListByUser(ctx context.Context, userID string) ([]model.Booking, error)
	ListAll(ctx context.Context) ([]model.Booking, error)
	GetByID(ctx context.Context, id string) (model.Booking, error)
	Delete(ctx context.Context, id string) error
}

// Hasher hashes and checks passwords.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// Tokens issues and verifies bearer tokens.
type Tokens interface {
	Issue(userID string) (string, error)
	Verify(raw string) (string, error)
}
