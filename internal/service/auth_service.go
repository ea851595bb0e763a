package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinebook/internal/model"
	"github.com/iliyamo/cinebook/internal/repository"
	"github.com/iliyamo/cinebook/internal/utils"
)

// Messages returned to clients by the authentication flow.
const (
	MsgEmailTaken        = "User with that email already exists"
	MsgEmailTakenRace    = "A user with this email already exists."
	MsgInvalidLogin      = "Invalid email or password"
	MsgNoToken           = "Not authorized, no token"
	MsgTokenFailed       = "Not authorized, token failed"
	MsgTokenUserNotFound = "Not authorized, user not found"
)

// RegisterInput carries an already validated registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult is a user together with a freshly issued bearer token.
type AuthResult struct {
	User  model.User
	Token string
}

// AuthService registers users, checks credentials and resolves bearer tokens
// to users.
type AuthService struct {
	users  UserStore
	hasher Hasher
	tokens Tokens
	now    func() time.Time
}

func NewAuthService(users UserStore, hasher Hasher, tokens Tokens) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, now: time.Now}
}

// Register hashes the password and stores a new user, then issues a token
// for it.  The password is hashed exactly here, before the write.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	switch _, err := s.users.GetByEmail(ctx, email); {
	case err == nil:
		return AuthResult{}, Conflict(MsgEmailTaken)
	case !errors.Is(err, repository.ErrNotFound):
		return AuthResult{}, Internal(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return AuthResult{}, Validation("Password must be at most 72 bytes long")
		}
		return AuthResult{}, Internal(err)
	}

	at := s.now().UTC()
	u := model.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    at,
		UpdatedAt:    at,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return AuthResult{}, Conflict(MsgEmailTakenRace)
		}
		return AuthResult{}, Internal(err)
	}
	return s.issue(u)
}

// Login checks email and password and issues a token.  Unknown emails and
// wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return AuthResult{}, Unauthorized(MsgInvalidLogin)
		}
		return AuthResult{}, Internal(err)
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return AuthResult{}, Unauthorized(MsgInvalidLogin)
	}
	return s.issue(u)
}

// Authenticate resolves a raw bearer token to the user it names, without the
// password hash.  A valid token whose user no longer exists is rejected.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (model.User, error) {
	id, err := s.tokens.Verify(raw)
	if err != nil {
		return model.User{}, &Error{Kind: KindUnauthorized, Message: MsgTokenFailed, Err: err}
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, Unauthorized(MsgTokenUserNotFound)
		}
		return model.User{}, Internal(err)
	}
	u.PasswordHash = ""
	return u, nil
}

func (s *AuthService) issue(u model.User) (AuthResult, error) {
	tok, err := s.tokens.Issue(u.ID)
	if err != nil {
		return AuthResult{}, Internal(err)
	}
	u.PasswordHash = ""
	return AuthResult{User: u, Token: tok}, nil
}
