package account

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gym-insights/backend/internal/utils"
)

const minPasswordLen = 8

type Service struct {
	repo *Repo
	ttl  time.Duration
}

func NewService(repo *Repo, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &Service{repo: repo, ttl: sessionTTL}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*Account, error) {
	in.Trim()
	email := utils.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrBadRequest)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrBadRequest, minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         in.Name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateAccount(ctx, a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Login verifies the password and opens a new cookie session.
func (s *Service) Login(ctx context.Context, in LoginInput) (*Session, *Account, error) {
	in.Trim()
	email := utils.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, nil, fmt.Errorf("%w: email and password are required", ErrBadRequest)
	}

	a, err := s.repo.GetAccountByEmail(ctx, email)
	if IsErrNotFound(err) {
		return nil, nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}
	if err != nil {
		return nil, nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(in.Password)) != nil {
		return nil, nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	now := time.Now().UTC()
	sess := Session{
		Token:     uuid.NewString(),
		AccountID: a.ID,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.repo.CreateSession(ctx, sess); err != nil {
		return nil, nil, err
	}
	return &sess, a, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: missing session token", ErrBadRequest)
	}
	return s.repo.DeleteSession(ctx, token)
}

// Authenticate resolves a cookie token to its account. Expired sessions are
// removed on sight.
func (s *Service) Authenticate(ctx context.Context, token string) (*Account, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: missing session token", ErrUnauthorized)
	}

	sess, err := s.repo.GetSession(ctx, token)
	if IsErrNotFound(err) {
		return nil, fmt.Errorf("%w: invalid session", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}

	if sess.Expired(time.Now().UTC()) {
		_ = s.repo.DeleteSession(ctx, token)
		return nil, fmt.Errorf("%w: session expired", ErrUnauthorized)
	}

	a, err := s.repo.GetAccountByID(ctx, sess.AccountID)
	if IsErrNotFound(err) {
		return nil, fmt.Errorf("%w: account gone", ErrUnauthorized)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}
