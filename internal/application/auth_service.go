package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-auth-service/internal/domain/entity"
	repo "go-auth-service/internal/domain/repository"
	"go-auth-service/pkg/apperr"
	"go-auth-service/pkg/hashing"
	"go-auth-service/pkg/token"
)

// Credential-issuing flows answer unknown email and wrong password with the
// same message so callers cannot probe which accounts exist.
const (
	msgInvalidCredentials = "invalid email or password"
	msgDuplicateAccount   = "account with this email or username already exists"
)

// Service orchestrates registration, login and account management, composing
// the repository, password hasher and token manager.
type Service struct {
	Repo   repo.UserRepository
	Hasher *hashing.Hasher
	Tokens *token.Manager
	Logger *logrus.Logger
}

func NewService(r repo.UserRepository, hasher *hashing.Hasher, tokens *token.Manager, logger *logrus.Logger) *Service {
	return &Service{Repo: r, Hasher: hasher, Tokens: tokens, Logger: logger}
}

// Register creates a new account and issues its first token. The existence
// pre-check and the insert are not atomic; the unique constraint surfaces a
// concurrent duplicate as ErrDuplicate, which maps to the same conflict.
func (s *Service) Register(ctx context.Context, email, username, password string) (*entity.User, string, error) {
	existing, err := s.Repo.FindByEmailOrUsername(ctx, email, username)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return nil, "", apperr.Database("check existing account", err)
	}
	if existing != nil {
		s.log().WithField("email", email).Debug("registration rejected: account exists")
		return nil, "", apperr.BadRequest(msgDuplicateAccount)
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, "", apperr.Internal("hash password", err)
	}

	u := &entity.User{Email: email, Username: username, PasswordHash: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, "", apperr.BadRequest(msgDuplicateAccount)
		}
		return nil, "", apperr.Database("create user", err)
	}
	s.log().WithField("user_id", u.ID).Info("user registered")

	tok, err := s.Tokens.Issue(u.ID, u.Email, u.Username)
	if err != nil {
		return nil, "", apperr.Internal("issue token", err)
	}
	return u, tok, nil
}

// Login authenticates by email and password and issues a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	u, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			s.log().WithField("email", email).Debug("login rejected: unknown email")
			return nil, "", apperr.Unauthorized(msgInvalidCredentials)
		}
		return nil, "", apperr.Database("find user by email", err)
	}

	ok, err := s.Hasher.Verify(password, u.PasswordHash)
	if err != nil {
		// Unparseable stored hash is server data corruption, not bad input.
		return nil, "", apperr.Internal("verify password", err)
	}
	if !ok {
		s.log().WithField("user_id", u.ID).Debug("login rejected: password mismatch")
		return nil, "", apperr.Unauthorized(msgInvalidCredentials)
	}

	tok, err := s.Tokens.Issue(u.ID, u.Email, u.Username)
	if err != nil {
		return nil, "", apperr.Internal("issue token", err)
	}
	s.log().WithField("user_id", u.ID).Info("user logged in")
	return u, tok, nil
}

// GetUserByID resolves an account from a string-encoded UUID.
func (s *Service) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.BadRequest("invalid user id")
	}
	u, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Database("find user by id", err)
	}
	return u, nil
}

// ChangePassword verifies the current password and replaces the stored hash.
func (s *Service) ChangePassword(ctx context.Context, id, currentPassword, newPassword string) error {
	u, err := s.GetUserByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.Hasher.Verify(currentPassword, u.PasswordHash)
	if err != nil {
		return apperr.Internal("verify password", err)
	}
	if !ok {
		return apperr.Unauthorized(msgInvalidCredentials)
	}

	hash, err := s.Hasher.Hash(newPassword)
	if err != nil {
		return apperr.Internal("hash password", err)
	}
	if err := s.Repo.UpdatePassword(ctx, id, hash); err != nil {
		return apperr.Database("update password", err)
	}
	s.log().WithField("user_id", id).Info("password changed")
	return nil
}

// DeleteAccount removes the account permanently.
func (s *Service) DeleteAccount(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Database("delete user", err)
	}
	s.log().WithField("user_id", id).Info("account deleted")
	return nil
}

// ListUsers returns one page of accounts plus the total count.
func (s *Service) ListUsers(ctx context.Context, limit, offset int64) ([]*entity.User, int64, error) {
	users, total, err := s.Repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, apperr.Database("list users", err)
	}
	return users, total, nil
}

func (s *Service) log() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}
