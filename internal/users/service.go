package users

import (
	"context"
)

// PasswordHasher turns a plain password into a storable hash.
type PasswordHasher func(plain string) (string, error)

// Service handles user account rules on top of the repository.
type Service struct {
	repo *Repository
	hash PasswordHasher
}

// NewService builds Service instance.
func NewService(repo *Repository, hash PasswordHasher) *Service {
	return &Service{repo: repo, hash: hash}
}

// Repository exposes the underlying repository.
func (s *Service) Repository() *Repository {
	return s.repo
}

// Register hashes the password and creates the account.
func (s *Service) Register(ctx context.Context, username, password, role string) (*User, error) {
	hashed, err := s.hash(password)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, Insert{Username: username, Password: hashed, Role: role})
}

// Edit updates username, role and, when set, the password of an account.
func (s *Service) Edit(ctx context.Context, id int64, username, password, role *string) (*User, error) {
	in := Update{ID: id, Username: username, Role: role}
	if password != nil {
		hashed, err := s.hash(*password)
		if err != nil {
			return nil, err
		}
		in.Password = &hashed
	}
	return s.repo.Update(ctx, in)
}

// ChangePassword rotates the password of an account and reports whether it exists.
func (s *Service) ChangePassword(ctx context.Context, id int64, password string) (bool, error) {
	hashed, err := s.hash(password)
	if err != nil {
		return false, err
	}
	return s.repo.UpdatePassword(ctx, id, hashed)
}
