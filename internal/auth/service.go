package auth

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/tiendapos/tiendapos/internal/shared"
	"github.com/tiendapos/tiendapos/internal/users"
)

// UserFinder is the slice of the user repository the login flow needs.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*users.User, error)
}

// Service wraps authentication business rules.
type Service struct {
	users   UserFinder
	tokens  *TokenIssuer
	revoker Revoker
}

// NewService constructs a new Service. revoker may be nil, in which case logout
// has no server-side effect.
func NewService(finder UserFinder, tokens *TokenIssuer, revoker Revoker) *Service {
	return &Service{users: finder, tokens: tokens, revoker: revoker}
}

// HashPassword hashes a plain password with bcrypt.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Authenticate validates username/password credentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*users.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the credentials and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (Token, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return Token{}, err
	}
	token, _, err := s.tokens.Issue(user)
	return token, err
}

// Verify turns a raw token into the caller's principal.
func (s *Service) Verify(ctx context.Context, raw string) (*shared.Principal, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.ErrUnauthorized
		}
	}
	p := &shared.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
		TokenID:  claims.ID,
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// Logout revokes the principal's token.
func (s *Service) Logout(ctx context.Context, p *shared.Principal) error {
	if p == nil {
		return shared.ErrUnauthorized
	}
	if s.revoker == nil || p.TokenID == "" {
		return nil
	}
	return s.revoker.Revoke(ctx, p.TokenID, p.ExpiresAt)
}

// IsStorageError reports whether err came from a collaborator rather than from
// the credentials themselves.
func IsStorageError(err error) bool {
	return err != nil && !errors.Is(err, shared.ErrInvalidCredentials) && !errors.Is(err, shared.ErrUnauthorized)
}
