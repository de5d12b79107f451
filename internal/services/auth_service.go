package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"edeng/internal/domain"
	"edeng/internal/repos"
)

var ErrBadCreds = errors.New("invalid username or password")

// UserStore is the slice of the data access shim auth needs.
// *repos.UserRepo satisfies it.
type UserStore interface {
	ByID(ctx context.Context, id string) (*domain.User, error)
	ByUsername(ctx context.Context, username string) (*domain.User, error)
	Insert(ctx context.Context, u domain.User) (domain.User, error)
	Update(ctx context.Context, u domain.User) error
}

type AuthService struct {
	Users UserStore

	adminUser []byte
	adminPass []byte
	secret    []byte
	ttl       time.Duration
}

func NewAuthService(users UserStore, adminUser, adminPass, secret string, ttlMin int) *AuthService {
	return &AuthService{
		Users:     users,
		adminUser: []byte(adminUser),
		adminPass: []byte(adminPass),
		secret:    []byte(secret),
		ttl:       time.Duration(ttlMin) * time.Minute,
	}
}

// CheckLogin accepts the configured admin pair or a stored user with a
// matching password hash.
func (s *AuthService) CheckLogin(ctx context.Context, username, password string) (*domain.Identity, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), s.adminUser)
	passOK := subtle.ConstantTimeCompare([]byte(password), s.adminPass)
	if len(s.adminUser) > 0 && userOK == 1 && passOK == 1 {
		return &domain.Identity{ID: "admin", Fullname: "Admin User", IsAdmin: true}, nil
	}

	if s.Users != nil {
		u, err := s.Users.ByUsername(ctx, username)
		if err == nil && bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) == nil {
			return &domain.Identity{ID: u.ID.Hex(), Fullname: u.Fullname}, nil
		}
	}
	return nil, ErrBadCreds
}

func (s *AuthService) Signup(ctx context.Context, username, password, fullname string) (*domain.Identity, error) {
	if _, err := s.Users.ByUsername(ctx, username); err == nil {
		return nil, fmt.Errorf("username %q taken: %w", username, ErrBadCreds)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.Users.Insert(ctx, domain.User{Username: username, Fullname: fullname, Hash: string(hash)})
	if err != nil {
		return nil, err
	}
	return &domain.Identity{ID: u.ID.Hex(), Fullname: u.Fullname}, nil
}

func (s *AuthService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Users.ByID(ctx, id)
	if errors.Is(err, repos.ErrNoDocument) {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return u, err
}

// UpdateUser patches a stored account's profile fields. The fixed
// admin identity has no stored document and passes through unchanged.
func (s *AuthService) UpdateUser(ctx context.Context, caller *domain.Identity, fullname string) (*domain.Identity, error) {
	if caller.IsAdmin {
		return caller, nil
	}
	u, err := s.Users.ByID(ctx, caller.ID)
	if errors.Is(err, repos.ErrNoDocument) {
		return nil, fmt.Errorf("user %s: %w", caller.ID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if fullname != "" {
		u.Fullname = fullname
	}
	if err := s.Users.Update(ctx, *u); err != nil {
		return nil, err
	}
	return &domain.Identity{ID: u.ID.Hex(), Fullname: u.Fullname}, nil
}

type sessionClaims struct {
	Fullname string `json:"fullname"`
	IsAdmin  bool   `json:"isAdmin,omitempty"`
	jwt.RegisteredClaims
}

// GetLoginToken issues a signed, time-bounded token carrying the
// identity. The token is the entire session; nothing is stored.
func (s *AuthService) GetLoginToken(id *domain.Identity) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Fullname: id.Fullname,
		IsAdmin:  id.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ValidateToken reconstructs the identity from a cookie value. Any
// signature, parse, or expiry failure means "no session", never an
// error.
func (s *AuthService) ValidateToken(token string) *domain.Identity {
	if token == "" {
		return nil
	}
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return nil
	}
	return &domain.Identity{ID: claims.Subject, Fullname: claims.Fullname, IsAdmin: claims.IsAdmin}
}
