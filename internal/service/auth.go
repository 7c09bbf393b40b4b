package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userdeck/userdeck/internal/model"
	"github.com/userdeck/userdeck/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrBadSignature       = errors.New("token signature invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrUnknownUser        = errors.New("unknown user")
)

// DefaultTokenTTL is how long issued tokens stay valid unless configured
// otherwise.
const DefaultTokenTTL = 30 * time.Minute

// Identity is the subject embedded in a verified token. It references a user
// as of issuance time; the user may no longer exist.
type Identity struct {
	UserID string
	Email  string
}

// AuthService issues and verifies bearer tokens and authenticates users
// against the store. The signing key is fixed for the process lifetime.
type AuthService struct {
	store  *store.Store
	secret []byte
	ttl    time.Duration
}

// NewAuthService creates an AuthService. A zero ttl falls back to
// DefaultTokenTTL.
func NewAuthService(st *store.Store, secret string, ttl time.Duration) *AuthService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &AuthService{
		store:  st,
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// TokenTTL returns the configured token lifetime.
func (s *AuthService) TokenTTL() time.Duration {
	return s.ttl
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueToken creates a signed token for the given user, valid for the
// configured TTL. Nothing is persisted; validity is determined purely by
// signature and expiry at verification time.
func (s *AuthService) IssueToken(user *model.User) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			Issuer:    "userdeck",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// VerifyToken checks a token's signature and expiry and returns the embedded
// identity. It does not consult the store: a token for a deleted user still
// verifies, and resolution fails separately in ResolveToken.
func (s *AuthService) VerifyToken(tokenStr string) (*Identity, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrBadSignature
		}
	}
	if !token.Valid {
		return nil, ErrBadSignature
	}

	return &Identity{
		UserID: claims.UserID,
		Email:  claims.Subject,
	}, nil
}

// ResolveToken verifies a token and resolves its subject to a live user
// record. Returns ErrUnknownUser if the subject no longer exists.
func (s *AuthService) ResolveToken(ctx context.Context, tokenStr string) (*model.User, error) {
	identity, err := s.VerifyToken(tokenStr)
	if err != nil {
		return nil, err
	}

	user, err := s.store.GetByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	return user, nil
}

// Login authenticates an email/password pair and issues a token. A missing
// user and a wrong password both return ErrInvalidCredentials so the response
// doesn't leak which emails are registered.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !s.store.VerifyPassword(user, password) {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}
