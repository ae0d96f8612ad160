package jwt

import (
	"errors"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims carries the identity-provider claims this service cares about:
// the subject is the opaque user id every other subsystem keys on.
type Claims struct {
	UserID uuid.UUID
	Email  string
}

// Service validates access tokens minted by the external identity
// provider. This service never issues tokens.
type Service interface {
	ValidateToken(tokenString string) (Claims, error)
}

type HMACService struct {
	secret []byte
}

func NewHMACService(secret string) *HMACService {
	return &HMACService{secret: []byte(secret)}
}

func (s *HMACService) ValidateToken(tokenString string) (Claims, error) {
	parsed, err := jwtlib.ParseWithClaims(tokenString, &jwtlib.RegisteredClaims{}, func(t *jwtlib.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwtlib.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrTokenInvalid
	}

	rc, ok := parsed.Claims.(*jwtlib.RegisteredClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrTokenInvalid
	}

	userID, err := uuid.Parse(rc.Subject)
	if err != nil {
		return Claims{}, ErrTokenInvalid
	}

	return Claims{UserID: userID}, nil
}
