package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

const supabaseAudience = "authenticated"

var ErrSessionInvalid = errors.New("invalid session")

// SessionClaims is the subset of a Supabase access token the dashboard relies on.
type SessionClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Session is the authenticated user resolved from a request.
type Session struct {
	UserID string
	Email  string
}

// SessionVerifier validates Supabase-issued access tokens locally with the project's JWT secret.
type SessionVerifier struct {
	secret []byte
}

func NewSessionVerifier(jwtSecret string) *SessionVerifier {
	return &SessionVerifier{secret: []byte(jwtSecret)}
}

func (v *SessionVerifier) Verify(tokenString string) (*Session, error) {
	if len(v.secret) == 0 {
		return nil, fmt.Errorf("%w: jwt secret is not configured", ErrSessionInvalid)
	}

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithAudience(supabaseAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSessionInvalid, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrSessionInvalid
	}

	return &Session{UserID: claims.Subject, Email: claims.Email}, nil
}
