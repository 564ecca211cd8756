package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrTokenExpired       = errors.New("token has expired")
	ErrInvalidToken       = errors.New("invalid token")
)

const issuer = "expo-desk"

type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator checks the single configured admin account and issues
// short-lived bearer tokens for it.
type Authenticator struct {
	username     string
	passwordHash []byte
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

func NewAuthenticator(username, passwordHash, secret string, ttl time.Duration) (*Authenticator, error) {
	if username == "" || passwordHash == "" || secret == "" {
		return nil, errors.New("admin username, password hash and jwt secret are required")
	}
	if _, err := bcrypt.Cost([]byte(passwordHash)); err != nil {
		return nil, fmt.Errorf("admin password hash is not a bcrypt hash: %w", err)
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	return &Authenticator{
		username:     username,
		passwordHash: []byte(passwordHash),
		secret:       []byte(secret),
		ttl:          ttl,
		now:          time.Now,
	}, nil
}

// Login verifies the credentials and returns a signed token with its expiry.
func (a *Authenticator) Login(username, password string) (string, time.Time, error) {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := a.now()
	exp := now.Add(a.ttl)
	claims := Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   a.username,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return token, exp, nil
}

func (a *Authenticator) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Role != "admin" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
