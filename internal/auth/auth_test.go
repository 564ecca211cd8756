package auth

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gopkg.in/go-playground/assert.v1"
)

func newTestAuthenticator(t *testing.T, secret string) *Authenticator {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a, err := NewAuthenticator("desk", string(hash), secret, 15*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestLoginAndValidate(t *testing.T) {
	a := newTestAuthenticator(t, "top")

	token, exp, err := a.Login("desk", "s3cret")
	assert.Equal(t, err, nil)
	assert.NotEqual(t, token, "")
	assert.Equal(t, exp.After(time.Now()), true)

	claims, err := a.Validate(token)
	assert.Equal(t, err, nil)
	assert.Equal(t, claims.Subject, "desk")
	assert.Equal(t, claims.Role, "admin")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	a := newTestAuthenticator(t, "top")

	_, _, err := a.Login("desk", "wrong")
	assert.Equal(t, err, ErrInvalidCredentials)

	_, _, err = a.Login("someone", "s3cret")
	assert.Equal(t, err, ErrInvalidCredentials)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuerA := newTestAuthenticator(t, "one")
	issuerB := newTestAuthenticator(t, "two")

	token, _, err := issuerA.Login("desk", "s3cret")
	assert.Equal(t, err, nil)

	_, err = issuerB.Validate(token)
	assert.Equal(t, err, ErrInvalidToken)

	_, err = issuerB.Validate("not-a-token")
	assert.Equal(t, err, ErrInvalidToken)
}

func TestValidateExpired(t *testing.T) {
	a := newTestAuthenticator(t, "top")
	start := time.Now().Add(-time.Hour)
	a.now = func() time.Time { return start }

	token, _, err := a.Login("desk", "s3cret")
	assert.Equal(t, err, nil)

	a.now = time.Now
	_, err = a.Validate(token)
	assert.Equal(t, err, ErrTokenExpired)
}

func TestNewAuthenticatorRequiresSettings(t *testing.T) {
	_, err := NewAuthenticator("", "x", "y", time.Minute)
	assert.NotEqual(t, err, nil)

	_, err = NewAuthenticator("desk", "plain-text", "y", time.Minute)
	assert.NotEqual(t, err, nil)
}
