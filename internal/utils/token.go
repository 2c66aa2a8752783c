// Package utils provides the signed tokens behind the passwordless login
// flow: the short-lived magic-link token embedded in the emailed URL and
// the longer-lived session token carried in a cookie.  Both are HS256
// JWTs signed with the application secret; possession of a valid link
// token is the proof that the bearer controls the email address.
package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie the session token travels in.
const SessionCookieName = "seat_session"

// Token scopes keep the two token kinds from being swapped: a login link
// can never pass as a session and vice versa.
const (
	scopeLogin   = "login"
	scopeSession = "session"
)

// ErrInvalidToken is returned when a token fails signature, expiry or
// scope validation.  Callers should treat it as "start over at step one".
var ErrInvalidToken = errors.New("invalid token")

// SessionToken is a signed session JWT along with its expiry, used to set
// the cookie's lifetime.
type SessionToken struct {
	Token string
	Exp   time.Time
}

// NewLoginToken signs a magic-link token binding an email address to one
// lecture.  Claims: sub (email), lec (lecture), scope, exp and iat.  The
// TTL is short (minutes); the link is meant to be clicked right away.
func NewLoginToken(secret, email, lecture string, ttlMin int) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   email,
		"lec":   lecture,
		"scope": scopeLogin,
		"exp":   now.Add(time.Duration(ttlMin) * time.Minute).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseLoginToken validates a magic-link token and returns the email and
// lecture it was issued for.
func ParseLoginToken(secret, raw string) (email, lecture string, err error) {
	claims, err := parse(secret, raw, scopeLogin)
	if err != nil {
		return "", "", err
	}
	email, _ = claims["sub"].(string)
	lecture, _ = claims["lec"].(string)
	if email == "" || lecture == "" {
		return "", "", ErrInvalidToken
	}
	return email, lecture, nil
}

// NewSessionToken signs a session JWT for a verified identity.  Claims:
// sub (email), adm (admin flag), scope, exp and iat.  The admin flag is
// fixed at issue time from the configured admin list.
func NewSessionToken(secret, email string, admin bool, ttlHours int) (SessionToken, error) {
	now := time.Now().UTC()
	exp := now.Add(time.Duration(ttlHours) * time.Hour)
	claims := jwt.MapClaims{
		"sub":   email,
		"adm":   admin,
		"scope": scopeSession,
		"exp":   exp.Unix(),
		"iat":   now.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// ParseSessionToken validates a session JWT and returns the identity and
// admin flag it carries.
func ParseSessionToken(secret, raw string) (email string, admin bool, err error) {
	claims, err := parse(secret, raw, scopeSession)
	if err != nil {
		return "", false, err
	}
	email, _ = claims["sub"].(string)
	if email == "" {
		return "", false, ErrInvalidToken
	}
	admin, _ = claims["adm"].(bool)
	return email, admin, nil
}

// parse verifies signature, algorithm, expiry and scope in one place.
func parse(secret, raw, wantScope string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if scope, _ := claims["scope"].(string); scope != wantScope {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
