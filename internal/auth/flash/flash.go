// Package flash moves short-lived values across the provider redirect
// round-trip in signed client-side cookies. The server keeps no state of its
// own; everything rides with the browser.
package flash

import (
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Store is a one-shot key-value channel attached to the client. Writes take
// effect on the response, reads see what the client presented, and cleared
// keys disappear from the client on the next request.
type Store interface {
	Write(w http.ResponseWriter, name, value string)
	Read(r *http.Request, name string) (string, bool)
	Clear(w http.ResponseWriter, name string)
}

type valueClaims struct {
	Value string `json:"val"`
	jwt.RegisteredClaims
}

// CookieStore signs each value into its own HS256 cookie with a short TTL.
// Tampered, expired, or otherwise unverifiable cookies read as absent.
type CookieStore struct {
	secret []byte
	ttl    time.Duration
	secure bool
}

// NewCookieStore builds a CookieStore. ttl bounds how long a stashed value
// stays redeemable; secure controls the cookie Secure attribute.
func NewCookieStore(secret []byte, ttl time.Duration, secure bool) *CookieStore {
	return &CookieStore{secret: secret, ttl: ttl, secure: secure}
}

// Write signs value and sets it as a cookie on the response.
func (s *CookieStore) Write(w http.ResponseWriter, name, value string) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, valueClaims{
		Value: value,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	})

	signed, err := token.SignedString(s.secret)
	if err != nil {
		// HMAC signing over an in-memory key cannot fail at runtime.
		panic(fmt.Sprintf("flash: signing cookie %q: %v", name, err))
	}

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Read verifies the named cookie and returns its value. Missing, expired,
// or tampered cookies report ok == false.
func (s *CookieStore) Read(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", false
	}

	var claims valueClaims
	token, err := jwt.ParseWithClaims(cookie.Value, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", false
	}
	return claims.Value, true
}

// Clear expires the named cookie on the response.
func (s *CookieStore) Clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
