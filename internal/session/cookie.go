package session

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"llamachat-golang/relay/internal/pkg/id"
)

// CookieName carries the signed session token.
const CookieName = "relay_session"

const tokenLifetime = 30 * 24 * time.Hour

// CookieManager mints and verifies HS256-signed session cookies. The session
// identifier inside the token is the conversation store key; signing stops a
// visitor from choosing (or enumerating) someone else's session.
type CookieManager struct {
	secret []byte
}

// NewCookieManager derives a manager from the configured secret. An empty
// secret gets a random per-process value, which invalidates outstanding
// sessions on restart - acceptable since conversations are in-memory anyway.
func NewCookieManager(secret string) *CookieManager {
	if secret == "" {
		secret = id.SecureToken(32)
	}
	return &CookieManager{secret: []byte(secret)}
}

// Issue mints a fresh session ID, sets the signed cookie, and returns the ID.
func (m *CookieManager) Issue(w http.ResponseWriter) (string, error) {
	sid := id.SessionID()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sid,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		MaxAge:   int(tokenLifetime / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return sid, nil
}

// SessionID extracts and verifies the session identifier from the request
// cookie. Returns false for a missing, malformed, expired, or tampered token.
func (m *CookieManager) SessionID(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", false
	}
	return claims.Subject, true
}
