package security

import (
	"encoding/base64"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	userIDCookie      = "cheerioo_user_id"
	anonymousIDCookie = "cheerioo_anonymous_id"

	userIDLifetime      = 30 * 24 * time.Hour
	anonymousIDLifetime = 90 * 24 * time.Hour
)

type cookieConfig struct {
	name     string
	value    string
	path     string
	httpOnly bool
	maxAge   int
}

func setSecureCookie(w http.ResponseWriter, cfg cookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.name,
		Value:    cfg.value,
		Path:     cfg.path,
		HttpOnly: cfg.httpOnly,
		MaxAge:   cfg.maxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   true,
	})
}

// GetOrCreateUserID resolves the supporter identity from the request,
// minting and setting a fresh one when none exists yet.
func GetOrCreateUserID(w http.ResponseWriter, r *http.Request) string {
	if userID := GetUserID(r); userID != "" {
		return userID
	}

	newUserID := uuid.NewString()
	SetUserID(w, newUserID)
	return newUserID
}

func GetUserID(r *http.Request) string {
	// Check header first (for API/WebSocket clients)
	if headerUserID := r.Header.Get("X-User-ID"); headerUserID != "" {
		return headerUserID
	}

	cookie, err := r.Cookie(userIDCookie)
	if err != nil {
		return ""
	}

	decoded, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		return ""
	}

	return string(decoded)
}

func SetUserID(w http.ResponseWriter, userID string) {
	encoded := base64.StdEncoding.EncodeToString([]byte(userID))

	setSecureCookie(w, cookieConfig{
		name:     userIDCookie,
		value:    encoded,
		path:     "/",
		httpOnly: true,
		maxAge:   int(userIDLifetime.Seconds()),
	})
}

// GetAnonymousID returns the participant's anonymous identity claim. The
// claim is only trusted after the anonymous profile lookup succeeds.
func GetAnonymousID(r *http.Request) string {
	if headerID := r.Header.Get("X-Anonymous-ID"); headerID != "" {
		return headerID
	}

	cookie, err := r.Cookie(anonymousIDCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func SetAnonymousID(w http.ResponseWriter, id string) {
	setSecureCookie(w, cookieConfig{
		name:     anonymousIDCookie,
		value:    id,
		path:     "/",
		httpOnly: false,
		maxAge:   int(anonymousIDLifetime.Seconds()),
	})
}
