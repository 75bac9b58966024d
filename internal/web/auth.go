package web

import (
	"crypto/hmac"
	"crypto/pbkdf2"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/foodrescuehub/foodrescue/internal/platform/id"
	"github.com/foodrescuehub/foodrescue/internal/storage"
)

// sessionCookieName is the operator session cookie.
const sessionCookieName = "fr_session"

// sessionTTL bounds how long an operator login lasts.
const sessionTTL = 14 * 24 * time.Hour

const (
	passwordHashScheme = "pbkdf2_sha256"
	pbkdf2Iterations   = 600000
	pbkdf2KeyLength    = 32
	pbkdf2SaltLength   = 16
)

// HashPassword derives a salted PBKDF2-SHA256 hash in the form
// scheme$iterations$salt$key, all base64 without padding.
func HashPassword(password string) (string, error) {
	salt := make([]byte, pbkdf2SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}
	key, err := pbkdf2.Key(sha256.New, password, salt, pbkdf2Iterations, pbkdf2KeyLength)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return fmt.Sprintf("%s$%d$%s$%s",
		passwordHashScheme,
		pbkdf2Iterations,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// VerifyPassword reports whether password matches an encoded hash. Malformed
// hashes never match.
func VerifyPassword(encoded, password string) bool {
	parts := strings.Split(encoded, "$")
	if len(parts) != 4 || parts[0] != passwordHashScheme {
		return false
	}
	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return false
	}
	salt, err := base64.RawStdEncoding.DecodeString(parts[2])
	if err != nil {
		return false
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false
	}
	got, err := pbkdf2.Key(sha256.New, password, salt, iterations, len(want))
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(got, want) == 1
}

// startSession persists a fresh session for username and sets its cookie.
// Expired sessions are purged on the way in so the table stays bounded.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, username string) error {
	if err := h.store.DeleteExpiredSessions(r.Context(), h.now()); err != nil {
		h.logger.Printf("delete expired sessions: %v", err)
	}
	session := storage.Session{
		ID:        id.MustNewID(),
		Username:  username,
		ExpiresAt: h.now().Add(sessionTTL),
	}
	if err := h.store.SaveSession(r.Context(), session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signSessionID(session.ID, h.settings.SessionSecret),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   !h.settings.Debug,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// endSession deletes the current session, if any, and expires its cookie.
func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if sessionID, ok := verifySessionID(cookie.Value, h.settings.SessionSecret); ok {
			if err := h.store.DeleteSession(r.Context(), sessionID); err != nil {
				h.logger.Printf("delete session: %v", err)
			}
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !h.settings.Debug,
		SameSite: http.SameSiteLaxMode,
	})
}

// currentSession resolves the request's operator session. Expired sessions do
// not count.
func (h *Handler) currentSession(r *http.Request) (storage.Session, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return storage.Session{}, false
	}
	sessionID, ok := verifySessionID(cookie.Value, h.settings.SessionSecret)
	if !ok {
		return storage.Session{}, false
	}
	session, err := h.store.GetSession(r.Context(), sessionID)
	if err != nil {
		return storage.Session{}, false
	}
	if !session.ExpiresAt.After(h.now()) {
		return storage.Session{}, false
	}
	return session, true
}

// requireAuth wraps next with operator session authentication. Anonymous
// requests are redirected to the login page with a return path.
func (h *Handler) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.currentSession(r); !ok {
			http.Redirect(w, r, "/admin/login?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// signSessionID appends an HMAC-SHA256 signature so a forged cookie never
// reaches the session store.
func signSessionID(sessionID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sessionID))
	return sessionID + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// verifySessionID checks a signed cookie value and returns the session ID.
func verifySessionID(value, secret string) (string, bool) {
	sessionID, signature, ok := strings.Cut(strings.TrimSpace(value), ".")
	if !ok || sessionID == "" {
		return "", false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(sessionID))
	want := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if subtle.ConstantTimeCompare([]byte(signature), []byte(want)) != 1 {
		return "", false
	}
	return sessionID, true
}

// safeNext restricts post-login redirects to local paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
