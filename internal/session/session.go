// ABOUTME: Session identity resolution for huddle
// ABOUTME: Maps an inbound request credential to a session ID, minting a fresh one when absent

package session

import (
	"net/http"

	"github.com/google/uuid"
)

// CookieName is the name of the session credential cookie.
const CookieName = "sid"

// Resolve maps a client-supplied credential to a session ID.
// A non-empty credential is trusted as-is; any string the client presents
// is a valid session key. This is a bearer-style, unauthenticated token by
// design: the credential is never signed or verified, and a production
// deployment that needs real identity must revisit this.
// An empty credential yields a fresh unguessable ID and isNew=true, and
// the caller must set the credential on the outbound response.
func Resolve(credential string) (id string, isNew bool) {
	if credential != "" {
		return credential, false
	}
	return uuid.New().String(), true
}

// FromRequest resolves the session ID from the request's sid cookie.
func FromRequest(r *http.Request) (id string, isNew bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Resolve("")
	}
	return Resolve(cookie.Value)
}

// SetCookie writes the session credential on the outbound response so
// subsequent requests resend it. The cookie is script-inaccessible,
// restricted to same-site requests, valid for the whole path space, and
// carries no expiry (session cookie).
func SetCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
