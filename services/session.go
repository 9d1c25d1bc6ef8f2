package services

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "filmlog-session"

// FlashStore carries one-shot notices ("Movie added.") across the
// post-redirect-get flow in a cookie session.
type FlashStore struct {
	store *sessions.CookieStore
}

func NewFlashStore(secret string, secure bool) *FlashStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   300, // flashes are read on the next page load
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &FlashStore{store: store}
}

// Add queues a flash message for the next request.
func (f *FlashStore) Add(w http.ResponseWriter, r *http.Request, message string) {
	session, _ := f.store.Get(r, sessionName)
	session.AddFlash(message)
	_ = session.Save(r, w)
}

// Pop returns the oldest queued flash message, or "" if none, clearing it.
func (f *FlashStore) Pop(w http.ResponseWriter, r *http.Request) string {
	session, err := f.store.Get(r, sessionName)
	if err != nil {
		return ""
	}
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return ""
	}
	_ = session.Save(r, w)
	if msg, ok := flashes[0].(string); ok {
		return msg
	}
	return ""
}
