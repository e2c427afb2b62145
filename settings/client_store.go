package settings

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/max42watt/pv-calculator/econ"
)

const (
	sessionName = "pv_calculator"
	settingsKey = "expert_settings"
)

// ClientStore keeps a client's own expert settings in its session cookie,
// so consultants can tweak parameters without changing the office defaults.
// The server holds no per-client state.
type ClientStore struct {
	store *sessions.CookieStore
}

func NewClientStore(secret string, maxAgeDays int) *ClientStore {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAgeDays * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &ClientStore{store: store}
}

// Get returns the settings stored in the request's session cookie. ok is
// false when the client never saved any, or when the cookie cannot be
// decoded anymore (e.g. after a key change) — callers fall back to the
// office defaults in both cases.
func (c *ClientStore) Get(r *http.Request) (econ.ExpertSettings, bool) {
	session, err := c.store.Get(r, sessionName)
	if err != nil {
		return econ.ExpertSettings{}, false
	}
	raw, ok := session.Values[settingsKey].(string)
	if !ok {
		return econ.ExpertSettings{}, false
	}
	var s econ.ExpertSettings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return econ.ExpertSettings{}, false
	}
	return s, true
}

func (c *ClientStore) Save(w http.ResponseWriter, r *http.Request, s econ.ExpertSettings) error {
	buf, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	session, _ := c.store.Get(r, sessionName) // an undecodable cookie is replaced
	session.Values[settingsKey] = string(buf)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save settings session: %w", err)
	}
	return nil
}

func (c *ClientStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := c.store.Get(r, sessionName)
	delete(session.Values, settingsKey)
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("clear settings session: %w", err)
	}
	return nil
}
