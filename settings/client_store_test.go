package settings

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/max42watt/pv-calculator/econ"
)

func TestClientStoreRoundTrip(t *testing.T) {
	store := NewClientStore("test-secret", 7)

	custom := econ.DefaultSettings()
	custom.HeatPumpJaz = 4.2
	custom.FeedInTariff = 8.11

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/settings", nil)
	if err := store.Save(rec, req, custom); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("no session cookie written")
	}

	next := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	for _, c := range cookies {
		next.AddCookie(c)
	}

	got, ok := store.Get(next)
	if !ok {
		t.Fatalf("expected stored settings on the follow-up request")
	}
	if !reflect.DeepEqual(got, custom) {
		t.Errorf("got %+v, wanted %+v", got, custom)
	}

	rec = httptest.NewRecorder()
	if err := store.Clear(rec, next); err != nil {
		t.Fatalf("Clear() returned error: %v", err)
	}

	final := httptest.NewRequest(http.MethodGet, "/api/settings", nil)
	for _, c := range rec.Result().Cookies() {
		final.AddCookie(c)
	}
	if _, ok := store.Get(final); ok {
		t.Errorf("expected no settings after Clear")
	}
}

func TestClientStoreFreshRequest(t *testing.T) {
	store := NewClientStore("test-secret", 7)
	if _, ok := store.Get(httptest.NewRequest(http.MethodGet, "/", nil)); ok {
		t.Errorf("expected no settings without a cookie")
	}
}

func TestClientStoreUndecodableCookie(t *testing.T) {
	stored := NewClientStore("first-secret", 7)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/", nil)
	if err := stored.Save(rec, req, econ.DefaultSettings()); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	// A rotated key makes old cookies undecodable; they must read as absent.
	rotated := NewClientStore("second-secret", 7)
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	if _, ok := rotated.Get(next); ok {
		t.Errorf("expected settings to be unreadable after a key change")
	}
}
