package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/inklog/internal/db"
)

func TestShowProfileRequiresSession(t *testing.T) {
	api, _ := setupHandlerAPI(t, "profile-gate")
	engine := newTestEngine(api)

	w := doRequest(engine, http.MethodGet, "/profile/settings", nil, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d", w.Code)
	}
}

func TestUpdateSettingsRefreshesSession(t *testing.T) {
	api, gdb := setupHandlerAPI(t, "profile-settings")
	engine := newTestEngine(api)

	registerUser(t, engine, "alice", "alice@example.com", "secret")
	cookies := loginUser(t, engine, "alice", "secret")

	w := doRequest(engine, http.MethodPost, "/profile/settings", url.Values{
		"username":     {"alice"},
		"email":        {"alice@example.com"},
		"password":     {""},
		"displayName":  {"Alice W."},
		"blogTitle":    {"Alice Writes"},
		"bio":          {"Short bio"},
		"introduction": {"Long intro"},
		"icon":         {"user.png"},
	}, cookies)
	if w.Code != http.StatusFound {
		t.Fatalf("expected status 302, got %d (%s)", w.Code, w.Body.String())
	}

	// Later reads in the session must see the new profile fields.
	refreshed := w.Result().Cookies()
	if len(refreshed) == 0 {
		refreshed = cookies
	}
	w = doRequest(engine, http.MethodGet, "/session-info", nil, refreshed)
	body := decodeJSON(t, w)
	if body["displayName"] != "Alice W." {
		t.Fatalf("expected refreshed displayName, got %v", body["displayName"])
	}
	if body["blogTitle"] != "Alice Writes" {
		t.Fatalf("expected refreshed blogTitle, got %v", body["blogTitle"])
	}

	var profile db.UserProfile
	if err := gdb.First(&profile).Error; err != nil {
		t.Fatalf("load profile: %v", err)
	}
	if profile.DisplayName != "Alice W." || profile.BlogTitle != "Alice Writes" {
		t.Fatalf("profile not persisted: %+v", profile)
	}
}

func TestUpdateSettingsRejectsTakenUsername(t *testing.T) {
	api, _ := setupHandlerAPI(t, "profile-settings-taken")
	engine := newTestEngine(api)

	registerUser(t, engine, "alice", "alice@example.com", "secret")
	registerUser(t, engine, "bob", "bob@example.com", "secret")
	cookies := loginUser(t, engine, "bob", "secret")

	w := doRequest(engine, http.MethodPost, "/profile/settings", url.Values{
		"username": {"alice"},
		"email":    {"bob@example.com"},
	}, cookies)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if w.Body.String() != "Username already exists" {
		t.Fatalf("unexpected body: %q", w.Body.String())
	}
}

func TestCheckPassword(t *testing.T) {
	api, _ := setupHandlerAPI(t, "profile-check-password")
	engine := newTestEngine(api)

	registerUser(t, engine, "alice", "alice@example.com", "secret")
	cookies := loginUser(t, engine, "alice", "secret")

	w := doRequest(engine, http.MethodGet, "/profile/check-password?password=secret", nil, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if body := decodeJSON(t, w); body["valid"] != true {
		t.Fatalf("expected valid=true, got %v", body["valid"])
	}

	w = doRequest(engine, http.MethodGet, "/profile/check-password?password=wrong", nil, cookies)
	if body := decodeJSON(t, w); body["valid"] != false {
		t.Fatalf("expected valid=false, got %v", body["valid"])
	}
}
