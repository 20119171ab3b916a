// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// GUARD TESTS
// =============================================================================

func TestGuard(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		token    string
		redirect string
	}{
		{"chat without token", "/chat", "", "/"},
		{"chat subpath without token", "/chat/abc", "", "/"},
		{"chat with token", "/chat", "t", ""},
		{"home with token", "/", "t", "/chat"},
		{"home without token", "/", "", ""},
		{"terms without token", "/terms", "", ""},
		{"privacy with token", "/privacy", "t", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Guard(tt.path, tt.token)
			assert.Equal(t, tt.redirect, d.Redirect)
			assert.Equal(t, tt.redirect == "", d.Pass())
		})
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "/", Resolve("/chat", ""))
	assert.Equal(t, "/chat", Resolve("/", "tok"))
	assert.Equal(t, "/terms", Resolve("/terms", "tok"))
}

// =============================================================================
// STORE TESTS
// =============================================================================

func openStore(t *testing.T, path string) *Store {
	t.Helper()
	base, err := url.Parse("http://localhost:8000")
	require.NoError(t, err)
	s, err := Open(path, base)
	require.NoError(t, err)
	return s
}

func TestStore_TokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := openStore(t, path)
	assert.Empty(t, s.Token())

	u, _ := url.Parse("http://localhost:8000/login")
	s.SetCookies(u, []*http.Cookie{{Name: "token", Value: "jwt", Path: "/", MaxAge: 3600, Secure: true}})
	assert.Equal(t, "jwt", s.Token())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	// A second process sees the same session.
	other := openStore(t, path)
	assert.Equal(t, "jwt", other.Token())

	cookies := other.Cookies(&url.URL{Scheme: "http", Host: "localhost:8000", Path: "/conversations"})
	require.Len(t, cookies, 1)
	assert.Equal(t, "jwt", cookies[0].Value)
}

func TestStore_IgnoresOtherHosts(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "session.json"))

	s.SetCookies(&url.URL{Scheme: "http", Host: "evil.example"}, []*http.Cookie{{Name: "token", Value: "x"}})
	assert.Empty(t, s.Token())

	s.SetCookies(&url.URL{Scheme: "http", Host: "localhost:8000"}, []*http.Cookie{{Name: "token", Value: "jwt"}})
	assert.Nil(t, s.Cookies(&url.URL{Scheme: "http", Host: "evil.example"}))
}

func TestStore_DeleteCookieLogsOut(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "session.json"))
	u := &url.URL{Scheme: "http", Host: "localhost:8000", Path: "/logout"}

	s.SetCookies(u, []*http.Cookie{{Name: "token", Value: "jwt"}})
	require.True(t, s.LoggedIn())

	s.SetCookies(u, []*http.Cookie{{Name: "token", Value: "", MaxAge: -1}})
	assert.False(t, s.LoggedIn())
}

func TestStore_ExpiredToken(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "session.json"))
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.SetCookies(&url.URL{Host: "localhost:8000"}, []*http.Cookie{{Name: "token", Value: "jwt", MaxAge: 60}})
	assert.Equal(t, "jwt", s.Token())

	now = now.Add(2 * time.Minute)
	assert.Empty(t, s.Token())
	assert.Empty(t, s.Cookies(&url.URL{Host: "localhost:8000"}))
}

func TestStore_SecureCookieWithheldOverHTTP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	base, err := url.Parse("http://api.example.com")
	require.NoError(t, err)
	s, err := Open(path, base)
	require.NoError(t, err)

	s.SetCookies(&url.URL{Scheme: "http", Host: "api.example.com", Path: "/login"},
		[]*http.Cookie{{Name: "token", Value: "secret", Path: "/", Secure: true}})

	assert.Equal(t, "secret", s.Token())
	assert.Empty(t, s.Cookies(&url.URL{Scheme: "http", Host: "api.example.com", Path: "/messages/1"}))

	cookies := s.Cookies(&url.URL{Scheme: "https", Host: "api.example.com", Path: "/messages/1"})
	require.Len(t, cookies, 1)
	assert.Equal(t, "secret", cookies[0].Value)

	// The attribute survives a reload from disk.
	reopened, err := Open(path, base)
	require.NoError(t, err)
	assert.Empty(t, reopened.Cookies(&url.URL{Scheme: "http", Host: "api.example.com", Path: "/"}))
}

func TestStore_SecureCookieSentToLoopback(t *testing.T) {
	tests := []string{"localhost:8000", "127.0.0.1:8000", "[::1]:8000"}

	for _, host := range tests {
		t.Run(host, func(t *testing.T) {
			base := &url.URL{Scheme: "http", Host: host}
			s, err := Open(filepath.Join(t.TempDir(), "session.json"), base)
			require.NoError(t, err)

			s.SetCookies(base, []*http.Cookie{{Name: "token", Value: "jwt", Path: "/", Secure: true}})
			cookies := s.Cookies(&url.URL{Scheme: "http", Host: host, Path: "/conversations"})
			require.Len(t, cookies, 1)
			assert.Equal(t, "jwt", cookies[0].Value)
		})
	}
}

func TestStore_CookiePathMatching(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "session.json"))
	s.SetCookies(&url.URL{Scheme: "http", Host: "localhost:8000", Path: "/chat"},
		[]*http.Cookie{{Name: "pref", Value: "1", Path: "/chat"}})

	at := func(p string) []*http.Cookie {
		return s.Cookies(&url.URL{Scheme: "http", Host: "localhost:8000", Path: p})
	}
	assert.Len(t, at("/chat"), 1)
	assert.Len(t, at("/chat/abc"), 1)
	assert.Empty(t, at("/chatty"))
	assert.Empty(t, at("/"))
}

func TestCookiePath(t *testing.T) {
	tests := []struct {
		reqPath, attr, want string
	}{
		{"/login", "", "/"},
		{"", "", "/"},
		{"/auth/login", "", "/auth"},
		{"/auth/login", "/", "/"},
		{"/auth/login", "relative", "/auth"},
	}
	for _, tt := range tests {
		got := cookiePath(&url.URL{Path: tt.reqPath}, tt.attr)
		assert.Equal(t, tt.want, got, "request %q attr %q", tt.reqPath, tt.attr)
	}
}

func TestStore_Clear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := openStore(t, path)
	s.SetCookies(&url.URL{Host: "localhost:8000"}, []*http.Cookie{{Name: "token", Value: "jwt"}})

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Token())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine.
	assert.NoError(t, s.Clear())
}

func TestStore_CorruptFileIsLoggedOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	s := openStore(t, path)
	assert.Empty(t, s.Token())
}

func TestStore_DifferentBackendIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := openStore(t, path)
	s.SetCookies(&url.URL{Host: "localhost:8000"}, []*http.Cookie{{Name: "token", Value: "jwt"}})

	base, _ := url.Parse("https://prod.example.com")
	other, err := Open(path, base)
	require.NoError(t, err)
	assert.Empty(t, other.Token())
}

// =============================================================================
// WATCHER TESTS
// =============================================================================

func TestWatcher_ReportsSessionFileChanges(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.json")

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("x"), 0600))
	select {
	case <-w.Changes():
		t.Fatal("unexpected change for unrelated file")
	case <-time.After(200 * time.Millisecond):
	}

	s := openStore(t, path)
	s.SetCookies(&url.URL{Host: "localhost:8000"}, []*http.Cookie{{Name: "token", Value: "jwt"}})

	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change notification")
	}
}

func TestWatcher_CloseClosesChannel(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	select {
	case _, ok := <-w.Changes():
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}
