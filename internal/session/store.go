// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/cortex-tui/internal/util"
)

// TokenCookie is the name of the cookie the backend issues on login.
const TokenCookie = "token"

// =============================================================================
// STORE
// =============================================================================

// Store is a single-origin cookie jar persisted to disk. It implements
// http.CookieJar so the API client attaches the session cookie to every
// request, and it survives restarts so a login in one shell is seen by the next.
//
// Matching is done by net/http/cookiejar. The store keeps the attributes of
// every cookie it accepted so the jar can be rebuilt from the file. Secure
// cookies are only sent over https, except to a loopback backend.
type Store struct {
	mu       sync.Mutex
	path     string
	base     *url.URL
	host     string
	loopback bool
	jar      *cookiejar.Jar
	cookies  map[string]storedCookie

	now func() time.Time
}

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
}

func (c storedCookie) key() string {
	return c.Name + ";" + c.Domain + ";" + c.Path
}

func (c storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

type storeFile struct {
	Host    string         `json:"host"`
	SavedAt time.Time      `json:"saved_at"`
	Cookies []storedCookie `json:"cookies"`
}

// Open loads the store at path for the backend at baseURL. A missing file is
// an empty session. Cookies saved for a different backend host are ignored.
func Open(path string, baseURL *url.URL) (*Store, error) {
	if baseURL == nil || baseURL.Host == "" {
		return nil, errors.New("session: base URL is required")
	}
	s := &Store{
		path:     path,
		base:     &url.URL{Scheme: baseURL.Scheme, Host: baseURL.Host, Path: "/"},
		host:     strings.ToLower(baseURL.Host),
		loopback: isLoopback(baseURL.Hostname()),
		cookies:  make(map[string]storedCookie),
		now:      time.Now,
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Reload replaces the in-memory cookies with the file contents.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.cookies = make(map[string]storedCookie)
		s.rebuildLocked()
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("session: failed to read %s: %w", s.path, err)
	}

	var f storeFile
	if len(strings.TrimSpace(string(data))) > 0 {
		if err := json.Unmarshal(data, &f); err != nil {
			// A corrupt file is treated as logged out rather than fatal.
			log.Printf("SESSION: ignoring unreadable session file %s: %v", s.path, err)
			f = storeFile{}
		}
	}

	cookies := make(map[string]storedCookie)
	if strings.EqualFold(f.Host, s.host) {
		for _, c := range f.Cookies {
			cookies[c.key()] = c
		}
	}

	s.mu.Lock()
	s.cookies = cookies
	s.rebuildLocked()
	s.mu.Unlock()
	return nil
}

// SetCookies implements http.CookieJar.
func (s *Store) SetCookies(u *url.URL, cookies []*http.Cookie) {
	if !s.matches(u) || len(cookies) == 0 {
		return
	}

	s.mu.Lock()
	now := s.now()
	for _, c := range cookies {
		sc := storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     cookiePath(u, c.Path),
			Domain:   strings.ToLower(strings.TrimPrefix(c.Domain, ".")),
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
		if c.MaxAge < 0 || (!c.Expires.IsZero() && !c.Expires.After(now)) {
			delete(s.cookies, sc.key())
			continue
		}
		if c.MaxAge > 0 {
			sc.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		} else if !c.Expires.IsZero() {
			sc.Expires = c.Expires
		}
		s.cookies[sc.key()] = sc
	}
	s.rebuildLocked()
	err := s.saveLocked()
	s.mu.Unlock()

	if err != nil {
		log.Printf("SESSION: failed to persist cookies: %v", err)
	}
}

// Cookies implements http.CookieJar.
func (s *Store) Cookies(u *url.URL) []*http.Cookie {
	if !s.matches(u) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dropExpiredLocked() {
		s.rebuildLocked()
	}
	out := s.jar.Cookies(u)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Token returns the session token, or "" when logged out or expired.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, c := range s.cookies {
		if c.Name == TokenCookie && c.Value != "" && !c.expired(now) {
			return c.Value
		}
	}
	return ""
}

// LoggedIn reports whether a token is present.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// Clear forgets every cookie and removes the session file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookies = make(map[string]storedCookie)
	s.rebuildLocked()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("session: failed to remove %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) matches(u *url.URL) bool {
	return u != nil && strings.EqualFold(u.Host, s.host)
}

// dropExpiredLocked forgets expired cookies and reports whether any were
// removed. Caller holds s.mu.
func (s *Store) dropExpiredLocked() bool {
	now := s.now()
	dropped := false
	for k, c := range s.cookies {
		if c.expired(now) {
			delete(s.cookies, k)
			dropped = true
		}
	}
	return dropped
}

// rebuildLocked replaces the jar with one holding the stored cookies.
// Caller holds s.mu.
func (s *Store) rebuildLocked() {
	// cookiejar.New only fails on bad options.
	jar, _ := cookiejar.New(nil)
	now := s.now()
	var live []*http.Cookie
	for _, c := range s.cookies {
		if c.expired(now) {
			continue
		}
		// Expiry is tracked here against s.now, so the jar holds session cookies.
		live = append(live, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Secure:   c.Secure && !s.loopback,
			HttpOnly: c.HttpOnly,
		})
	}
	if len(live) > 0 {
		jar.SetCookies(s.base, live)
	}
	s.jar = jar
}

// cookiePath returns the cookie's Path attribute, or the default path of the
// request URL (RFC 6265 section 5.1.4) when it is missing or relative.
func cookiePath(u *url.URL, p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	dir := u.Path
	if i := strings.LastIndex(dir, "/"); i > 0 {
		return dir[:i]
	}
	return "/"
}

// isLoopback reports whether host names this machine. Browsers treat such
// origins as secure, so Secure cookies are sent to them over http.
func isLoopback(host string) bool {
	host = strings.ToLower(host)
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// saveLocked writes the cookies to disk. Caller holds s.mu.
func (s *Store) saveLocked() error {
	f := storeFile{Host: s.host, SavedAt: s.now().UTC()}
	for _, c := range s.cookies {
		f.Cookies = append(f.Cookies, c)
	}
	sort.Slice(f.Cookies, func(i, j int) bool { return f.Cookies[i].key() < f.Cookies[j].key() })

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	// SECURITY: the token grants account access, owner read/write only.
	return util.AtomicWriteFile(s.path, data, 0600)
}
