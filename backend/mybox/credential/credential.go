// Package credential holds the NAVER session cookies shared by the
// login flow and the MYBOX client.
package credential

import (
	"net/http"
	"sync"

	"github.com/myboxcli/mybox/fs"
)

// Names of the session cookies
const (
	CookieJKL = "NID_JKL"
	CookieAUT = "NID_AUT"
	CookieSES = "NID_SES"
)

// CookieNames lists the cookies making up a session, in the order
// they are persisted
var CookieNames = []string{CookieJKL, CookieAUT, CookieSES}

// Triple is the set of cookies which authenticate a session
type Triple struct {
	JKL string
	AUT string
	SES string
}

// IsEmpty returns true if none of the cookies are set
func (t Triple) IsEmpty() bool {
	return t.JKL == "" && t.AUT == "" && t.SES == ""
}

// Get returns the cookie value by name
func (t Triple) Get(name string) string {
	switch name {
	case CookieJKL:
		return t.JKL
	case CookieAUT:
		return t.AUT
	case CookieSES:
		return t.SES
	}
	return ""
}

// Set sets the cookie value by name, ignoring unknown names
func (t *Triple) Set(name, value string) {
	switch name {
	case CookieJKL:
		t.JKL = value
	case CookieAUT:
		t.AUT = value
	case CookieSES:
		t.SES = value
	}
}

// Cookies returns the non empty values as http cookies
func (t Triple) Cookies() []*http.Cookie {
	var cookies []*http.Cookie
	for _, name := range CookieNames {
		if value := t.Get(name); value != "" {
			cookies = append(cookies, &http.Cookie{Name: name, Value: value})
		}
	}
	return cookies
}

// Store holds the current Triple.
//
// The triple is always replaced as a whole so readers never see
// cookies from two different sessions.
type Store struct {
	mu sync.RWMutex
	t  Triple
}

// NewStore makes an empty Store
func NewStore() *Store {
	return &Store{}
}

// Set replaces all three cookies
func (s *Store) Set(jkl, aut, ses string) {
	s.SetTriple(Triple{JKL: jkl, AUT: aut, SES: ses})
}

// SetTriple replaces the stored triple
func (s *Store) SetTriple(t Triple) {
	s.mu.Lock()
	s.t = t
	s.mu.Unlock()
	fs.Infof(nil, "Credentials set")
}

// Get returns the stored triple. It logs an error if no credentials
// have been set but still returns the empty triple.
func (s *Store) Get() Triple {
	s.mu.RLock()
	t := s.t
	s.mu.RUnlock()
	if t.IsEmpty() {
		fs.Logf(nil, "No credentials set - log in first")
	}
	return t
}

// IsEmpty returns true if no credentials are stored
func (s *Store) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.IsEmpty()
}

// Cookies returns the stored credentials as http cookies
func (s *Store) Cookies() []*http.Cookie {
	return s.Get().Cookies()
}
