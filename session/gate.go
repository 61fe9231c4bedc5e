// ABOUTME: Local-only login gate in front of the view coordinator
// ABOUTME: Checks email format and secret length; no hashing, tokens, or backend verification
package session

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// MinSecretLength is the shortest secret the gate accepts.
const MinSecretLength = 6

var (
	// ErrEmailRejected means the identifier is not an address on the allowed domain.
	ErrEmailRejected = errors.New("access restricted to authorized accounts on the allowed domain")
	// ErrSecretTooShort means the secret has fewer than MinSecretLength characters.
	ErrSecretTooShort = errors.New("password must be at least 6 characters")
)

// State is a read-only copy of the gate.
type State struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
}

// DisplayName is the local part of the signed-in email.
func (s State) DisplayName() string {
	name, _, _ := strings.Cut(s.Email, "@")
	return name
}

// Gate is a UI gate, not a security boundary: any syntactically valid
// address on the domain with a long enough secret is let in.
type Gate struct {
	mu      sync.RWMutex
	domain  string
	pattern *regexp.Regexp
	state   State
}

// NewGate creates a gate restricted to addresses on domain (e.g. "gmail.com").
func NewGate(domain string) (*Gate, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return nil, fmt.Errorf("email domain is required")
	}
	pattern, err := regexp.Compile(`^[a-zA-Z0-9._%+-]+@` + regexp.QuoteMeta(domain) + `$`)
	if err != nil {
		return nil, fmt.Errorf("invalid email domain %q: %w", domain, err)
	}
	return &Gate{domain: domain, pattern: pattern}, nil
}

// Domain returns the only email domain the gate admits.
func (g *Gate) Domain() string {
	return g.domain
}

// Check validates credentials without changing state. The email format is
// checked before the secret length.
func (g *Gate) Check(email, secret string) error {
	if !g.pattern.MatchString(email) {
		return ErrEmailRejected
	}
	if len([]rune(secret)) < MinSecretLength {
		return ErrSecretTooShort
	}
	return nil
}

// AttemptLogin signs in on success. On failure state is left untouched.
func (g *Gate) AttemptLogin(email, secret string) error {
	if err := g.Check(email, secret); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = State{Authenticated: true, Email: email}
	return nil
}

// Logout clears the session unconditionally.
func (g *Gate) Logout() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.state = State{}
}

func (g *Gate) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

func (g *Gate) Authenticated() bool {
	return g.State().Authenticated
}
