package credential

import (
	"crypto/subtle"
	"errors"
	"strings"
)

var ErrEmptyAdminSecret = errors.New("credential: admin password is empty")

// Gate checks supplied passwords. It holds no state about who has logged in.
type Gate struct {
	gen         *Generator
	adminSecret []byte
}

func NewGate(gen *Generator, adminSecret string) (*Gate, error) {
	if adminSecret == "" {
		return nil, ErrEmptyAdminSecret
	}
	return &Gate{gen: gen, adminSecret: []byte(adminSecret)}, nil
}

// CheckUser compares the trimmed password with this week's password.
func (g *Gate) CheckUser(password string) bool {
	return equal([]byte(strings.TrimSpace(password)), []byte(g.gen.Current()))
}

// CheckAdmin compares password with the admin secret exactly, without trimming.
func (g *Gate) CheckAdmin(password string) bool {
	return equal([]byte(password), g.adminSecret)
}

// Generator exposes the underlying password generator.
func (g *Gate) Generator() *Generator {
	return g.gen
}

func equal(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
