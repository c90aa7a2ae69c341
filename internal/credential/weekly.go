// Package credential derives the rotating weekly access password and checks
// user and administrator credentials against it.
package credential

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// Alphabet is the human-typable character set: no I, O, 1 or 0.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	DefaultLength = 10
	// MaxLength is the number of hex characters in a SHA-256 digest.
	MaxLength = sha256.Size * 2
)

var ErrEmptySecret = errors.New("credential: weekly password seed is empty")

// Window identifies one ISO calendar week.
type Window struct {
	Year int
	Week int
}

// String is the HMAC message for the window, e.g. "2026-W3".
func (w Window) String() string {
	return fmt.Sprintf("%d-W%d", w.Year, w.Week)
}

// WindowAt returns the ISO week containing at, evaluated in loc.
func WindowAt(at time.Time, loc *time.Location) Window {
	year, week := at.In(orUTC(loc)).ISOWeek()
	return Window{Year: year, Week: week}
}

// WindowStart returns Monday 00:00:00 in loc on or before at.
func WindowStart(at time.Time, loc *time.Location) time.Time {
	loc = orUTC(loc)
	local := at.In(loc)
	sinceMonday := (int(local.Weekday()) + 6) % 7
	return time.Date(local.Year(), local.Month(), local.Day()-sinceMonday, 0, 0, 0, 0, loc)
}

// NextRotation returns the instant the password following at's window takes effect:
// seven calendar days after WindowStart.
func NextRotation(at time.Time, loc *time.Location) time.Time {
	return WindowStart(at, loc).AddDate(0, 0, 7)
}

// Derive computes the password for the window containing at.
//
// The HMAC-SHA256 digest of the window string is hex encoded and every hex digit
// selects Alphabet[digit % len(Alphabet)]. Passwords therefore match the ones the
// service has always handed out for a given seed.
func Derive(secret []byte, at time.Time, loc *time.Location, length int) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	if length <= 0 {
		length = DefaultLength
	}
	if length > MaxLength {
		length = MaxLength
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(WindowAt(at, loc).String()))
	digest := hex.EncodeToString(mac.Sum(nil))

	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = Alphabet[hexValue(digest[i])%len(Alphabet)]
	}
	return string(out), nil
}

func hexValue(c byte) int {
	if c >= 'a' {
		return int(c-'a') + 10
	}
	return int(c - '0')
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}

// Generator binds a seed, time zone and length to a clock.
type Generator struct {
	secret []byte
	loc    *time.Location
	length int
	now    func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithLength sets the password length.
func WithLength(n int) GeneratorOption {
	return func(g *Generator) { g.length = n }
}

// NewGenerator fails with ErrEmptySecret when seed is empty.
func NewGenerator(seed string, loc *time.Location, opts ...GeneratorOption) (*Generator, error) {
	if seed == "" {
		return nil, ErrEmptySecret
	}
	g := &Generator{
		secret: []byte(seed),
		loc:    orUTC(loc),
		length: DefaultLength,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// At returns the password valid at t.
func (g *Generator) At(t time.Time) string {
	// secret is checked in NewGenerator
	pw, _ := Derive(g.secret, t, g.loc, g.length)
	return pw
}

// Current returns the password valid now.
func (g *Generator) Current() string {
	return g.At(g.now())
}

// CurrentWindow returns the ISO week in effect now.
func (g *Generator) CurrentWindow() Window {
	return WindowAt(g.now(), g.loc)
}

// NextRotation returns when Current will next change.
func (g *Generator) NextRotation() time.Time {
	return NextRotation(g.now(), g.loc)
}

// Location is the zone rotation boundaries are computed in.
func (g *Generator) Location() *time.Location {
	return g.loc
}
