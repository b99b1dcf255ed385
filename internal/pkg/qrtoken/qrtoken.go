// Package qrtoken encodes and checks the plaintext check-in tokens carried by
// attendance QR codes.
//
// Tokens are colon-delimited and unsigned:
//
//	personal: <employeeID>:<random>:<expiresAt>
//	shared:   <scope>:<random>:<validFrom>:<validTo>
//
// Timestamps use the ISO 8601 basic format so they never contain the field
// separator. Anyone who knows the format can forge a token that passes these
// checks; callers that need more must look the token up in storage.
package qrtoken

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

const (
	PersonalTTL = 30 * time.Minute

	separator       = ":"
	randomBytes     = 32
	timestampLayout = "20060102T150405.000000000"
)

var (
	ErrMalformed    = errors.New("malformed token")
	ErrInvalidScope = errors.New("token scope must be non-empty and must not contain ':'")
)

type Personal struct {
	Token      string
	EmployeeID string
	ExpiresAt  time.Time
}

type Shared struct {
	Token     string
	Scope     string
	ValidFrom time.Time
	ValidTo   time.Time
}

// Codec issues and parses tokens. Timestamps are written as wall-clock time in
// loc and read back in loc.
type Codec struct {
	loc    *time.Location
	random io.Reader
}

func NewCodec(loc *time.Location) *Codec {
	if loc == nil {
		loc = time.Local
	}
	return &Codec{loc: loc, random: rand.Reader}
}

func (c *Codec) Location() *time.Location {
	return c.loc
}

func (c *Codec) nonce() (string, error) {
	buf := make([]byte, randomBytes)
	if _, err := io.ReadFull(c.random, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (c *Codec) format(t time.Time) string {
	return t.In(c.loc).Format(timestampLayout)
}

func (c *Codec) parse(s string) (time.Time, error) {
	return time.ParseInLocation(timestampLayout, s, c.loc)
}

func validScope(s string) bool {
	return s != "" && !strings.Contains(s, separator)
}

// IssuePersonal creates a token for employeeID that expires PersonalTTL after now.
func (c *Codec) IssuePersonal(employeeID string, now time.Time) (Personal, error) {
	if !validScope(employeeID) {
		return Personal{}, ErrInvalidScope
	}
	random, err := c.nonce()
	if err != nil {
		return Personal{}, err
	}
	expiresAt := now.Add(PersonalTTL)
	token := strings.Join([]string{employeeID, random, c.format(expiresAt)}, separator)
	return c.ParsePersonal(token)
}

// IssueShared creates a token for scope valid from now until validTo.
func (c *Codec) IssueShared(scope string, now, validTo time.Time) (Shared, error) {
	if !validScope(scope) {
		return Shared{}, ErrInvalidScope
	}
	random, err := c.nonce()
	if err != nil {
		return Shared{}, err
	}
	token := strings.Join([]string{scope, random, c.format(now), c.format(validTo)}, separator)
	return c.ParseShared(token)
}

func (c *Codec) ParsePersonal(token string) (Personal, error) {
	parts := strings.Split(token, separator)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return Personal{}, ErrMalformed
	}
	expiresAt, err := c.parse(parts[2])
	if err != nil {
		return Personal{}, ErrMalformed
	}
	return Personal{Token: token, EmployeeID: parts[0], ExpiresAt: expiresAt}, nil
}

func (c *Codec) ParseShared(token string) (Shared, error) {
	parts := strings.Split(token, separator)
	if len(parts) != 4 || parts[0] == "" || parts[1] == "" {
		return Shared{}, ErrMalformed
	}
	validFrom, err := c.parse(parts[2])
	if err != nil {
		return Shared{}, ErrMalformed
	}
	validTo, err := c.parse(parts[3])
	if err != nil {
		return Shared{}, ErrMalformed
	}
	return Shared{Token: token, Scope: parts[0], ValidFrom: validFrom, ValidTo: validTo}, nil
}

// VerifyPersonal reports whether token was issued for employeeID and has not
// expired at now. It never fails; any parse problem is simply false.
func (c *Codec) VerifyPersonal(token, employeeID string, now time.Time) bool {
	p, err := c.ParsePersonal(token)
	if err != nil {
		return false
	}
	if p.EmployeeID != employeeID {
		return false
	}
	return !now.After(p.ExpiresAt)
}

// VerifyShared reports whether token carries scope and now lies within
// [validFrom, validTo].
func (c *Codec) VerifyShared(token, scope string, now time.Time) bool {
	s, err := c.ParseShared(token)
	if err != nil {
		return false
	}
	if s.Scope != scope {
		return false
	}
	return !now.Before(s.ValidFrom) && !now.After(s.ValidTo)
}

// IsShared reports whether token has the shared layout.
func IsShared(token string) bool {
	return strings.Count(token, separator) == 3
}
