package qrtoken

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issuedAt = time.Date(2024, 3, 14, 9, 15, 0, 250_000_000, time.UTC)

func newTestCodec() *Codec {
	return NewCodec(time.UTC)
}

func TestPersonal_ValidWithinTTL(t *testing.T) {
	c := newTestCodec()
	p, err := c.IssuePersonal("emp-1", issuedAt)
	require.NoError(t, err)

	assert.Equal(t, "emp-1", p.EmployeeID)
	assert.Equal(t, issuedAt.Add(30*time.Minute), p.ExpiresAt)
	assert.Len(t, strings.Split(p.Token, ":"), 3)

	assert.True(t, c.VerifyPersonal(p.Token, "emp-1", issuedAt))
	assert.True(t, c.VerifyPersonal(p.Token, "emp-1", issuedAt.Add(29*time.Minute+59*time.Second)))
	assert.True(t, c.VerifyPersonal(p.Token, "emp-1", issuedAt.Add(30*time.Minute)))
}

func TestPersonal_ExpiredAfterTTL(t *testing.T) {
	c := newTestCodec()
	p, err := c.IssuePersonal("emp-1", issuedAt)
	require.NoError(t, err)

	assert.False(t, c.VerifyPersonal(p.Token, "emp-1", issuedAt.Add(30*time.Minute+time.Second)))
	assert.False(t, c.VerifyPersonal(p.Token, "emp-1", issuedAt.Add(2*time.Hour)))
}

func TestPersonal_OtherEmployeeRejected(t *testing.T) {
	c := newTestCodec()
	p, err := c.IssuePersonal("emp-1", issuedAt)
	require.NoError(t, err)

	assert.False(t, c.VerifyPersonal(p.Token, "emp-2", issuedAt))
	assert.False(t, c.VerifyPersonal(p.Token, "", issuedAt))
}

func TestPersonal_RandomComponentDiffers(t *testing.T) {
	c := newTestCodec()
	a, err := c.IssuePersonal("emp-1", issuedAt)
	require.NoError(t, err)
	b, err := c.IssuePersonal("emp-1", issuedAt)
	require.NoError(t, err)
	assert.NotEqual(t, a.Token, b.Token)
}

func TestPersonal_InvalidEmployeeID(t *testing.T) {
	c := newTestCodec()
	_, err := c.IssuePersonal("a:b", issuedAt)
	assert.ErrorIs(t, err, ErrInvalidScope)
	_, err = c.IssuePersonal("", issuedAt)
	assert.ErrorIs(t, err, ErrInvalidScope)
}

func TestVerify_MalformedTokensFailClosed(t *testing.T) {
	c := newTestCodec()
	malformed := []string{
		"",
		"emp-1",
		"emp-1:abc",
		"emp-1:abc:not-a-time",
		"emp-1::20240314T094500.000000000",
		"emp-1:abc:20240314T094500.000000000:extra",
		"2024-03-14T09:45:00",
	}
	for _, token := range malformed {
		assert.False(t, c.VerifyPersonal(token, "emp-1", issuedAt), "personal %q", token)
		assert.False(t, c.VerifyShared(token, "morning", issuedAt), "shared %q", token)
	}
}

func TestShared_Window(t *testing.T) {
	c := newTestCodec()
	noon := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	s, err := c.IssueShared("morning", issuedAt, noon)
	require.NoError(t, err)

	assert.Equal(t, "morning", s.Scope)
	assert.Equal(t, issuedAt, s.ValidFrom)
	assert.Equal(t, noon, s.ValidTo)
	assert.True(t, IsShared(s.Token))

	assert.True(t, c.VerifyShared(s.Token, "morning", issuedAt))
	assert.True(t, c.VerifyShared(s.Token, "morning", noon))
	assert.False(t, c.VerifyShared(s.Token, "morning", issuedAt.Add(-time.Second)))
	assert.False(t, c.VerifyShared(s.Token, "morning", noon.Add(time.Second)))
	assert.False(t, c.VerifyShared(s.Token, "evening", issuedAt))
}

func TestCodec_UsesConfiguredLocation(t *testing.T) {
	loc := time.FixedZone("WAT", 60*60)
	c := NewCodec(loc)
	p, err := c.IssuePersonal("emp-1", issuedAt)
	require.NoError(t, err)

	assert.True(t, p.ExpiresAt.Equal(issuedAt.Add(PersonalTTL)))
	assert.Equal(t, loc, p.ExpiresAt.Location())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy unavailable") }

func TestIssue_EntropyFailure(t *testing.T) {
	c := newTestCodec()
	c.random = failingReader{}

	_, err := c.IssuePersonal("emp-1", issuedAt)
	assert.Error(t, err)
	_, err = c.IssueShared("morning", issuedAt, issuedAt.Add(time.Hour))
	assert.Error(t, err)
}
