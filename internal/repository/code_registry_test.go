package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeRegistryIssueFormat(t *testing.T) {
	r := NewCodeRegistry(10 * time.Minute)
	defer r.Shutdown()

	code := r.Issue("discord-1")
	require.Len(t, code.Code, codeLength)
	for _, c := range code.Code {
		assert.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected character %q", c)
	}
	assert.Equal(t, "discord-1", code.DiscordID)
	assert.Equal(t, code.IssuedAt.Add(10*time.Minute), code.ExpiresAt)
}

func TestCodeRegistryRedeemUnknownCode(t *testing.T) {
	r := NewCodeRegistry(10 * time.Minute)
	defer r.Shutdown()

	_, ok := r.Redeem("neverissued")
	assert.False(t, ok)
}

func TestCodeRegistryRedeemOnce(t *testing.T) {
	r := NewCodeRegistry(10 * time.Minute)
	defer r.Shutdown()

	code := r.Issue("discord-1")

	redeemed, ok := r.Redeem(code.Code)
	require.True(t, ok)
	assert.Equal(t, "discord-1", redeemed.DiscordID)

	_, ok = r.Redeem(code.Code)
	assert.False(t, ok, "second redemption must fail")
}

func TestCodeRegistryLazyExpiry(t *testing.T) {
	r := NewCodeRegistry(10 * time.Minute)
	defer r.Shutdown()

	code := r.Issue("discord-1")

	// Shift the clock past the TTL without waiting for the timer.
	r.now = func() time.Time { return time.Now().Add(11 * time.Minute) }

	_, ok := r.Redeem(code.Code)
	assert.False(t, ok, "expired code must be treated as absent even before the sweep runs")
	assert.Equal(t, 0, r.Size())
}

func TestCodeRegistryTimerExpiry(t *testing.T) {
	r := NewCodeRegistry(20 * time.Millisecond)
	defer r.Shutdown()

	code := r.Issue("discord-1")

	assert.Eventually(t, func() bool { return r.Size() == 0 }, time.Second, 5*time.Millisecond)

	_, ok := r.Redeem(code.Code)
	assert.False(t, ok)
}

func TestCodeRegistryReissueReplacesPending(t *testing.T) {
	r := NewCodeRegistry(10 * time.Minute)
	defer r.Shutdown()

	first := r.Issue("discord-1")
	second := r.Issue("discord-1")

	_, ok := r.Redeem(first.Code)
	assert.False(t, ok, "reissuing must invalidate the earlier code")

	_, ok = r.Redeem(second.Code)
	assert.True(t, ok)
}

func TestCodeRegistryStaleTimerKeepsNewerIssuance(t *testing.T) {
	r := NewCodeRegistry(10 * time.Minute)
	defer r.Shutdown()

	code := r.Issue("discord-1")

	// A timer from an older issuance of the same string must not sweep the
	// current entry.
	r.expire(code.Code, code.IssuedAt.Add(-time.Hour))

	_, ok := r.Redeem(code.Code)
	assert.True(t, ok)
}

func TestCodeRegistryCodesUniqueAmongActive(t *testing.T) {
	r := NewCodeRegistry(10 * time.Minute)
	defer r.Shutdown()

	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		code := r.Issue(string(rune('a'+i%26)) + string(rune('0'+i/26)))
		_, dup := seen[code.Code]
		require.False(t, dup, "active code %q issued twice", code.Code)
		seen[code.Code] = struct{}{}
	}
}
