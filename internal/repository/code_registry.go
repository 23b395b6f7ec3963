package repository

import (
	"crypto/rand"
	"sync"
	"time"

	"linkbridge/internal/models"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	codeLength   = 10
)

type codeEntry struct {
	code      string
	discordID string
	issuedAt  time.Time
	expiresAt time.Time
	timer     *time.Timer
}

// CodeRegistry holds pending linking codes in memory. Entries expire after the
// configured TTL; expiry is observed lazily on every read, so correctness does
// not depend on the background timer having fired. At most one code is active
// per Discord user: issuing a new one replaces the pending one.
type CodeRegistry struct {
	mu        sync.Mutex
	ttl       time.Duration
	byCode    map[string]*codeEntry
	byDiscord map[string]*codeEntry
	now       func() time.Time
}

func NewCodeRegistry(ttl time.Duration) *CodeRegistry {
	return &CodeRegistry{
		ttl:       ttl,
		byCode:    make(map[string]*codeEntry),
		byDiscord: make(map[string]*codeEntry),
		now:       time.Now,
	}
}

// Issue generates a fresh code for the given Discord user, unique among the
// currently active codes, and schedules its removal after the TTL.
func (r *CodeRegistry) Issue(discordID string) models.LinkCode {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byDiscord[discordID]; ok {
		r.removeLocked(old)
	}

	var code string
	for {
		code = generateCode(codeLength)
		if _, taken := r.byCode[code]; !taken {
			break
		}
	}

	now := r.now()
	entry := &codeEntry{
		code:      code,
		discordID: discordID,
		issuedAt:  now,
		expiresAt: now.Add(r.ttl),
	}
	issuedAt := entry.issuedAt
	entry.timer = time.AfterFunc(r.ttl, func() {
		r.expire(code, issuedAt)
	})

	r.byCode[code] = entry
	r.byDiscord[discordID] = entry

	return models.LinkCode{
		Code:      entry.code,
		DiscordID: entry.discordID,
		IssuedAt:  entry.issuedAt,
		ExpiresAt: entry.expiresAt,
	}
}

// Redeem consumes a pending code. It returns false for codes that were never
// issued, already redeemed, or past their TTL, even if the expiry timer has
// not fired yet. A code can be redeemed at most once.
func (r *CodeRegistry) Redeem(code string) (models.LinkCode, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byCode[code]
	if !ok {
		return models.LinkCode{}, false
	}
	if !r.now().Before(entry.expiresAt) {
		r.removeLocked(entry)
		return models.LinkCode{}, false
	}

	r.removeLocked(entry)
	return models.LinkCode{
		Code:      entry.code,
		DiscordID: entry.discordID,
		IssuedAt:  entry.issuedAt,
		ExpiresAt: entry.expiresAt,
	}, true
}

// Size returns the number of pending codes, expired-but-unswept ones included.
func (r *CodeRegistry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byCode)
}

// Shutdown cancels all pending expiry timers.
func (r *CodeRegistry) Shutdown() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.byCode {
		r.removeLocked(entry)
	}
}

// expire is the timer callback. It checks that the code still refers to the
// same issuance before deleting, so a later code that happens to reuse the
// same string is not swept by a stale timer.
func (r *CodeRegistry) expire(code string, issuedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byCode[code]
	if !ok || !entry.issuedAt.Equal(issuedAt) {
		return
	}
	r.removeLocked(entry)
}

func (r *CodeRegistry) removeLocked(entry *codeEntry) {
	entry.timer.Stop()
	delete(r.byCode, entry.code)
	if cur, ok := r.byDiscord[entry.discordID]; ok && cur == entry {
		delete(r.byDiscord, entry.discordID)
	}
}

func generateCode(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)

	out := make([]byte, length)
	for i, b := range bytes {
		out[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(out)
}
