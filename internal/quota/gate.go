// Package quota gates generation starts behind the free-tier daily
// limit. Premium users pass unconditionally; free users get a fixed
// number of generations per calendar day in server-local time.
package quota

import (
	"time"

	"github.com/carlelieser/avatarmon/internal/store"
)

// FreeDailyLimit is the number of generations a free user gets per
// calendar day.
const FreeDailyLimit = 5

// Gate answers quota questions for one user's store.
type Gate struct {
	store *store.Store
	limit int
	now   func() time.Time
}

func NewGate(s *store.Store) *Gate {
	return &Gate{store: s, limit: FreeDailyLimit, now: time.Now}
}

// IsNewCalendarDay reports whether now falls on a different calendar
// day than last. Any boundary crossing counts, including midnight one
// second apart; elapsed duration is irrelevant.
func IsNewCalendarDay(last, now time.Time) bool {
	ly, lm, ld := last.Date()
	ny, nm, nd := now.Date()
	return ly != ny || lm != nm || ld != nd
}

// CheckDailyReset zeroes the counter when the last recorded generation
// happened on an earlier calendar day. It runs before every quota read
// so stale counters never deny a generation.
func (g *Gate) CheckDailyReset() {
	last := g.store.User().LastGenerationDate
	if last == nil {
		return
	}
	if IsNewCalendarDay(*last, g.now()) {
		g.store.ResetDailyUsage()
	}
}

// CanGenerate reports whether the user may start a generation now.
func (g *Gate) CanGenerate() bool {
	g.CheckDailyReset()
	user := g.store.User()
	if user.HasPremium {
		return true
	}
	return user.GenerationsToday < g.limit
}

// Remaining returns how many generations are left today. The second
// return is true for premium users, whose allowance is unlimited and
// whose count is meaningless.
func (g *Gate) Remaining() (int, bool) {
	g.CheckDailyReset()
	user := g.store.User()
	if user.HasPremium {
		return 0, true
	}
	remaining := g.limit - user.GenerationsToday
	if remaining < 0 {
		remaining = 0
	}
	return remaining, false
}

// Limit returns the configured free-tier daily limit.
func (g *Gate) Limit() int {
	return g.limit
}

// RecordGeneration counts one successful generation against today.
func (g *Gate) RecordGeneration() {
	g.store.IncrementDailyUsage(g.now())
}
