package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepeatRuleInterval(t *testing.T) {
	tests := []struct {
		rule RepeatRule
		want time.Duration
		ok   bool
	}{
		{RepeatNone, 0, false},
		{"", 0, false},
		{RepeatEvery30Min, 30 * time.Minute, true},
		{RepeatEveryHour, time.Hour, true},
		{RepeatDaily, 24 * time.Hour, true},
		{RepeatWeekly, 7 * 24 * time.Hour, true},
		{RepeatMonthly, 0, false},
	}
	for _, tt := range tests {
		got, ok := tt.rule.Interval()
		assert.Equal(t, tt.want, got, tt.rule)
		assert.Equal(t, tt.ok, ok, tt.rule)
	}
	assert.True(t, RepeatRule("").IsNone())
	assert.False(t, RepeatMonthly.IsNone())
}

func TestSnoozeRuleDuration(t *testing.T) {
	assert.Equal(t, time.Duration(0), SnoozeNone.Duration())
	assert.Equal(t, time.Minute, Snooze1Min.Duration())
	assert.Equal(t, 5*time.Minute, Snooze5Min.Duration())
	assert.Equal(t, 10*time.Minute, Snooze10Min.Duration())
	assert.Equal(t, 30*time.Minute, Snooze30Min.Duration())
	assert.Equal(t, time.Hour, Snooze1Hour.Duration())
	assert.True(t, SnoozeRule("").IsNone())
}

func TestParseRules(t *testing.T) {
	r, err := ParseRepeatRule("")
	require.NoError(t, err)
	assert.Equal(t, RepeatNone, r)

	r, err = ParseRepeatRule("monthly")
	require.NoError(t, err)
	assert.Equal(t, RepeatMonthly, r)

	_, err = ParseRepeatRule("yearly")
	assert.Error(t, err)

	s, err := ParseSnoozeRule("30min")
	require.NoError(t, err)
	assert.Equal(t, Snooze30Min, s)

	_, err = ParseSnoozeRule("2min")
	assert.Error(t, err)
}

func TestDefaultGenres(t *testing.T) {
	genres := DefaultGenres()
	require.Len(t, genres, 6)

	seen := map[string]bool{}
	for _, g := range genres {
		assert.True(t, g.IsDefault)
		assert.NotEmpty(t, g.ID)
		seen[g.Name] = true
	}
	for _, name := range []string{AllNotesGenre, FallbackGenre, "", "Work", "Private", "Shopping"} {
		assert.True(t, seen[name], name)
	}

	assert.True(t, IsBlankGenre(""))
	assert.True(t, IsBlankGenre(PlaceholderGenre))
	assert.False(t, IsBlankGenre("Work"))
}

func TestMemoClone(t *testing.T) {
	at := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	m := Memo{ID: "a", NotificationAt: &at}
	c := m.Clone()
	*c.NotificationAt = at.Add(time.Hour)
	assert.Equal(t, at, *m.NotificationAt)
	assert.True(t, m.HasReminder())
	assert.False(t, Memo{}.HasReminder())
}
