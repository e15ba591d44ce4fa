package model

import (
	"fmt"
	"time"
)

// RepeatRule controls periodic re-notification after the initial fire.
type RepeatRule string

const (
	RepeatNone       RepeatRule = "none"
	RepeatEvery30Min RepeatRule = "every_30min"
	RepeatEveryHour  RepeatRule = "every_hour"
	RepeatDaily      RepeatRule = "daily"
	RepeatWeekly     RepeatRule = "weekly"
	RepeatMonthly    RepeatRule = "monthly"
)

// RepeatRules lists every rule in display order.
var RepeatRules = []RepeatRule{
	RepeatNone, RepeatEvery30Min, RepeatEveryHour, RepeatDaily, RepeatWeekly, RepeatMonthly,
}

// IsNone reports whether no repeat applies. The empty value decodes from
// records written before the field existed.
func (r RepeatRule) IsNone() bool {
	return r == "" || r == RepeatNone
}

// Interval returns the fixed repeat interval. Monthly has none because
// calendar months vary in length.
func (r RepeatRule) Interval() (time.Duration, bool) {
	switch r {
	case RepeatEvery30Min:
		return 30 * time.Minute, true
	case RepeatEveryHour:
		return time.Hour, true
	case RepeatDaily:
		return 24 * time.Hour, true
	case RepeatWeekly:
		return 7 * 24 * time.Hour, true
	}
	return 0, false
}

// ParseRepeatRule validates s. An empty string means none.
func ParseRepeatRule(s string) (RepeatRule, error) {
	if s == "" {
		return RepeatNone, nil
	}
	for _, r := range RepeatRules {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid repeat rule %q (valid: none, every_30min, every_hour, daily, weekly, monthly)", s)
}

// SnoozeRule controls the snooze chain that follows the initial fire.
type SnoozeRule string

const (
	SnoozeNone  SnoozeRule = "none"
	Snooze1Min  SnoozeRule = "1min"
	Snooze5Min  SnoozeRule = "5min"
	Snooze10Min SnoozeRule = "10min"
	Snooze30Min SnoozeRule = "30min"
	Snooze1Hour SnoozeRule = "1hour"
)

// SnoozeRules lists every rule in display order.
var SnoozeRules = []SnoozeRule{
	SnoozeNone, Snooze1Min, Snooze5Min, Snooze10Min, Snooze30Min, Snooze1Hour,
}

// IsNone reports whether snoozing is off.
func (r SnoozeRule) IsNone() bool {
	return r == "" || r == SnoozeNone
}

// Duration returns the delay between snooze links, or 0 for none.
func (r SnoozeRule) Duration() time.Duration {
	switch r {
	case Snooze1Min:
		return time.Minute
	case Snooze5Min:
		return 5 * time.Minute
	case Snooze10Min:
		return 10 * time.Minute
	case Snooze30Min:
		return 30 * time.Minute
	case Snooze1Hour:
		return time.Hour
	}
	return 0
}

// ParseSnoozeRule validates s. An empty string means none.
func ParseSnoozeRule(s string) (SnoozeRule, error) {
	if s == "" {
		return SnoozeNone, nil
	}
	for _, r := range SnoozeRules {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid snooze rule %q (valid: none, 1min, 5min, 10min, 30min, 1hour)", s)
}
