// Package model defines the core memo and genre data types.
package model

import "time"

// Memo represents a stored note with an optional reminder.
type Memo struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	CreatedAt      time.Time  `json:"created_at"`
	NotificationAt *time.Time `json:"notification_at,omitempty"`
	RepeatRule     RepeatRule `json:"repeat_rule,omitempty"`
	SnoozeRule     SnoozeRule `json:"snooze_rule,omitempty"`
	SnoozeCount    int        `json:"snooze_count,omitempty"`
	Completed      bool       `json:"completed"`
	Deleted        bool       `json:"deleted"`
	Genre          string     `json:"genre"`
}

// HasReminder reports whether a notification time is set.
func (m Memo) HasReminder() bool {
	return m.NotificationAt != nil
}

// Clone returns a copy that shares no pointers with m.
func (m Memo) Clone() Memo {
	c := m
	if m.NotificationAt != nil {
		t := *m.NotificationAt
		c.NotificationAt = &t
	}
	return c
}

// CloneMemos copies a slice of memos.
func CloneMemos(memos []Memo) []Memo {
	out := make([]Memo, len(memos))
	for i, m := range memos {
		out[i] = m.Clone()
	}
	return out
}
