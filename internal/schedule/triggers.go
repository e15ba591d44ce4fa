package schedule

import (
	"strconv"
	"strings"
)

const (
	// MaxSnoozeLinks bounds a snooze chain.
	MaxSnoozeLinks = 100

	// MonthlyHorizon is how many monthly occurrences are precomputed.
	MonthlyHorizon = 12
)

const (
	repeatSuffix = "_repeat"
	monthlyInfix = "_monthly_"
	snoozeInfix  = "_snooze_"
)

// Kind identifies which part of a memo's trigger set an id belongs to.
type Kind int

const (
	KindInitial Kind = iota
	KindRepeat
	KindMonthly
	KindSnooze
)

func (k Kind) String() string {
	switch k {
	case KindInitial:
		return "initial"
	case KindRepeat:
		return "repeat"
	case KindMonthly:
		return "monthly"
	case KindSnooze:
		return "snooze"
	}
	return "unknown"
}

// IDSet is every trigger id a memo can own.
type IDSet struct {
	Initial string
	Repeat  string
	Monthly [MonthlyHorizon]string
	Snooze  [MaxSnoozeLinks]string
}

// TriggerIDs derives the trigger ids of a memo from its id alone, so that
// cancellation never depends on fire times.
func TriggerIDs(memoID string) IDSet {
	s := IDSet{
		Initial: memoID,
		Repeat:  memoID + repeatSuffix,
	}
	for i := range s.Monthly {
		s.Monthly[i] = memoID + monthlyInfix + strconv.Itoa(i+1)
	}
	for i := range s.Snooze {
		s.Snooze[i] = memoID + snoozeInfix + strconv.Itoa(i+1)
	}
	return s
}

// All returns the union of every id in the set.
func (s IDSet) All() []string {
	ids := make([]string, 0, 2+MonthlyHorizon+MaxSnoozeLinks)
	ids = append(ids, s.Initial, s.Repeat)
	ids = append(ids, s.Monthly[:]...)
	return append(ids, s.Snooze[:]...)
}

// SnoozeIDs returns the snooze chain ids only.
func (s IDSet) SnoozeIDs() []string {
	return append([]string(nil), s.Snooze[:]...)
}

// SnoozeID returns the id of chain link n (1-based).
func (s IDSet) SnoozeID(n int) string {
	return s.Snooze[n-1]
}

// ParseTriggerID splits a trigger id into the memo id, the kind and the
// link or month number (0 for initial and repeat ids).
func ParseTriggerID(id string) (memoID string, kind Kind, n int) {
	if base, ok := strings.CutSuffix(id, repeatSuffix); ok && base != "" {
		return base, KindRepeat, 0
	}
	if base, n, ok := cutNumbered(id, monthlyInfix, MonthlyHorizon); ok {
		return base, KindMonthly, n
	}
	if base, n, ok := cutNumbered(id, snoozeInfix, MaxSnoozeLinks); ok {
		return base, KindSnooze, n
	}
	return id, KindInitial, 0
}

func cutNumbered(id, infix string, max int) (string, int, bool) {
	i := strings.LastIndex(id, infix)
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(id[i+len(infix):])
	if err != nil || n < 1 || n > max {
		return "", 0, false
	}
	return id[:i], n, true
}
