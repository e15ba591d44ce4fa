package memo

// EventType names a state change.
type EventType string

const (
	EventCreated           EventType = "created"
	EventUpdated           EventType = "updated"
	EventCompletionToggled EventType = "completion_toggled"
	EventDeleted           EventType = "deleted"
	EventRestored          EventType = "restored"
	EventPurged            EventType = "purged"
	EventGenreAdded        EventType = "genre_added"
	EventGenreRenamed      EventType = "genre_renamed"
	EventGenreDeleted      EventType = "genre_deleted"
	EventFilterChanged     EventType = "filter_changed"
	EventSnoozed           EventType = "snoozed"
	EventSnoozeStopped     EventType = "snooze_stopped"
	EventPersistFailed     EventType = "persist_failed"
)

// Event is published to subscribers after a change is applied.
type Event struct {
	Type   EventType `json:"type"`
	MemoID string    `json:"memo_id,omitempty"`
	Genre  string    `json:"genre,omitempty"`
	Err    error     `json:"-"`
}

const subscriberBuffer = 64

// Subscribe returns a channel of events and a function that ends the
// subscription. Events are dropped for a subscriber whose buffer is full.
func (m *Manager) Subscribe() (<-chan Event, func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextSub
	m.nextSub++
	ch := make(chan Event, subscriberBuffer)
	m.subs[id] = ch

	return ch, func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		if c, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(c)
		}
	}
}

func (m *Manager) emit(e Event) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- e:
		default:
		}
	}
}
