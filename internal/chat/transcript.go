package chat

import "github.com/sprite-ai/medrag/internal/model"

// Transcript is the append-only chat history. Entries are never edited or
// removed once appended; an entry's index is its stable key.
type Transcript struct {
	entries []model.Entry
}

func (t *Transcript) append(e model.Entry) int {
	t.entries = append(t.entries, e)
	return len(t.entries) - 1
}

// Len returns the number of entries.
func (t *Transcript) Len() int {
	return len(t.entries)
}

// Entries returns a copy of all entries in display order.
func (t *Transcript) Entries() []model.Entry {
	return t.Since(0)
}

// Since returns a copy of the entries at index n and after.
func (t *Transcript) Since(n int) []model.Entry {
	if n < 0 {
		n = 0
	}
	if n >= len(t.entries) {
		return nil
	}
	out := make([]model.Entry, len(t.entries)-n)
	copy(out, t.entries[n:])
	return out
}

// Last returns the most recent entry of the given kind.
func (t *Transcript) Last(kind model.Kind) (model.Entry, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Kind == kind {
			return t.entries[i], true
		}
	}
	return model.Entry{}, false
}
