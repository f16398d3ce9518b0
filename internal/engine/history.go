package engine

// HistoryLimit is how many completed computations the log keeps.
const HistoryLimit = 5

// History is the newest-first log of completed computations. The zero value
// is empty. Push returns a new History and never modifies the receiver's
// backing array, so states that share a History stay independent.
type History struct {
	entries []string
}

// Push records entry as the newest, dropping the oldest past HistoryLimit.
func (h History) Push(entry string) History {
	n := len(h.entries) + 1
	if n > HistoryLimit {
		n = HistoryLimit
	}

	entries := make([]string, 0, n)
	entries = append(entries, entry)
	entries = append(entries, h.entries[:n-1]...)

	return History{entries: entries}
}

// Entries returns a copy of the log, newest first.
func (h History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len is the number of entries held.
func (h History) Len() int {
	return len(h.entries)
}
