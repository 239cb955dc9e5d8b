package editor

// OperationLog is an append-only audit trail of applied transforms. Undo does
// not remove entries.
type OperationLog struct {
	entries []string
}

// Append records one entry.
func (l *OperationLog) Append(entry string) {
	l.entries = append(l.entries, entry)
}

// Entries returns a copy of the log in application order.
func (l *OperationLog) Entries() []string {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}
