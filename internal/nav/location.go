package nav

import "strings"

// Location is the address bar the shell reads its fragment from and
// commits fragments to.
type Location interface {
	Hash() string
	SetHash(fragment string)
}

// NormalizeHash returns fragment the way a browser reports location.hash:
// "" for an empty fragment, otherwise prefixed with a single "#".
func NormalizeHash(fragment string) string {
	if fragment == "" || fragment == "#" {
		return ""
	}
	if !strings.HasPrefix(fragment, "#") {
		return "#" + fragment
	}
	return fragment
}

// MemoryLocation is an in-process address bar with back/forward history.
// Writing the current value again is a no-op and emits nothing, like a
// browser assigning an unchanged location.hash.
//
// MemoryLocation is not safe for concurrent use.
type MemoryLocation struct {
	entries  []string
	index    int
	onChange func(string)
}

// NewMemoryLocation returns a location showing initial.
func NewMemoryLocation(initial string) *MemoryLocation {
	return &MemoryLocation{entries: []string{NormalizeHash(initial)}}
}

// OnChange registers the hash-change listener. The listener is called
// synchronously from whichever method changed the hash; hosts that want
// browser-like asynchronous delivery should queue the value instead of
// acting on it in place.
func (l *MemoryLocation) OnChange(fn func(fragment string)) {
	l.onChange = fn
}

// Hash returns the current fragment.
func (l *MemoryLocation) Hash() string {
	return l.entries[l.index]
}

// SetHash pushes a new history entry, dropping any forward entries.
func (l *MemoryLocation) SetHash(fragment string) {
	fragment = NormalizeHash(fragment)
	if fragment == l.Hash() {
		return
	}
	l.entries = append(l.entries[:l.index+1], fragment)
	l.index = len(l.entries) - 1
	l.notify()
}

// Navigate is a user-typed address change.
func (l *MemoryLocation) Navigate(fragment string) {
	l.SetHash(fragment)
}

// Back moves one entry back. It reports false at the start of history.
func (l *MemoryLocation) Back() bool {
	if l.index == 0 {
		return false
	}
	l.index--
	l.notify()
	return true
}

// Forward moves one entry forward. It reports false at the end of history.
func (l *MemoryLocation) Forward() bool {
	if l.index == len(l.entries)-1 {
		return false
	}
	l.index++
	l.notify()
	return true
}

// History returns a copy of the entries and the current index.
func (l *MemoryLocation) History() ([]string, int) {
	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out, l.index
}

func (l *MemoryLocation) notify() {
	if l.onChange != nil {
		l.onChange(l.Hash())
	}
}
