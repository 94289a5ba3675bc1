// Package dict holds the process-wide dictionary registry: the union of
// every loaded word list plus the user's personal dictionary. Membership is
// case-insensitive; the registry stores only folded forms. Dictionaries are
// strictly additive: loading never removes previously known words.
package dict

import (
	"sync"

	"golang.org/x/text/cases"
)

// Origin identifies where a dictionary came from.
type Origin uint8

const (
	// OriginBundled marks a configured or shipped word list.
	OriginBundled Origin = iota
	// OriginPersonal marks the user-maintained dictionary.
	OriginPersonal
)

// Dictionary is one loaded word set.
type Dictionary struct {
	Tag    string
	Words  []string
	Origin Origin
}

// Appender persists a single word to durable storage. The registry calls it
// synchronously after the in-memory insert; a failing Appender does not undo
// the insert.
type Appender interface {
	Append(word string) error
}

// Fold returns the case-folded form used as a dictionary key.
// cases.Caser carries state, so a fresh one is built per call.
func Fold(word string) string {
	return cases.Fold().String(word)
}

// Registry answers membership queries for every open document concurrently.
// Reads take the read lock; Add and Load are the only mutators.
type Registry struct {
	mu       sync.RWMutex
	union    map[string]struct{}
	personal map[string]struct{}
	session  map[string]struct{} // ignored words, never persisted
	appender Appender
}

// NewRegistry creates an empty registry. appender may be nil, in which case
// Add keeps words in memory only.
func NewRegistry(appender Appender) *Registry {
	return &Registry{
		union:    make(map[string]struct{}),
		personal: make(map[string]struct{}),
		session:  make(map[string]struct{}),
		appender: appender,
	}
}

// Contains reports whether the folded word is known to at least one loaded
// dictionary, the personal dictionary, or the session ignore list.
func (r *Registry) Contains(word string) bool {
	key := Fold(word)
	r.mu.RLock()
	defer r.mu.RUnlock()
	if _, ok := r.union[key]; ok {
		return true
	}
	_, ok := r.session[key]
	return ok
}

// Add inserts the word into the personal dictionary and appends it to
// durable storage. On persistence failure the in-memory insert stays
// effective for the rest of the session and the error is returned so the
// caller can surface a failed command.
func (r *Registry) Add(word string) error {
	key := Fold(word)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.personal[key] = struct{}{}
	r.union[key] = struct{}{}
	if r.appender == nil {
		return nil
	}
	return r.appender.Append(key)
}

// AddSession marks the word as known for this session only.
func (r *Registry) AddSession(word string) {
	key := Fold(word)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.session[key] = struct{}{}
}

// Load merges a word set into the registry.
func (r *Registry) Load(d Dictionary) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range d.Words {
		key := Fold(w)
		r.union[key] = struct{}{}
		if d.Origin == OriginPersonal {
			r.personal[key] = struct{}{}
		}
	}
}

// Size returns the number of distinct known words, session ignores excluded.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.union)
}

// PersonalWords returns a snapshot of the personal dictionary.
func (r *Registry) PersonalWords() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.personal))
	for w := range r.personal {
		out = append(out, w)
	}
	return out
}
