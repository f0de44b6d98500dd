package contract

import (
	"sort"
	"sync"
)

// lockTable hands out named mutexes. Entries are refcounted so the map only
// holds names somebody is using or waiting on.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: map[string]*lockEntry{}}
}

// acquire locks every name in sorted order, which rules out lock cycles between
// calls. The returned func releases them in reverse.
func (t *lockTable) acquire(names []string) func() {
	sorted := uniqueSorted(names)
	entries := make([]*lockEntry, 0, len(sorted))
	for _, name := range sorted {
		e := t.ref(name)
		e.mu.Lock()
		entries = append(entries, e)
	}
	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].mu.Unlock()
			t.unref(sorted[i])
		}
	}
}

func (t *lockTable) ref(name string) *lockEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.locks[name]
	if !ok {
		e = &lockEntry{}
		t.locks[name] = e
	}
	e.refs++
	return e
}

func (t *lockTable) unref(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e := t.locks[name]
	e.refs--
	if e.refs == 0 {
		delete(t.locks, name)
	}
}

// size is the number of live entries, tests use it to check nothing leaks.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}

func uniqueSorted(names []string) []string {
	out := append([]string(nil), names...)
	sort.Strings(out)
	n := 0
	for i, s := range out {
		if i > 0 && s == out[n-1] {
			continue
		}
		out[n] = s
		n++
	}
	return out[:n]
}
