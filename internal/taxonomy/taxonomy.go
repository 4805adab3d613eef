package taxonomy

import (
	"strings"
	"sync"
)

// Taxonomy maps broad ("vague") symptom terms to ordered lists of more
// specific child terms and keeps a reverse child->parent index in lockstep.
// A single instance is shared by every consultation session; Register is the
// only mutation and is serialized by the mutex.
type Taxonomy struct {
	mu       sync.RWMutex
	children map[string][]string
	parents  map[string]string

	// Insertion order of keys. ClosestMatch scans these instead of the maps
	// so its result does not depend on map iteration order.
	parentOrder []string
	childOrder  []string
}

// New returns a taxonomy seeded with the built-in symptom hierarchy.
func New() *Taxonomy {
	t := &Taxonomy{
		children: make(map[string][]string),
		parents:  make(map[string]string),
	}
	for _, e := range seedHierarchy {
		for _, child := range e.children {
			t.Register(e.parent, child)
		}
	}
	return t
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}

// IsVague reports whether term has at least one registered child.
func (t *Taxonomy) IsVague(term string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.children[normalize(term)]) > 0
}

// Children returns the registered children of term in registration order.
// The returned slice is a copy and safe to retain.
func (t *Taxonomy) Children(term string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	kids := t.children[normalize(term)]
	if len(kids) == 0 {
		return nil
	}
	out := make([]string, len(kids))
	copy(out, kids)
	return out
}

// ParentOf returns the parent under which term is registered as a child.
func (t *Taxonomy) ParentOf(term string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	parent, ok := t.parents[normalize(term)]
	return parent, ok
}

// Register appends child under parent and updates the reverse index. It is
// idempotent: registering an existing pair is a no-op. A child known under a
// different parent is moved, so every child stays under exactly one parent.
func (t *Taxonomy) Register(parent, child string) {
	parent = normalize(parent)
	child = normalize(child)
	if parent == "" || child == "" || parent == child {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if prev, ok := t.parents[child]; ok {
		if prev == parent {
			return
		}
		t.children[prev] = remove(t.children[prev], child)
	} else {
		t.childOrder = append(t.childOrder, child)
	}

	if _, ok := t.children[parent]; !ok {
		t.parentOrder = append(t.parentOrder, parent)
	}
	t.children[parent] = append(t.children[parent], child)
	t.parents[child] = parent
}

// ClosestMatch resolves term to a known taxonomy key. Exact hits against
// parent keys and then child keys win; otherwise the first key (in insertion
// order) that contains term, or is contained in term, is returned. The
// substring pass is a deliberately permissive heuristic and can produce
// false positives ("rash" matches "skin rash" but also any term embedding
// it); callers rely on this looseness for degraded matching.
func (t *Taxonomy) ClosestMatch(term string) (string, bool) {
	term = normalize(term)
	if term == "" {
		return "", false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if _, ok := t.children[term]; ok {
		return term, true
	}
	if _, ok := t.parents[term]; ok {
		return term, true
	}
	for _, key := range t.parentOrder {
		if strings.Contains(key, term) || strings.Contains(term, key) {
			return key, true
		}
	}
	for _, key := range t.childOrder {
		if strings.Contains(key, term) || strings.Contains(term, key) {
			return key, true
		}
	}
	return "", false
}

func remove(terms []string, term string) []string {
	out := terms[:0]
	for _, t := range terms {
		if t != term {
			out = append(out, t)
		}
	}
	return out
}
