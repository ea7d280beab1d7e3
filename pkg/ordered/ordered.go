// Package ordered provides an insertion-ordered map with reordering.
package ordered

import (
	"errors"
	"fmt"
	"sort"
)

var ErrKeyNotFound = errors.New("key not found")

// Entry is one slot of a Map. Passthrough entries carry no key.
type Entry[V any] struct {
	Key         string
	Value       V
	Passthrough bool
}

// Map keeps string keys in insertion order. Keys are unique; passthrough
// entries (comments, blank lines) may repeat and are skipped by Keys/Values.
type Map[V any] struct {
	entries []Entry[V]
	index   map[string]int
}

func New[V any]() *Map[V] {
	return &Map[V]{index: make(map[string]int)}
}

func (m *Map[V]) Set(key string, value V) {
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry[V]{Key: key, Value: value})
}

// Append adds a keyless passthrough entry at the end.
func (m *Map[V]) Append(value V) {
	m.entries = append(m.entries, Entry[V]{Value: value, Passthrough: true})
}

func (m *Map[V]) Get(key string) (V, bool) {
	i, ok := m.index[key]
	if !ok {
		var zero V
		return zero, false
	}
	return m.entries[i].Value, true
}

func (m *Map[V]) MustGet(key string) (V, error) {
	v, ok := m.Get(key)
	if !ok {
		return v, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return v, nil
}

func (m *Map[V]) Contains(key string) bool {
	_, ok := m.index[key]
	return ok
}

// Delete removes key, leaving the order of the rest untouched.
func (m *Map[V]) Delete(key string) bool {
	i, ok := m.index[key]
	if !ok {
		return false
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	m.reindex()
	return true
}

// Len counts keyed entries only.
func (m *Map[V]) Len() int {
	return len(m.index)
}

func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, len(m.index))
	for _, e := range m.entries {
		if !e.Passthrough {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

func (m *Map[V]) Values() []V {
	values := make([]V, 0, len(m.index))
	for _, e := range m.entries {
		if !e.Passthrough {
			values = append(values, e.Value)
		}
	}
	return values
}

// Entries returns a copy of every slot, passthrough included.
func (m *Map[V]) Entries() []Entry[V] {
	out := make([]Entry[V], len(m.entries))
	copy(out, m.entries)
	return out
}

// Reorder moves key to position index among the keyed entries. Passthrough
// entries keep their absolute slots. index is clamped to the valid range.
func (m *Map[V]) Reorder(index int, key string) error {
	if !m.Contains(key) {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	keyed, slots := m.keyed()

	from := 0
	for i, e := range keyed {
		if e.Key == key {
			from = i
			break
		}
	}
	if index < 0 {
		index = 0
	}
	if index >= len(keyed) {
		index = len(keyed) - 1
	}

	moved := keyed[from]
	keyed = append(keyed[:from], keyed[from+1:]...)
	keyed = append(keyed[:index], append([]Entry[V]{moved}, keyed[index:]...)...)

	m.place(keyed, slots)
	return nil
}

// Sort orders keyed entries alphabetically by key.
func (m *Map[V]) Sort() {
	keyed, slots := m.keyed()
	sort.SliceStable(keyed, func(i, j int) bool {
		return keyed[i].Key < keyed[j].Key
	})
	m.place(keyed, slots)
}

// Promote moves the given keys, when present, to the leading keyed positions
// in the order given.
func (m *Map[V]) Promote(keys ...string) {
	pos := 0
	for _, k := range keys {
		if !m.Contains(k) {
			continue
		}
		_ = m.Reorder(pos, k)
		pos++
	}
}

func (m *Map[V]) keyed() ([]Entry[V], []int) {
	keyed := make([]Entry[V], 0, len(m.index))
	slots := make([]int, 0, len(m.index))
	for i, e := range m.entries {
		if !e.Passthrough {
			keyed = append(keyed, e)
			slots = append(slots, i)
		}
	}
	return keyed, slots
}

func (m *Map[V]) place(keyed []Entry[V], slots []int) {
	for i, slot := range slots {
		m.entries[slot] = keyed[i]
	}
	m.reindex()
}

func (m *Map[V]) reindex() {
	m.index = make(map[string]int, len(m.entries))
	for i, e := range m.entries {
		if !e.Passthrough {
			m.index[e.Key] = i
		}
	}
}
