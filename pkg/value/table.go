package value

// loadFactor is the fraction of capacity the table is allowed to fill
// before growing.
const loadFactor = 0.75

// entry is one slot in the table's backing array. A slot with a nil Key and
// a Nil Value is a true empty slot. A slot with a nil Key and a Bool(true)
// Value is a tombstone: a deleted entry kept around so probe sequences
// that passed through it still find entries placed after it.
type entry struct {
	Key   *ObjString
	Value Value
}

func isTombstone(e entry) bool {
	return e.Key == nil && e.Value.IsBool() && e.Value.AsBool()
}

// Table is an open-addressed, linear-probing hash map from interned
// string to Value. It backs the VM's globals table, the string intern
// pool (where the Value half is unused), class method tables, and
// instance field tables.
type Table struct {
	count   int // live entries plus tombstones; grow drops the tombstones
	entries []entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Count returns the number of occupied slots: live entries plus any
// tombstones Delete or RemoveUnmarked has left since the table last grew.
func (t *Table) Count() int { return t.count }

// Get looks up key and reports whether it was present.
func (t *Table) Get(key *ObjString) (Value, bool) {
	if len(t.entries) == 0 {
		return Nil, false
	}
	e := t.findEntry(t.entries, key)
	if e.Key == nil {
		return Nil, false
	}
	return e.Value, true
}

// Set inserts or overwrites key's value, growing the backing array first
// if the new count would exceed the load factor. It reports whether key
// was not already present (a new entry).
func (t *Table) Set(key *ObjString, value Value) bool {
	if float64(t.count+1) > float64(len(t.entries))*loadFactor {
		t.grow(growCapacity(len(t.entries)))
	}

	idx := t.findEntryIndex(t.entries, key)
	e := &t.entries[idx]
	isNewKey := e.Key == nil
	if isNewKey && e.Value.IsNil() {
		// A brand new slot, not a reused tombstone: count only increases
		// in this case, since tombstones are already counted as occupied
		// for load-factor purposes.
		t.count++
	}
	e.Key = key
	e.Value = value
	return isNewKey
}

// Delete removes key, leaving a tombstone in its slot so later probes
// still reach entries placed after it. It reports whether key was present.
func (t *Table) Delete(key *ObjString) bool {
	if len(t.entries) == 0 {
		return false
	}
	e := t.findEntry(t.entries, key)
	if e.Key == nil {
		return false
	}
	e.Key = nil
	e.Value = Bool(true)
	return true
}

// FindString probes for a string equal in length, hash, and bytes to
// (chars, hash), without requiring the caller to already hold an
// *ObjString for it. The interner uses this to check whether a freshly
// scanned literal is already present before allocating a new ObjString.
func (t *Table) FindString(chars string, hash uint32) *ObjString {
	if len(t.entries) == 0 {
		return nil
	}
	capacity := len(t.entries)
	idx := int(hash) & (capacity - 1)
	for {
		e := &t.entries[idx]
		if e.Key == nil {
			if !isTombstone(*e) {
				return nil
			}
		} else if e.Key.Hash == hash && e.Key.Chars == chars {
			return e.Key
		}
		idx = (idx + 1) & (capacity - 1)
	}
}

// AddAll copies every live entry of t into dst.
func (t *Table) AddAll(dst *Table) {
	for _, e := range t.entries {
		if e.Key != nil {
			dst.Set(e.Key, e.Value)
		}
	}
}

// RemoveUnmarked deletes every live entry whose key is not marked. Used by
// the collector to drop weak references to strings that the mark phase
// found unreachable, before the sweep phase frees them.
func (t *Table) RemoveUnmarked() {
	for i := range t.entries {
		e := &t.entries[i]
		if e.Key != nil && !e.Key.Marked() {
			e.Key = nil
			e.Value = Bool(true)
		}
	}
}

// Each calls fn for every live (key, value) pair. fn must not mutate t.
func (t *Table) Each(fn func(key *ObjString, value Value)) {
	for _, e := range t.entries {
		if e.Key != nil {
			fn(e.Key, e.Value)
		}
	}
}

func growCapacity(capacity int) int {
	if capacity < 8 {
		return 8
	}
	return capacity * 2
}

func (t *Table) grow(capacity int) {
	newEntries := make([]entry, capacity)
	newCount := 0
	for _, e := range t.entries {
		if e.Key == nil {
			continue
		}
		dst := findEntryIndexIn(newEntries, e.Key)
		newEntries[dst] = e
		newCount++
	}
	t.entries = newEntries
	t.count = newCount
}

// findEntry returns a pointer into t.entries for key: either the slot
// already holding it, the first tombstone seen along the probe sequence
// (falling back to the first true-empty slot if no tombstone is found),
// whichever comes first for an absent key.
func (t *Table) findEntry(entries []entry, key *ObjString) *entry {
	return &entries[t.findEntryIndex(entries, key)]
}

func (t *Table) findEntryIndex(entries []entry, key *ObjString) int {
	return findEntryIndexIn(entries, key)
}

func findEntryIndexIn(entries []entry, key *ObjString) int {
	capacity := len(entries)
	idx := int(key.Hash) & (capacity - 1)
	var tombstone = -1
	for {
		e := &entries[idx]
		if e.Key == nil {
			if e.Value.IsNil() {
				if tombstone != -1 {
					return tombstone
				}
				return idx
			}
			if tombstone == -1 {
				tombstone = idx
			}
		} else if e.Key == key {
			return idx
		}
		idx = (idx + 1) & (capacity - 1)
	}
}
