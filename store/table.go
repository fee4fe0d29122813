package store

// table is a handle-indexed slot list with a free list for reuse.
// It does no locking; Store guards it.
type table struct {
	entries  []*entry
	freeList []Handle
	live     int
}

func newTable() table {
	return table{
		entries:  make([]*entry, 0, 16),
		freeList: make([]Handle, 0, 4),
	}
}

// insert stores e and returns its handle, reusing a freed slot when possible.
func (t *table) insert(e *entry) Handle {
	t.live++
	if n := len(t.freeList); n > 0 {
		h := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		t.entries[h-1] = e
		return h
	}
	t.entries = append(t.entries, e)
	return Handle(len(t.entries))
}

func (t *table) get(h Handle) (*entry, bool) {
	if h == 0 || int(h) > len(t.entries) {
		return nil, false
	}
	e := t.entries[h-1]
	return e, e != nil
}

func (t *table) remove(h Handle) (*entry, bool) {
	e, ok := t.get(h)
	if !ok {
		return nil, false
	}
	t.entries[h-1] = nil
	t.freeList = append(t.freeList, h)
	t.live--
	return e, true
}

func (t *table) len() int {
	return t.live
}

// each visits live entries in handle order until fn returns false.
func (t *table) each(fn func(Handle, *entry) bool) {
	for i, e := range t.entries {
		if e == nil {
			continue
		}
		if !fn(Handle(i+1), e) {
			return
		}
	}
}
