// Package store holds open waveforms by name.
//
// A Store is an explicitly owned value; there is no package-level state
// besides the logger. Each open waveform gets a Handle from a slot table that
// reuses freed handles, and every access goes through one sync.RWMutex:
//
//	st := store.New()
//	info, err := st.OpenFile("counter.wcp")
//	tree, err := st.Hierarchy(info.Name)
//	changes, err := st.Changes(info.Name, 0, 0, info.EndTime)
//
// Files ending in ".vcd" are decoded as VCD, everything else is parsed as
// WCP. Observers registered with Subscribe are told about opens and closes
// after the lock is released.
package store
