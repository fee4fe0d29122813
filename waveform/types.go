package waveform

import (
	"sort"
	"strings"
)

// DefaultSignalType is the variable kind used when a signal declares none.
const DefaultSignalType = "wire"

type Header struct {
	Version   string `json:"version"`
	Timescale string `json:"timescale"`
	Date      string `json:"date"`
}

type Signal struct {
	// Name is the reference token used by value-change lines.
	Name string `json:"name"`
	// Path is the slash-delimited hierarchical name.
	Path  string `json:"path"`
	Width uint   `json:"width"`
	Type  string `json:"type"`
}

// Leaf returns the last path segment, the signal's display name.
func (s Signal) Leaf() string {
	if i := strings.LastIndexByte(s.Path, '/'); i >= 0 {
		return s.Path[i+1:]
	}
	return s.Path
}

type Change struct {
	Time   uint64 `json:"time"`
	Signal int    `json:"signal"`
	Value  string `json:"value"`
}

type Waveform struct {
	Header  Header   `json:"header"`
	Signals []Signal `json:"signals"`
	Changes []Change `json:"changes"`
}

// SignalIndex returns the index of the first signal declared with name.
func (w *Waveform) SignalIndex(name string) (int, bool) {
	for i := range w.Signals {
		if w.Signals[i].Name == name {
			return i, true
		}
	}
	return 0, false
}

// Valid reports whether i indexes the signal table.
func (w *Waveform) Valid(i int) bool {
	return i >= 0 && i < len(w.Signals)
}

// Times returns the distinct change timestamps in ascending order.
func (w *Waveform) Times() []uint64 {
	seen := make(map[uint64]struct{}, len(w.Changes))
	times := make([]uint64, 0, len(w.Changes))
	for _, c := range w.Changes {
		if _, ok := seen[c.Time]; ok {
			continue
		}
		seen[c.Time] = struct{}{}
		times = append(times, c.Time)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })
	return times
}

// EndTime returns the largest change timestamp, or 0 without changes.
func (w *Waveform) EndTime() uint64 {
	var end uint64
	for _, c := range w.Changes {
		if c.Time > end {
			end = c.Time
		}
	}
	return end
}

// ChangesFor returns the changes of one signal with start <= time <= end,
// ascending by time. Changes sharing a timestamp keep file order.
func (w *Waveform) ChangesFor(signal int, start, end uint64) []Change {
	var out []Change
	for _, c := range w.Changes {
		if c.Signal != signal || c.Time < start || c.Time > end {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// CountBySignal returns how many changes each signal has, indexed like Signals.
func (w *Waveform) CountBySignal() []int {
	counts := make([]int, len(w.Signals))
	for _, c := range w.Changes {
		if w.Valid(c.Signal) {
			counts[c.Signal]++
		}
	}
	return counts
}
