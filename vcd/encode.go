package vcd

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/wcp-tools/vcd/internal/scope"
	"github.com/wippyai/wcp-tools/waveform"
)

// VersionPrefix is prepended to the header version in the $version block.
const VersionPrefix = "WCP "

// Export renders wf as VCD text. It never fails; references to signals that
// do not exist are skipped.
func Export(wf *waveform.Waveform) string {
	var b strings.Builder
	// strings.Builder never returns a write error.
	_ = Encode(&b, wf)
	return b.String()
}

// Encode writes wf as VCD text to dst. The only possible error is a write
// failure of dst.
func Encode(dst io.Writer, wf *waveform.Waveform) error {
	w := newWriter(dst)

	encodeHeader(w, wf.Header)
	encodeDefinitions(w, wf.Signals)
	skipped := encodeChanges(w, wf)

	if skipped > 0 {
		Logger().Warn("vcd: skipped changes with unknown signal", zap.Int("count", skipped))
	}
	return w.flush()
}

func encodeHeader(w *writer, h waveform.Header) {
	w.block("date", h.Date)
	w.block("version", VersionPrefix+h.Version)
	w.keyword("timescale", h.Timescale)
}

func encodeDefinitions(w *writer, signals []waveform.Signal) {
	for _, g := range scope.Build(signals) {
		for _, seg := range g.Segments {
			w.keyword("scope", "module", seg)
		}
		for _, i := range g.Signals {
			s := signals[i]
			_, leaf := scope.Split(s.Path)
			w.keyword("var", s.Type, strconv.FormatUint(uint64(s.Width), 10), AllocateIdentifier(i), leaf)
		}
		for range g.Segments {
			w.keyword("upscope")
		}
	}
	w.keyword("enddefinitions")
}

// encodeChanges emits one #time marker per distinct timestamp in ascending
// order. Changes sharing a timestamp keep file order.
func encodeChanges(w *writer, wf *waveform.Waveform) (skipped int) {
	byTime := make(map[uint64][]int)
	var times []uint64
	for i, c := range wf.Changes {
		if _, ok := byTime[c.Time]; !ok {
			times = append(times, c.Time)
		}
		byTime[c.Time] = append(byTime[c.Time], i)
	}
	sort.Slice(times, func(i, j int) bool { return times[i] < times[j] })

	for _, t := range times {
		w.writeByte('#')
		w.writeUint(t)
		w.writeByte('\n')

		for _, ci := range byTime[t] {
			c := wf.Changes[ci]
			if !wf.Valid(c.Signal) {
				skipped++
				continue
			}
			encodeValue(w, wf.Signals[c.Signal].Width, c.Value, AllocateIdentifier(c.Signal))
		}
	}
	return skipped
}

// encodeValue writes a scalar change as "<value><id>" and anything wider as
// "b<value> <id>". Values pass through verbatim.
func encodeValue(w *writer, width uint, value, id string) {
	if width == 1 {
		w.writeString(value)
		w.writeString(id)
	} else {
		w.writeByte('b')
		w.writeString(value)
		w.writeByte(' ')
		w.writeString(id)
	}
	w.writeByte('\n')
}
