package waveform

import (
	"testing"
)

func sample() *Waveform {
	return &Waveform{
		Header: Header{Version: "1.0", Timescale: "1ns"},
		Signals: []Signal{
			{Name: "clk", Path: "/top/clk", Width: 1, Type: "wire"},
			{Name: "data", Path: "/top/data", Width: 8, Type: "reg"},
			{Name: "clk", Path: "/top/clk2", Width: 1, Type: "wire"},
			{Name: "rst", Path: "rst", Width: 1, Type: "wire"},
		},
		Changes: []Change{
			{Time: 20, Signal: 0, Value: "0"},
			{Time: 0, Signal: 0, Value: "1"},
			{Time: 10, Signal: 1, Value: "FF"},
			{Time: 10, Signal: 0, Value: "x"},
			{Time: 10, Signal: 0, Value: "z"},
		},
	}
}

func TestSignalLeaf(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"/top/clk", "clk"},
		{"top/sub/q", "q"},
		{"rst", "rst"},
		{"/top/", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := (Signal{Path: tt.path}).Leaf(); got != tt.want {
				t.Errorf("Leaf(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestSignalIndexFirstMatch(t *testing.T) {
	w := sample()
	idx, ok := w.SignalIndex("clk")
	if !ok || idx != 0 {
		t.Errorf("SignalIndex(clk) = %d, %v; want 0, true", idx, ok)
	}
	if _, ok := w.SignalIndex("missing"); ok {
		t.Error("SignalIndex(missing) should fail")
	}
}

func TestTimes(t *testing.T) {
	got := sample().Times()
	want := []uint64{0, 10, 20}
	if len(got) != len(want) {
		t.Fatalf("Times = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Times[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEndTime(t *testing.T) {
	if end := sample().EndTime(); end != 20 {
		t.Errorf("EndTime = %d, want 20", end)
	}
	if end := (&Waveform{}).EndTime(); end != 0 {
		t.Errorf("empty EndTime = %d, want 0", end)
	}
}

func TestChangesFor(t *testing.T) {
	w := sample()

	got := w.ChangesFor(0, 0, 100)
	want := []string{"1", "x", "z", "0"}
	if len(got) != len(want) {
		t.Fatalf("ChangesFor = %v, want values %v", got, want)
	}
	for i, v := range want {
		if got[i].Value != v {
			t.Errorf("change %d value = %q, want %q", i, got[i].Value, v)
		}
	}

	ranged := w.ChangesFor(0, 5, 15)
	if len(ranged) != 2 {
		t.Errorf("ranged len = %d, want 2", len(ranged))
	}
	if n := len(w.ChangesFor(3, 0, 100)); n != 0 {
		t.Errorf("rst changes = %d, want 0", n)
	}
}

func TestCountBySignal(t *testing.T) {
	counts := sample().CountBySignal()
	want := []int{4, 1, 0, 0}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %d, want %d", i, counts[i], want[i])
		}
	}
}
