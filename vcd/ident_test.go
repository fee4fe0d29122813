package vcd

import (
	"testing"
)

func TestAllocateIdentifier(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "!"},
		{1, "\""},
		{2, "#"},
		{93, "~"},
		{94, "_94"},
		{199, "_199"},
		{1000, "_1000"},
	}
	for _, tt := range tests {
		if got := AllocateIdentifier(tt.index); got != tt.want {
			t.Errorf("AllocateIdentifier(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestAllocateIdentifierUnique(t *testing.T) {
	seen := make(map[string]int)
	for i := 0; i < 200; i++ {
		id := AllocateIdentifier(i)
		if prev, dup := seen[id]; dup {
			t.Fatalf("identifier %q allocated to %d and %d", id, prev, i)
		}
		seen[id] = i
	}
}

func TestAllocateIdentifierPrintable(t *testing.T) {
	for i := 0; i < identAlphabet; i++ {
		id := AllocateIdentifier(i)
		if len(id) != 1 || id[0] <= ' ' || id[0] > '~' {
			t.Errorf("AllocateIdentifier(%d) = %q is not a single printable glyph", i, id)
		}
	}
}
