package vcd

import (
	"errors"
	"strings"
	"testing"

	wcperrors "github.com/wippyai/wcp-tools/errors"
)

func TestDecodeRoundTrip(t *testing.T) {
	src := mustParse(t, sample)

	got, err := Decode(strings.NewReader(Export(src)))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if got.Header != src.Header {
		t.Errorf("Header = %+v, want %+v", got.Header, src.Header)
	}
	if len(got.Signals) != len(src.Signals) {
		t.Fatalf("signals = %d, want %d", len(got.Signals), len(src.Signals))
	}
	for i, s := range got.Signals {
		want := src.Signals[i]
		if s.Path != want.Path || s.Width != want.Width || s.Type != want.Type {
			t.Errorf("signal %d = %+v, want %+v", i, s, want)
		}
		if s.Name != AllocateIdentifier(i) {
			t.Errorf("signal %d name = %q, want identifier %q", i, s.Name, AllocateIdentifier(i))
		}
	}

	if len(got.Changes) != len(src.Changes) {
		t.Fatalf("changes = %d, want %d", len(got.Changes), len(src.Changes))
	}
	for i, c := range got.Changes {
		if c != src.Changes[i] {
			t.Errorf("change %d = %+v, want %+v", i, c, src.Changes[i])
		}
	}

	if again := Export(got); again != Export(src) {
		t.Errorf("re-export differs\n got:\n%s\nwant:\n%s", again, Export(src))
	}
}

func TestDecodeEmptyVersion(t *testing.T) {
	wf, err := Decode(strings.NewReader("$version WCP $end\n$enddefinitions $end\n"))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if wf.Header.Version != "" {
		t.Errorf("Version = %q, want empty", wf.Header.Version)
	}
}

func TestDecodeForeignVCD(t *testing.T) {
	src := `$comment produced elsewhere $end
$version Icarus Verilog $end
$timescale 10ps $end
$scope module tb $end
$scope module dut $end
$var wire 4 % bus [3:0] $end
$upscope $end
$var reg 1 & rst $end
$upscope $end
$var wire 1 ' top $end
$enddefinitions $end
$dumpvars
b0000 %
1&
$end
#5
0&
b1x1z %
`
	wf, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if wf.Header.Version != "Icarus Verilog" || wf.Header.Timescale != "10ps" {
		t.Errorf("Header = %+v", wf.Header)
	}

	wantPaths := []string{"/tb/dut/bus[3:0]", "/tb/rst", "top"}
	for i, p := range wantPaths {
		if wf.Signals[i].Path != p {
			t.Errorf("signal %d path = %q, want %q", i, wf.Signals[i].Path, p)
		}
	}
	if len(wf.Changes) != 4 {
		t.Fatalf("changes = %d, want 4", len(wf.Changes))
	}
	last := wf.Changes[3]
	if last.Time != 5 || last.Signal != 0 || last.Value != "1x1z" {
		t.Errorf("last change = %+v", last)
	}
}

func TestDecodeSharedIdentifier(t *testing.T) {
	src := `$var wire 1 ! a $end
$var wire 1 ! b $end
$enddefinitions $end
#1
1!
`
	wf, err := Decode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(wf.Changes) != 2 {
		t.Fatalf("changes = %d, want one per aliased signal", len(wf.Changes))
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		kind wcperrors.Kind
		line int
	}{
		{"missing enddefinitions", "$var wire 1 ! a $end\n", wcperrors.KindInvalidData, 1},
		{"change before definitions", "$var wire 1 ! a $end\n1!\n", wcperrors.KindInvalidData, 2},
		{"unknown identifier", "$enddefinitions $end\n#0\n1?\n", wcperrors.KindInvalidData, 3},
		{"bad time", "$enddefinitions $end\n#x\n", wcperrors.KindInvalidData, 2},
		{"unterminated block", "$date\n today\n", wcperrors.KindInvalidData, 1},
		{"unbalanced upscope", "$upscope $end\n", wcperrors.KindInvalidData, 1},
		{"zero width", "$var wire 0 ! a $end\n", wcperrors.KindInvalidData, 1},
		{"short var", "$var wire 1 ! $end\n", wcperrors.KindInvalidData, 1},
		{"real value", "$var real 64 ! r $end\n$enddefinitions $end\nr1.5 !\n", wcperrors.KindUnsupported, 3},
		{"vector without id", "$var wire 2 ! a $end\n$enddefinitions $end\nb01\n", wcperrors.KindInvalidData, 3},
		{"garbage change", "$enddefinitions $end\nq!\n", wcperrors.KindInvalidData, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("expected error")
			}
			var e *wcperrors.Error
			if !errors.As(err, &e) {
				t.Fatalf("error %v is not *errors.Error", err)
			}
			if e.Phase != wcperrors.PhaseDecode || e.Kind != tt.kind {
				t.Errorf("got [%s] %s, want [decode] %s", e.Phase, e.Kind, tt.kind)
			}
			if e.Line != tt.line {
				t.Errorf("Line = %d, want %d", e.Line, tt.line)
			}
		})
	}
}

type faultReader struct{}

func (faultReader) Read([]byte) (int, error) {
	return 0, errors.New("device lost")
}

func TestDecodeIOError(t *testing.T) {
	_, err := Decode(faultReader{})
	if !errors.Is(err, &wcperrors.Error{Phase: wcperrors.PhaseDecode, Kind: wcperrors.KindIO}) {
		t.Fatalf("expected decode io error, got %v", err)
	}
}
