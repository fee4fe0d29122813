package wcp

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/wcp-tools/errors"
)

// Integration tests for the public Parse API.
// Unit tests are in internal packages.

const sample = `
# Test WCP file
HEADER
version: 1.0
timescale: 1ns
date: 2026-02-11
END_HEADER

SIGNALS
clk: /top/clk width:1 type:wire
data: /top/data width:8 type:reg
END_SIGNALS

WAVEFORM
0: clk=0, data=00
10: clk=1
20: clk=0, data=FF
30: clk=1
END_WAVEFORM
`

func TestParse(t *testing.T) {
	wf, err := ParseString(sample)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if wf.Header.Version != "1.0" {
		t.Errorf("version = %q, want 1.0", wf.Header.Version)
	}
	if wf.Header.Timescale != "1ns" {
		t.Errorf("timescale = %q, want 1ns", wf.Header.Timescale)
	}
	if wf.Header.Date != "2026-02-11" {
		t.Errorf("date = %q, want 2026-02-11", wf.Header.Date)
	}
	if len(wf.Signals) != 2 {
		t.Fatalf("signals = %d, want 2", len(wf.Signals))
	}
	if wf.Signals[0].Name != "clk" || wf.Signals[1].Name != "data" {
		t.Errorf("signal names = %q, %q", wf.Signals[0].Name, wf.Signals[1].Name)
	}
	if wf.Signals[1].Width != 8 || wf.Signals[1].Type != "reg" {
		t.Errorf("data signal = %+v", wf.Signals[1])
	}
	if len(wf.Changes) != 6 {
		t.Errorf("changes = %d, want 6", len(wf.Changes))
	}
	for i, c := range wf.Changes {
		if !wf.Valid(c.Signal) {
			t.Errorf("change %d references invalid signal %d", i, c.Signal)
		}
	}
}

func TestParseUnresolvedReducesCount(t *testing.T) {
	doc := `HEADER
version: 1
END_HEADER
SIGNALS
a: /a
b: /b
END_SIGNALS
WAVEFORM
0: a=1, x=1
5: b=0
10: y=1, z=0
15: a=0, b=1
END_WAVEFORM`
	wf, err := ParseString(doc)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(wf.Signals) != 2 {
		t.Errorf("signals = %d, want 2", len(wf.Signals))
	}
	if len(wf.Changes) != 4 {
		t.Errorf("changes = %d, want 4", len(wf.Changes))
	}
}

func TestParseChangesKeepFileOrder(t *testing.T) {
	wf, err := ParseString("HEADER\nversion: 1\nEND_HEADER\nSIGNALS\na: /a\nEND_SIGNALS\nWAVEFORM\n30: a=1\n10: a=0\n20: a=x\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []uint64{30, 10, 20}
	for i, c := range wf.Changes {
		if c.Time != want[i] {
			t.Errorf("change %d time = %d, want %d", i, c.Time, want[i])
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, input string
		target      *errors.Error
		wantMsg     string
	}{
		{
			"missing_header",
			"SIGNALS\nclk: /top/clk\nEND_SIGNALS\n",
			&errors.Error{Phase: errors.PhaseParse, Kind: errors.KindMissingSection},
			"HEADER",
		},
		{
			"empty_signals",
			"HEADER\nversion: 1.0\nEND_HEADER\nSIGNALS\nEND_SIGNALS\n",
			&errors.Error{Phase: errors.PhaseParse, Kind: errors.KindMissingSection},
			"SIGNALS",
		},
		{
			"bad_time",
			"HEADER\nversion: 1.0\nEND_HEADER\nSIGNALS\nclk: /clk\nEND_SIGNALS\nWAVEFORM\nsoon: clk=1\nEND_WAVEFORM\n",
			&errors.Error{Phase: errors.PhaseParse, Kind: errors.KindInvalidFormat},
			"soon",
		},
		{
			"invalid_data",
			"invalid data",
			&errors.Error{Phase: errors.PhaseParse, Kind: errors.KindMissingSection},
			"HEADER",
		},
		{
			"binary_junk",
			"\x00\x01\x02 random { bytes } ; ;",
			&errors.Error{Phase: errors.PhaseParse, Kind: errors.KindMissingSection},
			"HEADER",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf, err := ParseString(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if wf != nil {
				t.Error("no partial waveform should be returned")
			}
			if !stderrors.Is(err, tt.target) {
				t.Errorf("error %v is not %v", err, tt.target)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q missing %q", err, tt.wantMsg)
			}
		})
	}
}

type faultReader struct {
	data []byte
}

func (r *faultReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, stderrors.New("connection reset")
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestParseIOError(t *testing.T) {
	_, err := Parse(&faultReader{data: []byte("HEADER\nversion: 1\n")})
	if errors.KindOf(err) != errors.KindIO {
		t.Fatalf("kind = %v, want io (%v)", errors.KindOf(err), err)
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("error %q should carry cause", err)
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.wcp")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	wf, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(wf.Changes) != 6 {
		t.Errorf("changes = %d, want 6", len(wf.Changes))
	}

	_, err = ParseFile(filepath.Join(dir, "missing.wcp"))
	if errors.KindOf(err) != errors.KindIO {
		t.Errorf("missing file kind = %v, want io", errors.KindOf(err))
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error should wrap os.ErrNotExist: %v", err)
	}
}

func TestParseLogsDrops(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	_, err := ParseString("HEADER\nversion: 1\nEND_HEADER\nSIGNALS\na: /a\nEND_SIGNALS\nWAVEFORM\n0: a=1, ghost=0\n")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	dropped := logs.FilterMessage("wcp: ignored input").All()
	if len(dropped) != 1 {
		t.Fatalf("ignored-input entries = %d, want 1", len(dropped))
	}
	if reason := dropped[0].ContextMap()["reason"]; !strings.Contains(reason.(string), "ghost") {
		t.Errorf("reason = %v, want mention of ghost", reason)
	}
	if logs.FilterMessage("wcp: parsed").Len() != 1 {
		t.Error("expected one parsed entry")
	}
}
