// Package wcptools reads waveforms in the Waveform Control Protocol (WCP)
// text format and exports them as VCD (Value Change Dump).
//
// # Architecture Overview
//
// The module is organized into packages with distinct responsibilities:
//
//	wcptools/            Root package with one-call conversion helpers
//	├── waveform/        Data model: Header, Signal, Change, Waveform
//	├── wcp/             WCP text parser (scanner -> section parser)
//	├── vcd/             VCD exporter and subset decoder
//	├── hierarchy/       Nested scope tree for browsing
//	├── store/           Owned, lock-guarded table of open waveforms
//	├── errors/          Structured error types
//	└── cmd/wcp/         CLI: convert, inspect, changes, view, serve, watch
//
// # Quick Start
//
// Convert a document in one call:
//
//	out, err := wcptools.ConvertToVCD(strings.NewReader(src))
//
// Or work with the model directly:
//
//	wf, err := wcp.ParseFile("counter.wcp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Print(vcd.Export(wf))
//
// # Input Format
//
// A WCP document has three sections, each opened and closed by a marker
// line:
//
//	HEADER
//	version: 1.0
//	timescale: 1ns
//	END_HEADER
//	SIGNALS
//	clk: /top/clk width:1 type:wire
//	END_SIGNALS
//	WAVEFORM
//	0: clk=0
//	10: clk=1
//	END_WAVEFORM
//
// Blank lines and lines starting with '#' are ignored. Malformed lines are
// skipped, except a WAVEFORM time that is not an unsigned integer, which
// fails the whole parse.
//
// # Thread Safety
//
// Parsing and exporting are synchronous and share no state. store.Store is
// safe for concurrent use.
package wcptools
