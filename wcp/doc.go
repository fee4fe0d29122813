// Package wcp parses the WCP (Waveform Control Protocol) text format.
//
// A WCP document is line oriented and split into three sections, each opened
// and closed by a literal marker line:
//
//	HEADER
//	version: 1.0
//	timescale: 1ns
//	date: 2026-02-11
//	END_HEADER
//	SIGNALS
//	clk: /top/clk width:1 type:wire
//	data: /top/data width:8 type:reg
//	END_SIGNALS
//	WAVEFORM
//	0: clk=0, data=00
//	10: clk=1
//	END_WAVEFORM
//
// Blank lines and lines starting with '#' are skipped everywhere. Any END_*
// marker closes whichever section is open. Lines outside a section are ignored.
//
// Basic usage:
//
//	wf, err := wcp.Parse(r)
//	if err != nil {
//		return err
//	}
//	fmt.Println(len(wf.Signals), len(wf.Changes))
//
// The grammar is lax on purpose. Unknown header keys, malformed signal
// options, assignments to undeclared signals and lines outside a section are
// absorbed silently. Parsing fails only when:
//   - a WAVEFORM time field is not an unsigned 64-bit integer (invalid_format),
//   - the input stream faults (io),
//   - no HEADER content line was seen, or no signal was declared (missing_section).
//
// Parsing is all or nothing: on error no partial waveform is returned.
package wcp
